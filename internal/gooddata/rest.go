package gooddata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

// SnowflakeConnection holds the connection parameters used when registering
// Snowflake data sources on the platform.
type SnowflakeConnection struct {
	User      string
	Password  string
	Account   string
	Warehouse string
	Role      string
	Port      string
}

// JDBCURL builds the JDBC connection string of the configured account.
func (c SnowflakeConnection) JDBCURL() string {
	return fmt.Sprintf("jdbc:snowflake://%s.snowflakecomputing.com:%s?warehouse=%s",
		c.Account, c.Port, c.Warehouse)
}

// RestClient implements Client against the GoodData Cloud REST API (layout
// and entities endpoints). It is a thin wrapper: one remote call per method,
// no caching, no retries.
type RestClient struct {
	host      string
	token     string
	snowflake SnowflakeConnection
	http      *http.Client
	logger    *slog.Logger
}

var _ Client = (*RestClient)(nil)

// NewRestClient creates a RestClient for the given host and API token.
func NewRestClient(host, token string, snowflake SnowflakeConnection, logger *slog.Logger) *RestClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestClient{
		host:      strings.TrimRight(host, "/"),
		token:     token,
		snowflake: snowflake,
		http:      &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}
}

// Host returns the platform base URL.
func (c *RestClient) Host() string { return c.host }

// do performs one JSON request against the platform. A 404 response maps to
// domain.NotFoundError; any other non-2xx status is an error carrying the
// method, path, status and response body.
func (c *RestClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, payload)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("gooddata api call", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound("%s %s: not found", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// === Workspaces ===

type workspaceAttributes struct {
	Name string `json:"name"`
}

type workspaceRelationships struct {
	Parent *relationship `json:"parent,omitempty"`
}

type relationship struct {
	Data resourceIdentifier `json:"data"`
}

type resourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type workspaceDocument struct {
	Data workspaceResource `json:"data"`
}

type workspaceResource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    workspaceAttributes     `json:"attributes"`
	Relationships *workspaceRelationships `json:"relationships,omitempty"`
}

func (c *RestClient) WorkspaceExists(ctx context.Context, id string) (bool, error) {
	err := c.do(ctx, http.MethodGet, "/api/v1/entities/workspaces/"+id, nil, nil)
	if err == nil {
		return true, nil
	}
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}

func (c *RestClient) CreateWorkspace(ctx context.Context, ws Workspace) error {
	doc := workspaceDocument{Data: workspaceResource{
		ID:         ws.ID,
		Type:       "workspace",
		Attributes: workspaceAttributes{Name: ws.Name},
	}}
	if ws.ParentID != nil && *ws.ParentID != "" {
		doc.Data.Relationships = &workspaceRelationships{
			Parent: &relationship{Data: resourceIdentifier{ID: *ws.ParentID, Type: "workspace"}},
		}
	}

	err := c.do(ctx, http.MethodPut, "/api/v1/entities/workspaces/"+ws.ID, doc, nil)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return c.do(ctx, http.MethodPost, "/api/v1/entities/workspaces", doc, nil)
	}
	return err
}

func (c *RestClient) DeleteWorkspace(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/entities/workspaces/"+id, nil, nil)
}

func (c *RestClient) ExportWorkspace(ctx context.Context, id string) (*DeclarativeWorkspace, error) {
	var content DeclarativeWorkspace
	if err := c.do(ctx, http.MethodGet, "/api/v1/layout/workspaces/"+id, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *RestClient) ImportWorkspace(ctx context.Context, id string, content *DeclarativeWorkspace) error {
	return c.do(ctx, http.MethodPut, "/api/v1/layout/workspaces/"+id, content, nil)
}

func (c *RestClient) EmptyWorkspace(ctx context.Context, id string) error {
	return c.ImportWorkspace(ctx, id, EmptyWorkspace())
}

// === Workspace permissions ===

type declarativePermissionsDTO struct {
	Permissions          []declarativePermissionDTO `json:"permissions"`
	HierarchyPermissions []map[string]any           `json:"hierarchyPermissions,omitempty"`
}

type declarativePermissionDTO struct {
	Name     string      `json:"name"`
	Assignee assigneeDTO `json:"assignee"`
}

type assigneeDTO struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func (c *RestClient) GetWorkspacePermissions(ctx context.Context, workspaceID string) (*DeclarativePermissions, error) {
	var dto declarativePermissionsDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/layout/workspaces/"+workspaceID+"/permissions", nil, &dto); err != nil {
		return nil, err
	}
	perms := &DeclarativePermissions{HierarchyPermissions: dto.HierarchyPermissions}
	for _, p := range dto.Permissions {
		perms.Permissions = append(perms.Permissions, PermissionAssignment{
			Name:         p.Name,
			AssigneeID:   p.Assignee.ID,
			AssigneeType: AssigneeType(p.Assignee.Type),
		})
	}
	return perms, nil
}

func (c *RestClient) PutWorkspacePermissions(ctx context.Context, workspaceID string, perms *DeclarativePermissions) error {
	dto := declarativePermissionsDTO{
		Permissions:          []declarativePermissionDTO{},
		HierarchyPermissions: perms.HierarchyPermissions,
	}
	for _, p := range perms.Permissions {
		dto.Permissions = append(dto.Permissions, declarativePermissionDTO{
			Name:     p.Name,
			Assignee: assigneeDTO{ID: p.AssigneeID, Type: string(p.AssigneeType)},
		})
	}
	return c.do(ctx, http.MethodPut, "/api/v1/layout/workspaces/"+workspaceID+"/permissions", dto, nil)
}

// === Principal permission sets ===

func (c *RestClient) GetUserPermissions(ctx context.Context, userID string) (*PermissionAssignments, error) {
	return c.getPermissionAssignments(ctx, "/api/v1/layout/users/"+userID+"/permissions")
}

func (c *RestClient) PutUserPermissions(ctx context.Context, userID string, assignments *PermissionAssignments) error {
	return c.do(ctx, http.MethodPut, "/api/v1/layout/users/"+userID+"/permissions", normalized(assignments), nil)
}

func (c *RestClient) GetGroupPermissions(ctx context.Context, groupID string) (*PermissionAssignments, error) {
	return c.getPermissionAssignments(ctx, "/api/v1/layout/userGroups/"+groupID+"/permissions")
}

func (c *RestClient) PutGroupPermissions(ctx context.Context, groupID string, assignments *PermissionAssignments) error {
	return c.do(ctx, http.MethodPut, "/api/v1/layout/userGroups/"+groupID+"/permissions", normalized(assignments), nil)
}

func (c *RestClient) getPermissionAssignments(ctx context.Context, path string) (*PermissionAssignments, error) {
	var assignments PermissionAssignments
	if err := c.do(ctx, http.MethodGet, path, nil, &assignments); err != nil {
		return nil, err
	}
	return &assignments, nil
}

// normalized replaces nil slices so the platform receives explicit empty
// lists instead of JSON null.
func normalized(a *PermissionAssignments) *PermissionAssignments {
	out := &PermissionAssignments{Workspaces: a.Workspaces, DataSources: a.DataSources}
	if out.Workspaces == nil {
		out.Workspaces = []WorkspacePermissionAssignment{}
	}
	if out.DataSources == nil {
		out.DataSources = []DataSourcePermission{}
	}
	return out
}

// === Data sources ===

type dataSourceAttributes struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Schema   string `json:"schema"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type dataSourceDocument struct {
	Data dataSourceResource `json:"data"`
}

type dataSourceResource struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Attributes dataSourceAttributes `json:"attributes"`
}

func (c *RestClient) CreateDataSource(ctx context.Context, spec DataSourceSpec) (*DataSource, error) {
	doc := dataSourceDocument{Data: dataSourceResource{
		ID:   spec.ID,
		Type: "dataSource",
		Attributes: dataSourceAttributes{
			Name:     spec.Name,
			Type:     "SNOWFLAKE",
			URL:      c.snowflake.JDBCURL() + "&db=" + spec.Database,
			Schema:   spec.Schema,
			Username: c.snowflake.User,
			Password: c.snowflake.Password,
		},
	}}

	err := c.do(ctx, http.MethodPut, "/api/v1/entities/dataSources/"+spec.ID, doc, nil)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		err = c.do(ctx, http.MethodPost, "/api/v1/entities/dataSources", doc, nil)
	}
	if err != nil {
		return nil, err
	}

	var created dataSourceDocument
	if err := c.do(ctx, http.MethodGet, "/api/v1/entities/dataSources/"+spec.ID, nil, &created); err != nil {
		return nil, err
	}
	return &DataSource{
		ID:     created.Data.ID,
		Name:   created.Data.Attributes.Name,
		Schema: created.Data.Attributes.Schema,
	}, nil
}

type scanRequest struct {
	ScanTables bool `json:"scanTables"`
	ScanViews  bool `json:"scanViews"`
}

type scanResponse struct {
	PDM      PhysicalModel `json:"pdm"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (c *RestClient) ScanDataSource(ctx context.Context, dataSourceID string) (*PhysicalModel, error) {
	var resp scanResponse
	req := scanRequest{ScanTables: true, ScanViews: true}
	if err := c.do(ctx, http.MethodPost, "/api/v1/actions/dataSources/"+dataSourceID+"/scan", req, &resp); err != nil {
		return nil, err
	}
	model := resp.PDM
	model.Warnings = append(model.Warnings, resp.Warnings...)
	return &model, nil
}

type generateLDMRequest struct {
	PDM         generateLDMTables `json:"pdm"`
	WorkspaceID string            `json:"workspaceId,omitempty"`
}

type generateLDMTables struct {
	Tables []PhysicalTable `json:"tables"`
}

type generateLDMResponse struct {
	DeclarativeModel struct {
		LDM DeclarativeLDM `json:"ldm"`
	} `json:"declarativeModel"`
}

func (c *RestClient) GenerateLogicalModel(ctx context.Context, dataSourceID string, tables []PhysicalTable, workspaceID string) (*DeclarativeLDM, error) {
	req := generateLDMRequest{PDM: generateLDMTables{Tables: tables}, WorkspaceID: workspaceID}
	var resp generateLDMResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/actions/dataSources/"+dataSourceID+"/generateLogicalModel", req, &resp); err != nil {
		return nil, err
	}
	return &resp.DeclarativeModel.LDM, nil
}

type logicalModelDocument struct {
	LDM *DeclarativeLDM `json:"ldm"`
}

func (c *RestClient) PutLogicalModel(ctx context.Context, workspaceID string, ldm *DeclarativeLDM) error {
	return c.do(ctx, http.MethodPut, "/api/v1/layout/workspaces/"+workspaceID+"/logicalModel", logicalModelDocument{LDM: ldm}, nil)
}

// === Principals ===

type userCollection struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Email string `json:"email"`
		} `json:"attributes"`
	} `json:"data"`
}

type groupCollection struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"data"`
}

const principalPageSize = 250

func (c *RestClient) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	for page := 0; ; page++ {
		path := fmt.Sprintf("/api/v1/entities/users?page[size]=%d&page[number]=%d", principalPageSize, page)
		var collection userCollection
		if err := c.do(ctx, http.MethodGet, path, nil, &collection); err != nil {
			return nil, err
		}
		for _, u := range collection.Data {
			users = append(users, User{ID: u.ID, Email: u.Attributes.Email})
		}
		if len(collection.Data) < principalPageSize {
			return users, nil
		}
	}
}

func (c *RestClient) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	for page := 0; ; page++ {
		path := fmt.Sprintf("/api/v1/entities/userGroups?page[size]=%d&page[number]=%d", principalPageSize, page)
		var collection groupCollection
		if err := c.do(ctx, http.MethodGet, path, nil, &collection); err != nil {
			return nil, err
		}
		for _, g := range collection.Data {
			groups = append(groups, Group{ID: g.ID, Name: g.Attributes.Name})
		}
		if len(collection.Data) < principalPageSize {
			return groups, nil
		}
	}
}

// === User data filters ===

type userDataFilterAttributes struct {
	MAQL  string `json:"maql"`
	Title string `json:"title"`
}

type userDataFilterRelationships struct {
	User relationship `json:"user"`
}

type userDataFilterResource struct {
	ID            string                      `json:"id"`
	Type          string                      `json:"type"`
	Attributes    userDataFilterAttributes    `json:"attributes"`
	Relationships userDataFilterRelationships `json:"relationships"`
}

type userDataFilterDocument struct {
	Data userDataFilterResource `json:"data"`
}

type userDataFilterCollection struct {
	Data []userDataFilterResource `json:"data"`
}

func (c *RestClient) ListUserDataFilters(ctx context.Context, workspaceID string) ([]UserDataFilterEntity, error) {
	var collection userDataFilterCollection
	path := "/api/v1/entities/workspaces/" + workspaceID + "/userDataFilters"
	if err := c.do(ctx, http.MethodGet, path, nil, &collection); err != nil {
		return nil, err
	}
	filters := make([]UserDataFilterEntity, 0, len(collection.Data))
	for _, f := range collection.Data {
		filters = append(filters, UserDataFilterEntity{
			ID:     f.ID,
			Title:  f.Attributes.Title,
			MAQL:   f.Attributes.MAQL,
			UserID: f.Relationships.User.Data.ID,
		})
	}
	return filters, nil
}

func (c *RestClient) CreateUserDataFilter(ctx context.Context, workspaceID string, filter UserDataFilterEntity) error {
	doc := userDataFilterDocument{Data: userDataFilterResource{
		ID:         filter.ID,
		Type:       "userDataFilter",
		Attributes: userDataFilterAttributes{MAQL: filter.MAQL, Title: filter.Title},
		Relationships: userDataFilterRelationships{
			User: relationship{Data: resourceIdentifier{ID: filter.UserID, Type: "user"}},
		},
	}}

	path := "/api/v1/entities/workspaces/" + workspaceID + "/userDataFilters"
	err := c.do(ctx, http.MethodPut, path+"/"+filter.ID, doc, nil)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return c.do(ctx, http.MethodPost, path, doc, nil)
	}
	return err
}

func (c *RestClient) DeleteUserDataFilter(ctx context.Context, workspaceID, filterID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/entities/workspaces/"+workspaceID+"/userDataFilters/"+filterID, nil, nil)
}
