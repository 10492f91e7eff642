package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/gooddata"
)

// GoodDataProvisioner drives the remote platform's workspace, permission
// and logical-data-model state toward the desired state declared by a
// GoodData output port. State is never cached: every operation re-queries
// the platform, so re-invocation after a partial failure resumes from
// whatever the completed steps produced.
type GoodDataProvisioner struct {
	client   gooddata.Client
	identity *IdentityMapper
	logger   *slog.Logger
}

var _ Provisioner = (*GoodDataProvisioner)(nil)

// NewGoodDataProvisioner creates the orchestrator on the given client.
func NewGoodDataProvisioner(client gooddata.Client, logger *slog.Logger) *GoodDataProvisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoodDataProvisioner{
		client:   client,
		identity: NewIdentityMapper(client, logger),
		logger:   logger,
	}
}

// extractSpec parses the component's specific section and checks its
// structural preconditions.
func (p *GoodDataProvisioner) extractSpec(component *domain.Component) (*domain.GoodDataSpec, *domain.ValidationError) {
	var spec domain.GoodDataSpec
	if verr := component.DecodeSpecific(&spec); verr != nil {
		return nil, domain.WrapValidation("Unable to access specific section of component.", verr)
	}
	if verr := spec.Validate(); verr != nil {
		return nil, domain.WrapValidation("Unable to access specific section of component.", verr)
	}
	return &spec, nil
}

// Validate checks the component descriptor without touching remote state.
// The workspace layout is round-tripped through the platform's structural
// representation and must come back unchanged; a mismatch means the layout
// carries content the platform would silently drop, which is surfaced here
// as a validation failure instead of a runtime provisioning failure.
func (p *GoodDataProvisioner) Validate(ctx context.Context, component *domain.Component, dp *domain.DataProduct) (*domain.ValidationResult, error) {
	p.logger.Info("validating component", "component_id", component.ID)

	spec, verr := p.extractSpec(component)
	if verr != nil {
		return &domain.ValidationResult{Valid: false, Error: verr}, nil
	}

	content, err := gooddata.DeclarativeWorkspaceFromLayout(spec.WorkspaceLayout)
	if err != nil {
		return &domain.ValidationResult{
			Valid: false,
			Error: &domain.ValidationError{Problems: []string{"Unable to parse the workspace content.", err.Error()}},
		}, nil
	}
	back, err := content.ToLayout()
	if err != nil {
		return &domain.ValidationResult{
			Valid: false,
			Error: &domain.ValidationError{Problems: []string{"Unable to parse the workspace content.", err.Error()}},
		}, nil
	}
	if diff := cmp.Diff(spec.WorkspaceLayout, back, cmpopts.EquateEmpty()); diff != "" {
		p.logger.Warn("workspace layout does not round-trip", "component_id", component.ID, "diff", diff)
		return &domain.ValidationResult{
			Valid: false,
			Error: domain.ErrValidation("Workspace content is not valid."),
		}, nil
	}

	return &domain.ValidationResult{Valid: true}, nil
}

// Provision drives the remote platform toward the component's desired
// state. Each step is an idempotent read-then-write; a remote failure
// aborts the remaining steps and is reported as a system error, leaving
// re-invocation as the recovery path.
func (p *GoodDataProvisioner) Provision(ctx context.Context, component *domain.Component, dp *domain.DataProduct) (*domain.ProvisioningStatus, error) {
	p.logger.Info("provisioning component", "component_id", component.ID)

	spec, verr := p.extractSpec(component)
	if verr != nil {
		return nil, verr
	}

	ownerID, devGroupID, verr, err := p.mapOwnerAndDevGroup(ctx, dp)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, domain.WrapValidation(
			"Unable to map DP owner and/or developer group to GoodData ids. Ensure they are present in GoodData and try again.",
			verr)
	}

	exists, err := p.client.WorkspaceExists(ctx, spec.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if exists {
		p.logger.Info("workspace already exists, skipping creation", "workspace_id", spec.WorkspaceID)
	} else {
		p.logger.Info("creating workspace", "workspace_id", spec.WorkspaceID)
		ws := gooddata.Workspace{ID: spec.WorkspaceID, Name: spec.WorkspaceName, ParentID: spec.ParentWorkspaceID}
		if err := p.client.CreateWorkspace(ctx, ws); err != nil {
			return nil, err
		}
	}

	// Content, data source and logical model are provisioned on root
	// workspaces only; child workspaces inherit them from their parent.
	if spec.IsRootWorkspace() {
		content, err := gooddata.DeclarativeWorkspaceFromLayout(spec.WorkspaceLayout)
		if err != nil {
			return nil, domain.ErrValidation("Unable to parse the workspace content. %v", err)
		}

		p.logger.Info("importing declarative content", "workspace_id", spec.WorkspaceID)
		if err := p.client.ImportWorkspace(ctx, spec.WorkspaceID, content); err != nil {
			return nil, err
		}

		matches, verr := FindSnowflakeDependencies(component, dp)
		if verr != nil {
			return nil, verr
		}
		if len(matches) > 0 {
			p.logger.Info("snowflake dependency found, provisioning data source and logical model",
				"component_id", component.ID)
			if err := p.provisionDataSourceAndModel(ctx, component, dp, spec, content, ownerID, devGroupID); err != nil {
				return nil, err
			}
		} else {
			p.logger.Info("no snowflake dependency found, skipping data source and logical model",
				"component_id", component.ID)
		}
	}

	p.logger.Info("granting MANAGE on workspace to owner and dev group", "workspace_id", spec.WorkspaceID)
	if err := p.grantWorkspacePermissions(ctx, spec.WorkspaceID, []string{ownerID}, []string{devGroupID}, gooddata.PermissionManage); err != nil {
		return nil, err
	}

	if err := p.replaceUserDataFilters(ctx, spec); err != nil {
		return nil, err
	}

	return &domain.ProvisioningStatus{
		Status: domain.StatusCompleted,
		Result: "Provisioning completed",
		Info: &domain.Info{
			PublicInfo: map[string]any{
				"link": map[string]any{
					"type":  "string",
					"label": "Link",
					"value": fmt.Sprintf("Go to %q workspace on GoodData", spec.WorkspaceName),
					"href":  p.dashboardURL(spec.WorkspaceID),
				},
			},
			PrivateInfo: map[string]any{},
		},
	}, nil
}

// Unprovision removes the workspace's permissions and, when removeData is
// set, replaces its declarative content with the empty template. The
// workspace object itself is kept. Unprovisioning a workspace that does not
// exist is a no-op success.
func (p *GoodDataProvisioner) Unprovision(ctx context.Context, component *domain.Component, dp *domain.DataProduct, removeData bool) (*domain.ProvisioningStatus, error) {
	p.logger.Info("unprovisioning component", "component_id", component.ID, "remove_data", removeData)

	spec, verr := p.extractSpec(component)
	if verr != nil {
		return nil, verr
	}

	exists, err := p.client.WorkspaceExists(ctx, spec.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		p.logger.Info("workspace does not exist, nothing to be done", "workspace_id", spec.WorkspaceID)
		return &domain.ProvisioningStatus{
			Status: domain.StatusCompleted,
			Result: "Unprovisioning completed (nothing to be done)",
		}, nil
	}

	if removeData {
		p.logger.Info("emptying workspace", "workspace_id", spec.WorkspaceID)
		if err := p.client.EmptyWorkspace(ctx, spec.WorkspaceID); err != nil {
			return nil, err
		}
	}

	p.logger.Info("removing all workspace permissions", "workspace_id", spec.WorkspaceID)
	if err := p.stripWorkspacePermissions(ctx, spec.WorkspaceID); err != nil {
		return nil, err
	}

	return &domain.ProvisioningStatus{
		Status: domain.StatusCompleted,
		Result: "Unprovisioning completed",
	}, nil
}

// UpdateACL rebuilds the workspace's permission set: MANAGE for the data
// product owner and dev group, VIEW for every reference that resolves to a
// remote principal. References that do not resolve make the overall status
// FAILED, but the grants for the resolved ones have already been applied by
// then; the caller learns which references were the problem.
func (p *GoodDataProvisioner) UpdateACL(ctx context.Context, component *domain.Component, dp *domain.DataProduct, refs []string) (*domain.ProvisioningStatus, error) {
	p.logger.Info("updating ACL", "component_id", component.ID, "refs", len(refs))

	spec, verr := p.extractSpec(component)
	if verr != nil {
		return nil, verr
	}

	exists, err := p.client.WorkspaceExists(ctx, spec.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &domain.ProvisioningStatus{
			Status: domain.StatusFailed,
			Result: fmt.Sprintf("Update ACL failed, workspace %s does not exist.", spec.WorkspaceID),
		}, nil
	}

	p.logger.Info("removing all workspace permissions", "workspace_id", spec.WorkspaceID)
	if err := p.stripWorkspacePermissions(ctx, spec.WorkspaceID); err != nil {
		return nil, err
	}

	ownerID, devGroupID, verr, err := p.mapOwnerAndDevGroup(ctx, dp)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, domain.WrapValidation("Unable to map DP owner and/or developer group to GoodData ids.", verr)
	}

	p.logger.Info("granting MANAGE on workspace to owner and dev group", "workspace_id", spec.WorkspaceID)
	if err := p.grantWorkspacePermissions(ctx, spec.WorkspaceID, []string{ownerID}, []string{devGroupID}, gooddata.PermissionManage); err != nil {
		return nil, err
	}

	var userRefs, groupRefs []string
	for _, ref := range refs {
		switch {
		case strings.HasPrefix(ref, "user:"):
			userRefs = append(userRefs, ref)
		case strings.HasPrefix(ref, "group:"):
			groupRefs = append(groupRefs, ref)
		}
	}

	mappedUsers, err := p.identity.MapUsers(ctx, userRefs)
	if err != nil {
		return nil, err
	}
	mappedGroups, err := p.identity.MapGroups(ctx, groupRefs)
	if err != nil {
		return nil, err
	}

	p.logger.Info("granting VIEW on workspace to consumers", "workspace_id", spec.WorkspaceID)
	if err := p.grantWorkspacePermissions(ctx, spec.WorkspaceID, Resolved(mappedUsers), Resolved(mappedGroups), gooddata.PermissionView); err != nil {
		return nil, err
	}

	invalidUsers := Unmapped(mappedUsers)
	invalidGroups := Unmapped(mappedGroups)
	if len(invalidUsers) == 0 && len(invalidGroups) == 0 {
		return &domain.ProvisioningStatus{
			Status: domain.StatusCompleted,
			Result: "Update ACL completed",
		}, nil
	}

	sort.Strings(invalidUsers)
	sort.Strings(invalidGroups)
	return &domain.ProvisioningStatus{
		Status: domain.StatusFailed,
		Result: fmt.Sprintf(
			"Update ACL failed, unable to map all users/groups. Problematic users: [%s], groups: [%s]",
			strings.Join(invalidUsers, ", "), strings.Join(invalidGroups, ", ")),
	}, nil
}

// ReverseProvision exports the live workspace's declarative content as a
// proposed update to the descriptor's workspace layout field.
func (p *GoodDataProvisioner) ReverseProvision(ctx context.Context, req *domain.ReverseProvisioningRequest) (*domain.ReverseProvisioningStatus, error) {
	p.logger.Info("reverse provisioning", "use_case_template_id", req.UseCaseTemplateID, "environment", req.Environment)

	if req.Params == nil {
		return nil, domain.ErrRequestValidation(
			"Missing required parameters for reverse provisioning request",
			"Specify required parameters for reverse provisioning request",
			"Contact the Platform Team for further assistance")
	}

	workspaceID, _ := req.Params["workspaceId"].(string)
	if workspaceID == "" {
		return nil, domain.ErrRequestValidation(
			"Missing required parameter workspaceId for reverse provisioning request",
			"Specify workspaceId for reverse provisioning request",
			"Contact the Platform Team for further assistance")
	}

	exists, err := p.client.WorkspaceExists(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrRequestValidation(
			fmt.Sprintf("Workspace %s does not exist", workspaceID),
			"Ensure the workspace id provided is correct",
			"Contact the Platform Team for further assistance")
	}

	p.logger.Info("exporting workspace content", "workspace_id", workspaceID)
	content, err := p.client.ExportWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	layout, err := content.ToLayout()
	if err != nil {
		return nil, err
	}

	return &domain.ReverseProvisioningStatus{
		Status: domain.StatusCompleted,
		Result: "Reverse provisioning completed",
		Updates: map[string]any{
			"spec.mesh.specific.workspaceLayout": layout,
		},
	}, nil
}

// mapOwnerAndDevGroup resolves the data product's owner and developer group
// to remote ids. An unresolvable reference is a validation problem; a
// failed remote listing is a system error.
func (p *GoodDataProvisioner) mapOwnerAndDevGroup(ctx context.Context, dp *domain.DataProduct) (ownerID, devGroupID string, verr *domain.ValidationError, err error) {
	mappedUsers, err := p.identity.MapUsers(ctx, []string{dp.DataProductOwner})
	if err != nil {
		return "", "", nil, err
	}
	if ownerID = mappedUsers[dp.DataProductOwner]; ownerID == "" {
		return "", "", domain.ErrValidation("Unable to map DP owner %q to a GoodData user.", dp.DataProductOwner), nil
	}

	mappedGroups, err := p.identity.MapGroups(ctx, []string{dp.DevGroup})
	if err != nil {
		return "", "", nil, err
	}
	if devGroupID = mappedGroups[dp.DevGroup]; devGroupID == "" {
		return "", "", domain.ErrValidation("Unable to map DP dev group %q to a GoodData group.", dp.DevGroup), nil
	}

	return ownerID, devGroupID, nil, nil
}

// provisionDataSourceAndModel registers the Snowflake data source derived
// from the component's single recognized dependency, grants USE on it to
// owner and dev group, and generates the workspace's logical model from the
// scanned physical schema unless the declared content already carries one.
func (p *GoodDataProvisioner) provisionDataSourceAndModel(
	ctx context.Context,
	component *domain.Component,
	dp *domain.DataProduct,
	spec *domain.GoodDataSpec,
	content *gooddata.DeclarativeWorkspace,
	ownerID, devGroupID string,
) error {
	dep, verr := ExtractSnowflakeDependency(component, dp)
	if verr != nil {
		return domain.WrapValidation("Unable to extract Snowflake dependencies.", verr)
	}
	meta, verr := domain.SnowflakeMetadataOf(dep)
	if verr != nil {
		return verr
	}

	dataSourceID := DataSourceID(component, dep)
	dataSourceName := DataSourceName(component, dep)

	p.logger.Info("creating data source", "data_source_id", dataSourceID)
	ds, err := p.client.CreateDataSource(ctx, gooddata.DataSourceSpec{
		ID:       dataSourceID,
		Name:     dataSourceName,
		Database: meta.Database,
		Schema:   meta.Schema,
	})
	if err != nil {
		return err
	}

	p.logger.Info("granting USE on data source to owner and dev group", "data_source_id", ds.ID)
	ownerPerms, err := p.client.GetUserPermissions(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := p.client.PutUserPermissions(ctx, ownerID, ReconcileDataSourcePermissions(ownerPerms, ds.ID, gooddata.PermissionUse)); err != nil {
		return err
	}
	groupPerms, err := p.client.GetGroupPermissions(ctx, devGroupID)
	if err != nil {
		return err
	}
	if err := p.client.PutGroupPermissions(ctx, devGroupID, ReconcileDataSourcePermissions(groupPerms, ds.ID, gooddata.PermissionUse)); err != nil {
		return err
	}

	if content.HasLogicalModel() {
		p.logger.Info("workspace already declares a logical model, skipping generation",
			"workspace_id", spec.WorkspaceID, "data_source_id", ds.ID)
		return nil
	}

	p.logger.Info("scanning data source", "data_source_id", ds.ID)
	physical, err := p.client.ScanDataSource(ctx, ds.ID)
	if err != nil {
		return err
	}
	for _, warning := range physical.Warnings {
		p.logger.Warn("data source scan warning", "data_source_id", ds.ID, "warning", warning)
	}

	// Restrict generation to the objects the dependency declares; the scan
	// sees the whole schema, which may hold other components' tables.
	declared := make(map[string]struct{}, len(meta.Objects))
	for _, obj := range meta.Objects {
		declared[strings.ToUpper(obj.Name)] = struct{}{}
	}
	var tables []gooddata.PhysicalTable
	for _, t := range physical.Tables {
		if _, ok := declared[strings.ToUpper(t.ID)]; ok {
			tables = append(tables, t)
		}
	}

	p.logger.Info("generating logical model", "data_source_id", ds.ID, "workspace_id", spec.WorkspaceID, "tables", len(tables))
	ldm, err := p.client.GenerateLogicalModel(ctx, ds.ID, tables, spec.WorkspaceID)
	if err != nil {
		return err
	}
	return p.client.PutLogicalModel(ctx, spec.WorkspaceID, ldm)
}

// grantWorkspacePermissions reads the workspace's permission set, merges in
// the grants, and writes it back.
func (p *GoodDataProvisioner) grantWorkspacePermissions(ctx context.Context, workspaceID string, userIDs, groupIDs []string, level string) error {
	existing, err := p.client.GetWorkspacePermissions(ctx, workspaceID)
	if err != nil {
		return err
	}
	return p.client.PutWorkspacePermissions(ctx, workspaceID, ReconcileWorkspacePermissions(existing, userIDs, groupIDs, level))
}

func (p *GoodDataProvisioner) stripWorkspacePermissions(ctx context.Context, workspaceID string) error {
	existing, err := p.client.GetWorkspacePermissions(ctx, workspaceID)
	if err != nil {
		return err
	}
	return p.client.PutWorkspacePermissions(ctx, workspaceID, StripWorkspacePermissions(existing))
}

// replaceUserDataFilters deletes every row filter on the workspace and
// recreates the declared set. Filters are replaced wholesale, never diffed.
func (p *GoodDataProvisioner) replaceUserDataFilters(ctx context.Context, spec *domain.GoodDataSpec) error {
	p.logger.Info("removing existing user data filters", "workspace_id", spec.WorkspaceID)
	existing, err := p.client.ListUserDataFilters(ctx, spec.WorkspaceID)
	if err != nil {
		return err
	}
	for _, filter := range existing {
		if err := p.client.DeleteUserDataFilter(ctx, spec.WorkspaceID, filter.ID); err != nil {
			return err
		}
	}

	if len(spec.UserDataFilters) == 0 {
		p.logger.Info("no user data filters declared", "workspace_id", spec.WorkspaceID)
		return nil
	}

	refs := make([]string, 0, len(spec.UserDataFilters))
	for _, udf := range spec.UserDataFilters {
		refs = append(refs, udf.User)
	}
	mapped, err := p.identity.MapUsers(ctx, refs)
	if err != nil {
		return err
	}

	for _, udf := range spec.UserDataFilters {
		userID := mapped[udf.User]
		if userID == "" {
			return fmt.Errorf("unable to map user data filter user %q to a GoodData user", udf.User)
		}
		p.logger.Info("applying user data filter", "workspace_id", spec.WorkspaceID, "filter_id", udf.ID)
		err := p.client.CreateUserDataFilter(ctx, spec.WorkspaceID, gooddata.UserDataFilterEntity{
			ID:     udf.ID,
			Title:  udf.Title,
			MAQL:   gooddata.UserDataFilterMAQL(udf.Label, udf.Operator, udf.Value),
			UserID: userID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *GoodDataProvisioner) dashboardURL(workspaceID string) string {
	return p.client.Host() + "/dashboards/#/workspace/" + workspaceID + "/"
}
