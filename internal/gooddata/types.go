// Package gooddata models the remote analytics platform's resources and
// exposes the capability interface the provisioner drives it through.
package gooddata

// Workspace is the platform's unit of analytical content.
type Workspace struct {
	ID       string
	Name     string
	ParentID *string
}

// AssigneeType discriminates permission assignees.
type AssigneeType string

const (
	AssigneeUser  AssigneeType = "user"
	AssigneeGroup AssigneeType = "userGroup"
)

// Workspace permission levels granted by the provisioner.
const (
	PermissionManage = "MANAGE"
	PermissionView   = "VIEW"
	PermissionUse    = "USE"
)

// PermissionAssignment is one workspace-level declarative permission:
// a single level granted to a single assignee.
type PermissionAssignment struct {
	Name         string       `json:"name"`
	AssigneeID   string       `json:"assigneeId"`
	AssigneeType AssigneeType `json:"assigneeType"`
}

// DeclarativePermissions is the full permission state of one workspace.
// Hierarchy permissions are carried through writes untouched.
type DeclarativePermissions struct {
	Permissions          []PermissionAssignment `json:"permissions"`
	HierarchyPermissions []map[string]any       `json:"hierarchyPermissions,omitempty"`
}

// DataSourcePermission is one data-source-level assignment of a principal.
type DataSourcePermission struct {
	ID          string   `json:"id"`
	Permissions []string `json:"permissions"`
}

// WorkspacePermissionAssignment is one workspace-level assignment as seen
// from a principal's permission set.
type WorkspacePermissionAssignment struct {
	ID          string   `json:"id"`
	Permissions []string `json:"permissions,omitempty"`
	Hierarchy   []string `json:"hierarchy,omitempty"`
}

// PermissionAssignments is the full permission set of one principal, across
// workspaces and data sources.
type PermissionAssignments struct {
	Workspaces  []WorkspacePermissionAssignment `json:"workspaces"`
	DataSources []DataSourcePermission          `json:"dataSources"`
}

// User is a remote platform user.
type User struct {
	ID    string
	Email string
}

// Group is a remote platform user group.
type Group struct {
	ID   string
	Name string
}

// DataSourceSpec is the desired state of a Snowflake data source.
type DataSourceSpec struct {
	ID       string
	Name     string
	Database string
	Schema   string
}

// DataSource is a registered connection to an external database.
type DataSource struct {
	ID     string
	Name   string
	Schema string
}

// PhysicalColumn is one column of a scanned physical table.
type PhysicalColumn struct {
	Name         string `json:"name"`
	DataType     string `json:"dataType"`
	IsPrimaryKey bool   `json:"isPrimaryKey,omitempty"`
	IsNullable   bool   `json:"isNullable,omitempty"`
}

// PhysicalTable is one table or view of a scanned physical model.
type PhysicalTable struct {
	ID      string           `json:"id"`
	Path    []string         `json:"path,omitempty"`
	Type    string           `json:"type,omitempty"`
	Columns []PhysicalColumn `json:"columns,omitempty"`
}

// PhysicalModel is the result of scanning a data source.
type PhysicalModel struct {
	Tables   []PhysicalTable `json:"tables"`
	Warnings []string        `json:"warnings,omitempty"`
}

// UserDataFilterEntity is the platform's representation of a row filter:
// a MAQL predicate bound to a single user within a workspace.
type UserDataFilterEntity struct {
	ID     string
	Title  string
	MAQL   string
	UserID string
}
