package gooddata

import "context"

// Client is the capability interface against the remote analytics platform.
// Every call fetches fresh remote state; nothing is cached between calls,
// and no call is retried.
type Client interface {
	// Workspaces.
	WorkspaceExists(ctx context.Context, id string) (bool, error)
	CreateWorkspace(ctx context.Context, ws Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error
	ExportWorkspace(ctx context.Context, id string) (*DeclarativeWorkspace, error)
	ImportWorkspace(ctx context.Context, id string, content *DeclarativeWorkspace) error
	EmptyWorkspace(ctx context.Context, id string) error

	// Workspace-level permissions.
	GetWorkspacePermissions(ctx context.Context, workspaceID string) (*DeclarativePermissions, error)
	PutWorkspacePermissions(ctx context.Context, workspaceID string, perms *DeclarativePermissions) error

	// Principal-level permission sets (data-source grants live here).
	GetUserPermissions(ctx context.Context, userID string) (*PermissionAssignments, error)
	PutUserPermissions(ctx context.Context, userID string, assignments *PermissionAssignments) error
	GetGroupPermissions(ctx context.Context, groupID string) (*PermissionAssignments, error)
	PutGroupPermissions(ctx context.Context, groupID string, assignments *PermissionAssignments) error

	// Data sources and logical model generation.
	CreateDataSource(ctx context.Context, spec DataSourceSpec) (*DataSource, error)
	ScanDataSource(ctx context.Context, dataSourceID string) (*PhysicalModel, error)
	GenerateLogicalModel(ctx context.Context, dataSourceID string, tables []PhysicalTable, workspaceID string) (*DeclarativeLDM, error)
	PutLogicalModel(ctx context.Context, workspaceID string, ldm *DeclarativeLDM) error

	// Principals.
	ListUsers(ctx context.Context) ([]User, error)
	ListGroups(ctx context.Context) ([]Group, error)

	// User data filters.
	ListUserDataFilters(ctx context.Context, workspaceID string) ([]UserDataFilterEntity, error)
	CreateUserDataFilter(ctx context.Context, workspaceID string, filter UserDataFilterEntity) error
	DeleteUserDataFilter(ctx context.Context, workspaceID, filterID string) error

	// Host returns the platform base URL, used to build deep links.
	Host() string
}
