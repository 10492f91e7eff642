package service

import (
	"context"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/gooddata"
)

// fakeClient implements gooddata.Client with overridable function fields.
// Unset fields fall back to an empty remote: no workspaces, no principals,
// no permissions, and mutations that succeed silently.
type fakeClient struct {
	workspaceExistsFn         func(ctx context.Context, id string) (bool, error)
	createWorkspaceFn         func(ctx context.Context, ws gooddata.Workspace) error
	deleteWorkspaceFn         func(ctx context.Context, id string) error
	exportWorkspaceFn         func(ctx context.Context, id string) (*gooddata.DeclarativeWorkspace, error)
	importWorkspaceFn         func(ctx context.Context, id string, content *gooddata.DeclarativeWorkspace) error
	emptyWorkspaceFn          func(ctx context.Context, id string) error
	getWorkspacePermissionsFn func(ctx context.Context, workspaceID string) (*gooddata.DeclarativePermissions, error)
	putWorkspacePermissionsFn func(ctx context.Context, workspaceID string, perms *gooddata.DeclarativePermissions) error
	getUserPermissionsFn      func(ctx context.Context, userID string) (*gooddata.PermissionAssignments, error)
	putUserPermissionsFn      func(ctx context.Context, userID string, assignments *gooddata.PermissionAssignments) error
	getGroupPermissionsFn     func(ctx context.Context, groupID string) (*gooddata.PermissionAssignments, error)
	putGroupPermissionsFn     func(ctx context.Context, groupID string, assignments *gooddata.PermissionAssignments) error
	createDataSourceFn        func(ctx context.Context, spec gooddata.DataSourceSpec) (*gooddata.DataSource, error)
	scanDataSourceFn          func(ctx context.Context, dataSourceID string) (*gooddata.PhysicalModel, error)
	generateLogicalModelFn    func(ctx context.Context, dataSourceID string, tables []gooddata.PhysicalTable, workspaceID string) (*gooddata.DeclarativeLDM, error)
	putLogicalModelFn         func(ctx context.Context, workspaceID string, ldm *gooddata.DeclarativeLDM) error
	listUsersFn               func(ctx context.Context) ([]gooddata.User, error)
	listGroupsFn              func(ctx context.Context) ([]gooddata.Group, error)
	listUserDataFiltersFn     func(ctx context.Context, workspaceID string) ([]gooddata.UserDataFilterEntity, error)
	createUserDataFilterFn    func(ctx context.Context, workspaceID string, filter gooddata.UserDataFilterEntity) error
	deleteUserDataFilterFn    func(ctx context.Context, workspaceID, filterID string) error
	hostFn                    func() string
}

var _ gooddata.Client = (*fakeClient)(nil)

func (f *fakeClient) WorkspaceExists(ctx context.Context, id string) (bool, error) {
	if f.workspaceExistsFn != nil {
		return f.workspaceExistsFn(ctx, id)
	}
	return false, nil
}

func (f *fakeClient) CreateWorkspace(ctx context.Context, ws gooddata.Workspace) error {
	if f.createWorkspaceFn != nil {
		return f.createWorkspaceFn(ctx, ws)
	}
	return nil
}

func (f *fakeClient) DeleteWorkspace(ctx context.Context, id string) error {
	if f.deleteWorkspaceFn != nil {
		return f.deleteWorkspaceFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) ExportWorkspace(ctx context.Context, id string) (*gooddata.DeclarativeWorkspace, error) {
	if f.exportWorkspaceFn != nil {
		return f.exportWorkspaceFn(ctx, id)
	}
	return gooddata.EmptyWorkspace(), nil
}

func (f *fakeClient) ImportWorkspace(ctx context.Context, id string, content *gooddata.DeclarativeWorkspace) error {
	if f.importWorkspaceFn != nil {
		return f.importWorkspaceFn(ctx, id, content)
	}
	return nil
}

func (f *fakeClient) EmptyWorkspace(ctx context.Context, id string) error {
	if f.emptyWorkspaceFn != nil {
		return f.emptyWorkspaceFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) GetWorkspacePermissions(ctx context.Context, workspaceID string) (*gooddata.DeclarativePermissions, error) {
	if f.getWorkspacePermissionsFn != nil {
		return f.getWorkspacePermissionsFn(ctx, workspaceID)
	}
	return &gooddata.DeclarativePermissions{}, nil
}

func (f *fakeClient) PutWorkspacePermissions(ctx context.Context, workspaceID string, perms *gooddata.DeclarativePermissions) error {
	if f.putWorkspacePermissionsFn != nil {
		return f.putWorkspacePermissionsFn(ctx, workspaceID, perms)
	}
	return nil
}

func (f *fakeClient) GetUserPermissions(ctx context.Context, userID string) (*gooddata.PermissionAssignments, error) {
	if f.getUserPermissionsFn != nil {
		return f.getUserPermissionsFn(ctx, userID)
	}
	return &gooddata.PermissionAssignments{}, nil
}

func (f *fakeClient) PutUserPermissions(ctx context.Context, userID string, assignments *gooddata.PermissionAssignments) error {
	if f.putUserPermissionsFn != nil {
		return f.putUserPermissionsFn(ctx, userID, assignments)
	}
	return nil
}

func (f *fakeClient) GetGroupPermissions(ctx context.Context, groupID string) (*gooddata.PermissionAssignments, error) {
	if f.getGroupPermissionsFn != nil {
		return f.getGroupPermissionsFn(ctx, groupID)
	}
	return &gooddata.PermissionAssignments{}, nil
}

func (f *fakeClient) PutGroupPermissions(ctx context.Context, groupID string, assignments *gooddata.PermissionAssignments) error {
	if f.putGroupPermissionsFn != nil {
		return f.putGroupPermissionsFn(ctx, groupID, assignments)
	}
	return nil
}

func (f *fakeClient) CreateDataSource(ctx context.Context, spec gooddata.DataSourceSpec) (*gooddata.DataSource, error) {
	if f.createDataSourceFn != nil {
		return f.createDataSourceFn(ctx, spec)
	}
	return &gooddata.DataSource{ID: spec.ID, Name: spec.Name}, nil
}

func (f *fakeClient) ScanDataSource(ctx context.Context, dataSourceID string) (*gooddata.PhysicalModel, error) {
	if f.scanDataSourceFn != nil {
		return f.scanDataSourceFn(ctx, dataSourceID)
	}
	return &gooddata.PhysicalModel{}, nil
}

func (f *fakeClient) GenerateLogicalModel(ctx context.Context, dataSourceID string, tables []gooddata.PhysicalTable, workspaceID string) (*gooddata.DeclarativeLDM, error) {
	if f.generateLogicalModelFn != nil {
		return f.generateLogicalModelFn(ctx, dataSourceID, tables, workspaceID)
	}
	return &gooddata.DeclarativeLDM{}, nil
}

func (f *fakeClient) PutLogicalModel(ctx context.Context, workspaceID string, ldm *gooddata.DeclarativeLDM) error {
	if f.putLogicalModelFn != nil {
		return f.putLogicalModelFn(ctx, workspaceID, ldm)
	}
	return nil
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]gooddata.User, error) {
	if f.listUsersFn != nil {
		return f.listUsersFn(ctx)
	}
	return nil, nil
}

func (f *fakeClient) ListGroups(ctx context.Context) ([]gooddata.Group, error) {
	if f.listGroupsFn != nil {
		return f.listGroupsFn(ctx)
	}
	return nil, nil
}

func (f *fakeClient) ListUserDataFilters(ctx context.Context, workspaceID string) ([]gooddata.UserDataFilterEntity, error) {
	if f.listUserDataFiltersFn != nil {
		return f.listUserDataFiltersFn(ctx, workspaceID)
	}
	return nil, nil
}

func (f *fakeClient) CreateUserDataFilter(ctx context.Context, workspaceID string, filter gooddata.UserDataFilterEntity) error {
	if f.createUserDataFilterFn != nil {
		return f.createUserDataFilterFn(ctx, workspaceID, filter)
	}
	return nil
}

func (f *fakeClient) DeleteUserDataFilter(ctx context.Context, workspaceID, filterID string) error {
	if f.deleteUserDataFilterFn != nil {
		return f.deleteUserDataFilterFn(ctx, workspaceID, filterID)
	}
	return nil
}

func (f *fakeClient) Host() string {
	if f.hostFn != nil {
		return f.hostFn()
	}
	return "https://analytics.example.com"
}
