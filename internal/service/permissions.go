package service

import (
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/gooddata"
)

// Permission reconciliation is a pure merge with remove-then-append
// semantics: any existing assignment for one of the principals is dropped
// before the new assignment is added, so a principal holds at most one
// grant per target no matter how often the operation runs. The orchestrator
// owns the surrounding read-modify-write.

// ReconcileWorkspacePermissions merges a batch of workspace-level grants
// into an existing declarative permission set: one assignment per user and
// group at the given level, existing assignments for other principals kept
// unchanged. Hierarchy permissions pass through untouched.
func ReconcileWorkspacePermissions(existing *gooddata.DeclarativePermissions, userIDs, groupIDs []string, level string) *gooddata.DeclarativePermissions {
	granted := make(map[string]struct{}, len(userIDs)+len(groupIDs))
	for _, id := range userIDs {
		granted[id] = struct{}{}
	}
	for _, id := range groupIDs {
		granted[id] = struct{}{}
	}

	merged := make([]gooddata.PermissionAssignment, 0, len(existing.Permissions)+len(granted))
	for _, id := range userIDs {
		merged = append(merged, gooddata.PermissionAssignment{
			Name: level, AssigneeID: id, AssigneeType: gooddata.AssigneeUser,
		})
	}
	for _, id := range groupIDs {
		merged = append(merged, gooddata.PermissionAssignment{
			Name: level, AssigneeID: id, AssigneeType: gooddata.AssigneeGroup,
		})
	}
	for _, p := range existing.Permissions {
		if _, ok := granted[p.AssigneeID]; !ok {
			merged = append(merged, p)
		}
	}

	return &gooddata.DeclarativePermissions{
		Permissions:          merged,
		HierarchyPermissions: existing.HierarchyPermissions,
	}
}

// StripWorkspacePermissions returns the permission set with every
// assignment removed. Hierarchy permissions pass through untouched.
func StripWorkspacePermissions(existing *gooddata.DeclarativePermissions) *gooddata.DeclarativePermissions {
	return &gooddata.DeclarativePermissions{
		Permissions:          []gooddata.PermissionAssignment{},
		HierarchyPermissions: existing.HierarchyPermissions,
	}
}

// ReconcileDataSourcePermissions upserts a data-source grant into a
// principal's permission set: any existing assignment for the data source
// is replaced by a single assignment at the given level, workspace
// assignments are kept unchanged.
func ReconcileDataSourcePermissions(existing *gooddata.PermissionAssignments, dataSourceID, level string) *gooddata.PermissionAssignments {
	filtered := make([]gooddata.DataSourcePermission, 0, len(existing.DataSources)+1)
	for _, p := range existing.DataSources {
		if p.ID != dataSourceID {
			filtered = append(filtered, p)
		}
	}
	filtered = append(filtered, gooddata.DataSourcePermission{ID: dataSourceID, Permissions: []string{level}})

	return &gooddata.PermissionAssignments{
		Workspaces:  existing.Workspaces,
		DataSources: filtered,
	}
}
