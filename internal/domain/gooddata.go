package domain

// UserDataFilter is a row-level access predicate declared on the GoodData
// output port. Operator defaults to "=" when empty.
type UserDataFilter struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	User     string `yaml:"user" json:"user"`
	Label    string `yaml:"label" json:"label"`
	Operator string `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value    string `yaml:"value" json:"value"`
}

// GoodDataSpec is the specific section of a GoodData output port: the
// desired state of the workspace to provision.
type GoodDataSpec struct {
	WorkspaceID       string           `yaml:"workspaceId" json:"workspaceId"`
	WorkspaceName     string           `yaml:"workspaceName" json:"workspaceName"`
	ParentWorkspaceID *string          `yaml:"parentWorkspaceId,omitempty" json:"parentWorkspaceId,omitempty"`
	WorkspaceLayout   map[string]any   `yaml:"workspaceLayout" json:"workspaceLayout"`
	UserDataFilters   []UserDataFilter `yaml:"userDataFilters,omitempty" json:"userDataFilters,omitempty"`
}

// Validate checks the structural preconditions of the workspace spec.
func (s *GoodDataSpec) Validate() *ValidationError {
	var problems []string
	if s.WorkspaceID == "" {
		problems = append(problems, "workspaceId must not be empty")
	}
	if s.WorkspaceName == "" {
		problems = append(problems, "workspaceName must not be empty")
	}
	for _, udf := range s.UserDataFilters {
		if udf.ID == "" || udf.User == "" || udf.Label == "" {
			problems = append(problems, "user data filters must carry id, user and label")
			break
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsRootWorkspace reports whether the spec describes a root workspace. Only
// root workspaces receive declarative content, data sources and a logical
// model; child workspaces inherit them from their parent.
func (s *GoodDataSpec) IsRootWorkspace() bool {
	return s.ParentWorkspaceID == nil || *s.ParentWorkspaceID == ""
}
