package gooddata

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeclarativeWorkspace is the full structural description of a workspace's
// analytics and logical-model objects, exchanged as a single blob.
type DeclarativeWorkspace struct {
	Analytics *DeclarativeAnalytics `yaml:"analytics,omitempty" json:"analytics,omitempty"`
	LDM       *DeclarativeLDM       `yaml:"ldm,omitempty" json:"ldm,omitempty"`
}

// DeclarativeAnalytics holds the analytics objects of a workspace. Object
// contents are opaque to the provisioner and passed through untouched.
type DeclarativeAnalytics struct {
	AnalyticalDashboardExtensions []map[string]any `yaml:"analyticalDashboardExtensions" json:"analyticalDashboardExtensions"`
	AnalyticalDashboards          []map[string]any `yaml:"analyticalDashboards" json:"analyticalDashboards"`
	AttributeHierarchies          []map[string]any `yaml:"attributeHierarchies" json:"attributeHierarchies"`
	DashboardPlugins              []map[string]any `yaml:"dashboardPlugins" json:"dashboardPlugins"`
	FilterContexts                []map[string]any `yaml:"filterContexts" json:"filterContexts"`
	Metrics                       []map[string]any `yaml:"metrics" json:"metrics"`
	VisualizationObjects          []map[string]any `yaml:"visualizationObjects" json:"visualizationObjects"`
}

// DeclarativeLDM is the dataset/relationship graph of a workspace.
type DeclarativeLDM struct {
	Datasets      []map[string]any `yaml:"datasets" json:"datasets"`
	DateInstances []map[string]any `yaml:"dateInstances" json:"dateInstances"`
}

// HasLogicalModel reports whether the workspace content carries a non-empty
// logical model. An existing model is never overwritten by provisioning.
func (w *DeclarativeWorkspace) HasLogicalModel() bool {
	return w.LDM != nil && (len(w.LDM.Datasets) > 0 || len(w.LDM.DateInstances) > 0)
}

// DeclarativeWorkspaceFromLayout converts a descriptor workspace layout into
// the platform's structural representation. Keys the model does not know are
// dropped; ToLayout surfaces that as a round-trip mismatch.
func DeclarativeWorkspaceFromLayout(layout map[string]any) (*DeclarativeWorkspace, error) {
	raw, err := yaml.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("marshal workspace layout: %w", err)
	}
	var ws DeclarativeWorkspace
	if err := yaml.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workspace layout: %w", err)
	}
	return &ws, nil
}

// ToLayout converts the structural representation back into the descriptor
// layout form.
func (w *DeclarativeWorkspace) ToLayout() (map[string]any, error) {
	raw, err := yaml.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal declarative workspace: %w", err)
	}
	var layout map[string]any
	if err := yaml.Unmarshal(raw, &layout); err != nil {
		return nil, fmt.Errorf("unmarshal declarative workspace: %w", err)
	}
	return layout, nil
}

// EmptyWorkspace returns the declarative content of a workspace with no
// analytics objects and no logical model. Written on unprovision with
// remove-data set.
func EmptyWorkspace() *DeclarativeWorkspace {
	return &DeclarativeWorkspace{
		Analytics: &DeclarativeAnalytics{
			AnalyticalDashboardExtensions: []map[string]any{},
			AnalyticalDashboards:          []map[string]any{},
			AttributeHierarchies:          []map[string]any{},
			DashboardPlugins:              []map[string]any{},
			FilterContexts:                []map[string]any{},
			Metrics:                       []map[string]any{},
			VisualizationObjects:          []map[string]any{},
		},
		LDM: &DeclarativeLDM{
			Datasets:      []map[string]any{},
			DateInstances: []map[string]any{},
		},
	}
}

// UserDataFilterMAQL renders the MAQL predicate of a user data filter.
// The operator defaults to "=" when empty.
func UserDataFilterMAQL(label, operator, value string) string {
	if operator == "" {
		operator = "="
	}
	return fmt.Sprintf("{label/%s} %s %q", label, operator, value)
}
