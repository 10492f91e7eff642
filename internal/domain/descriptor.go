package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ComponentKind is the kind discriminator of a data product component.
type ComponentKind string

const (
	KindOutputPort  ComponentKind = "outputport"
	KindStorageArea ComponentKind = "storage"
	KindWorkload    ComponentKind = "workload"
)

// ColumnDefinition is a single column of a declared table or view schema.
type ColumnDefinition struct {
	Name        string `yaml:"name" json:"name"`
	DataType    string `yaml:"dataType" json:"dataType"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// DataContract carries the declared schema of an output port.
type DataContract struct {
	Schema []ColumnDefinition `yaml:"schema" json:"schema"`
}

// Component is a node in the data product graph. Its Specific section is a
// free-form blob whose shape depends on the component's use case template;
// DecodeSpecific extracts it into a typed struct.
type Component struct {
	ID                       string         `yaml:"id" json:"id"`
	Name                     string         `yaml:"name" json:"name"`
	FullyQualifiedName       string         `yaml:"fullyQualifiedName,omitempty" json:"fullyQualifiedName,omitempty"`
	Description              string         `yaml:"description,omitempty" json:"description,omitempty"`
	Kind                     ComponentKind  `yaml:"kind" json:"kind"`
	UseCaseTemplateID        string         `yaml:"useCaseTemplateId,omitempty" json:"useCaseTemplateId,omitempty"`
	InfrastructureTemplateID string         `yaml:"infrastructureTemplateId,omitempty" json:"infrastructureTemplateId,omitempty"`
	DependsOn                []string       `yaml:"dependsOn" json:"dependsOn"`
	DataContract             *DataContract  `yaml:"dataContract,omitempty" json:"dataContract,omitempty"`
	Specific                 map[string]any `yaml:"specific" json:"specific"`
}

// DecodeSpecific unmarshals the component's specific section into out,
// rejecting unknown fields. Returns a ValidationError naming the component
// when the section does not fit the expected shape.
func (c *Component) DecodeSpecific(out any) *ValidationError {
	raw, err := yaml.Marshal(c.Specific)
	if err != nil {
		return ErrValidation("component %s: cannot read specific section: %v", c.ID, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return ErrValidation("component %s: invalid specific section: %v", c.ID, err)
	}
	return nil
}

// DataProduct owns the component graph plus the owner and developer group
// references. It is immutable for the duration of one orchestration call.
type DataProduct struct {
	ID               string      `yaml:"id" json:"id"`
	Name             string      `yaml:"name" json:"name"`
	Domain           string      `yaml:"domain" json:"domain"`
	Environment      string      `yaml:"environment,omitempty" json:"environment,omitempty"`
	Version          string      `yaml:"version,omitempty" json:"version,omitempty"`
	DataProductOwner string      `yaml:"dataProductOwner" json:"dataProductOwner"`
	DevGroup         string      `yaml:"devGroup" json:"devGroup"`
	Components       []Component `yaml:"components" json:"components"`
}

// ComponentByID returns the component with the given id, or nil.
func (dp *DataProduct) ComponentByID(id string) *Component {
	for i := range dp.Components {
		if dp.Components[i].ID == id {
			return &dp.Components[i]
		}
	}
	return nil
}

// TypedComponentByID returns the component with the given id after checking
// it is of the requested kind.
func (dp *DataProduct) TypedComponentByID(id string, kind ComponentKind) (*Component, error) {
	c := dp.ComponentByID(id)
	if c == nil {
		return nil, fmt.Errorf("component %s not found in data product %s", id, dp.ID)
	}
	if c.Kind != kind {
		return nil, fmt.Errorf("component %s has kind %s, expected %s", id, c.Kind, kind)
	}
	return c, nil
}
