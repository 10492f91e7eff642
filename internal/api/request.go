package api

import (
	"gopkg.in/yaml.v3"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

// descriptorKindComponent is the only descriptor kind this provisioner
// accepts: a single component to provision inside its data product.
const descriptorKindComponent = "COMPONENT_DESCRIPTOR"

// ProvisioningRequest is the body of validate, provision and unprovision
// calls. Descriptor is a YAML string, not embedded JSON.
type ProvisioningRequest struct {
	DescriptorKind string `json:"descriptorKind"`
	Descriptor     string `json:"descriptor"`
	RemoveData     bool   `json:"removeData,omitempty"`
}

// ProvisionInfo carries the original provisioning request alongside an
// update-ACL call.
type ProvisionInfo struct {
	Request string `json:"request"`
	Result  string `json:"result,omitempty"`
}

// UpdateACLRequest is the body of update-ACL calls: the principals to grant
// access to, plus the descriptor of the already-provisioned component.
type UpdateACLRequest struct {
	Refs          []string      `json:"refs"`
	ProvisionInfo ProvisionInfo `json:"provisionInfo"`
}

// ReverseProvisioningRequest is the body of reverse provisioning calls.
type ReverseProvisioningRequest struct {
	UseCaseTemplateID string         `json:"useCaseTemplateId"`
	Environment       string         `json:"environment"`
	Params            map[string]any `json:"params,omitempty"`
	CatalogInfo       map[string]any `json:"catalogInfo,omitempty"`
}

type descriptorEnvelope struct {
	DataProduct            *domain.DataProduct `yaml:"dataProduct"`
	ComponentIDToProvision string              `yaml:"componentIdToProvision"`
}

// unpackDescriptor parses a YAML component descriptor and resolves the
// component it targets. Every failure is a ValidationError; a malformed
// descriptor must never take down the request.
func unpackDescriptor(kind, descriptor string) (*domain.DataProduct, *domain.Component, *domain.ValidationError) {
	if kind != descriptorKindComponent {
		return nil, nil, domain.ErrValidation(
			"Expected descriptorKind %s but got %q.", descriptorKindComponent, kind)
	}

	var envelope descriptorEnvelope
	if err := yaml.Unmarshal([]byte(descriptor), &envelope); err != nil {
		return nil, nil, domain.ErrValidation("Unable to parse the descriptor. %v", err)
	}
	if envelope.DataProduct == nil {
		return nil, nil, domain.ErrValidation("Descriptor is missing the dataProduct section.")
	}
	if envelope.ComponentIDToProvision == "" {
		return nil, nil, domain.ErrValidation("Descriptor is missing componentIdToProvision.")
	}

	component := envelope.DataProduct.ComponentByID(envelope.ComponentIDToProvision)
	if component == nil {
		return nil, nil, domain.ErrValidation(
			"Component %s not found in the descriptor.", envelope.ComponentIDToProvision)
	}
	if component.Kind != domain.KindOutputPort {
		return nil, nil, domain.ErrValidation("Component is not of expected type.")
	}

	return envelope.DataProduct, component, nil
}
