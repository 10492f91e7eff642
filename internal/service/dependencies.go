package service

import (
	"strings"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

// FindSnowflakeDependencies walks the component's declared dependency ids
// and returns the upstream components of a recognized Snowflake kind: a
// storage area built from the Snowflake storage template, or an output port
// built from the Snowflake output port template. A component with no
// declared dependencies at all violates a structural precondition and is an
// error; declared dependencies of other kinds are simply filtered out.
func FindSnowflakeDependencies(component *domain.Component, dp *domain.DataProduct) ([]*domain.Component, *domain.ValidationError) {
	if len(component.DependsOn) == 0 {
		return nil, domain.ErrValidation(
			"Component %s must have at least one dependency on a Snowflake component (Storage Area or Output Port) but has none.",
			component.ID)
	}

	var matches []*domain.Component
	for _, depID := range component.DependsOn {
		dep := dp.ComponentByID(depID)
		if dep == nil {
			continue
		}
		if isSnowflakeComponent(dep) {
			matches = append(matches, dep)
		}
	}
	return matches, nil
}

func isSnowflakeComponent(c *domain.Component) bool {
	switch c.Kind {
	case domain.KindStorageArea:
		return c.UseCaseTemplateID == domain.SnowflakeStorageTemplateID
	case domain.KindOutputPort:
		return c.UseCaseTemplateID == domain.SnowflakeOutputPortTemplateID
	default:
		return false
	}
}

// ExtractSnowflakeDependency requires the component to depend on exactly
// one recognized Snowflake component and returns it. More than one match is
// an error naming all matches.
func ExtractSnowflakeDependency(component *domain.Component, dp *domain.DataProduct) (*domain.Component, *domain.ValidationError) {
	matches, verr := FindSnowflakeDependencies(component, dp)
	if verr != nil {
		return nil, verr
	}

	if len(matches) != 1 {
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
		return nil, domain.ErrValidation(
			"Component %s must have exactly one dependency on a Snowflake component (Storage Area or Output Port) but has %d: %s",
			component.ID, len(matches), strings.Join(ids, ", "))
	}
	return matches[0], nil
}
