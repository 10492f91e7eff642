// Package service implements the reconciliation core of the provisioner:
// the lifecycle orchestrator and the pure helper logic it composes.
package service

import (
	"strings"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

// Component ids are hierarchical and colon-delimited, e.g.
// "urn:dmb:cmp:<domain>:<product>:<major-version>:<component-path...>".
// Fields 3 to 5 identify the data product, fields 6 onward the component.
const (
	idProductFieldStart   = 3
	idComponentFieldStart = 6
)

func idFields(id string) []string { return strings.Split(id, ":") }

func sliceFields(fields []string, from, to int) []string {
	if from > len(fields) {
		return nil
	}
	if to < 0 || to > len(fields) {
		to = len(fields)
	}
	return fields[from:to]
}

// DataSourceID derives the data source identifier for a component and its
// Snowflake dependency. It is a pure function of the two component ids:
// re-running provisioning always computes the same data source id.
func DataSourceID(component, dependency *domain.Component) string {
	prefix := sliceFields(idFields(component.ID), idProductFieldStart, idComponentFieldStart)
	suffix := sliceFields(idFields(dependency.ID), idComponentFieldStart, -1)

	parts := make([]string, 0, len(prefix)+1+len(suffix))
	parts = append(parts, prefix...)
	parts = append(parts, "datasource")
	parts = append(parts, suffix...)
	return strings.Join(parts, "_")
}

// DataSourceName derives the display name of the data source from the
// component's fully qualified name and the dependency's name.
func DataSourceName(component, dependency *domain.Component) string {
	fqn := component.FullyQualifiedName
	if fqn == "" {
		fqn = FullyQualifiedName(component)
	}
	return fqn + " - Data Source - " + dependency.Name
}

// FullyQualifiedName rebuilds a display name from the component id, used as
// a fallback when the descriptor carries no explicit one.
func FullyQualifiedName(component *domain.Component) string {
	fields := idFields(component.ID)
	product := sliceFields(fields, idProductFieldStart, idComponentFieldStart)
	if len(product) < 3 {
		return component.Name
	}
	return rebuildName(product[0]) + " - " + rebuildName(product[1]) + " - V" + product[2] + " - " + component.Name
}

// rebuildName turns a normalized id segment back into a display name:
// dashes become spaces and every word is title-cased.
func rebuildName(normalized string) string {
	words := strings.Split(strings.ReplaceAll(normalized, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
