package entitymodel

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"sgas/pkg/domain"
)

// ReadDescription parses a description previously written by the schema
// endpoint or the catalog export command.
func ReadDescription(r io.Reader) (Description, error) {
	var d Description
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Description{}, fmt.Errorf("parse description: %w", err)
	}
	return d, nil
}

// Breaking lists the changes between baseline and current that would break
// stored records or existing clients. Additions are never reported.
func Breaking(baseline, current Description) []string {
	entities := make(map[domain.EntityType]EntityDescription, len(current.Entities))
	for _, e := range current.Entities {
		entities[e.Type] = e
	}

	var issues []string
	for _, old := range baseline.Entities {
		updated, ok := entities[old.Type]
		if !ok {
			issues = append(issues, fmt.Sprintf("entity removed: %s", old.Type))
			continue
		}
		scope := fmt.Sprintf("entity %s", old.Type)
		if old.Route != updated.Route {
			issues = append(issues, fmt.Sprintf("%s route changed: %s -> %s", scope, old.Route, updated.Route))
		}
		issues = append(issues, fieldChanges(scope, old.Fields, updated.Fields)...)
		issues = append(issues, relationChanges(scope, old.Relations, updated.Relations)...)
	}
	sort.Strings(issues)
	return issues
}

func fieldChanges(scope string, oldFields, newFields []domain.Field) []string {
	byAPI := make(map[string]domain.Field, len(newFields))
	for _, f := range newFields {
		byAPI[f.API] = f
	}
	var issues []string
	for _, old := range oldFields {
		f, ok := byAPI[old.API]
		switch {
		case !ok:
			issues = append(issues, fmt.Sprintf("%s field removed: %s", scope, old.API))
			continue
		case f.Storage != old.Storage:
			issues = append(issues, fmt.Sprintf("%s field %s storage changed: %s -> %s", scope, old.API, old.Storage, f.Storage))
		case f.Kind != old.Kind:
			issues = append(issues, fmt.Sprintf("%s field %s kind changed: %s -> %s", scope, old.API, old.Kind, f.Kind))
		}
		if f.Required && !old.Required {
			issues = append(issues, fmt.Sprintf("%s field %s became required", scope, old.API))
		}
		if f.Unique && !old.Unique {
			issues = append(issues, fmt.Sprintf("%s field %s became unique", scope, old.API))
		}
		for _, v := range missing(old.Enum, f.Enum) {
			issues = append(issues, fmt.Sprintf("%s field %s enum value removed: %s", scope, old.API, v))
		}
	}
	return issues
}

func relationChanges(scope string, oldRels, newRels []domain.Relation) []string {
	byAPI := make(map[string]domain.Relation, len(newRels))
	for _, r := range newRels {
		byAPI[r.API] = r
	}
	var issues []string
	for _, old := range oldRels {
		r, ok := byAPI[old.API]
		if !ok {
			issues = append(issues, fmt.Sprintf("%s relation removed: %s", scope, old.API))
			continue
		}
		if r.Target != old.Target || r.Many != old.Many || r.Storage != old.Storage {
			issues = append(issues, fmt.Sprintf("%s relation changed: %s", scope, old.API))
		}
		if r.Required && !old.Required {
			issues = append(issues, fmt.Sprintf("%s relation %s became required", scope, old.API))
		}
	}
	return issues
}

// missing returns the values of old absent from updated, in old's order.
func missing(old, updated []string) []string {
	set := make(map[string]struct{}, len(updated))
	for _, v := range updated {
		set[v] = struct{}{}
	}
	var out []string
	for _, v := range old {
		if _, ok := set[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
