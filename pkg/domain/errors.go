package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation reports a payload that is missing required fields or carries
// values of the wrong shape.
type ErrValidation struct {
	Entity  EntityType
	Missing []string
	Invalid map[string]string
}

func (e ErrValidation) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("invalid %s: %s", k, e.Invalid[k]))
		}
	}
	if len(parts) == 0 {
		return "invalid payload"
	}
	return strings.Join(parts, "; ")
}

// Empty reports whether no problem was recorded.
func (e ErrValidation) Empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// AddInvalid records a problem with a named field.
func (e *ErrValidation) AddInvalid(field, reason string) {
	if e.Invalid == nil {
		e.Invalid = make(map[string]string)
	}
	e.Invalid[field] = reason
}

// ErrNotFound is returned when an id does not resolve, either for the target
// record or for a strictly referenced one.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrConflict is returned on secondary-uniqueness collisions and on deletes
// blocked by required references.
type ErrConflict struct {
	Entity EntityType
	Field  string
	Reason string
}

func (e ErrConflict) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

// IsValidation reports whether err wraps an ErrValidation.
func IsValidation(err error) bool {
	var target ErrValidation
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var target ErrNotFound
	return errors.As(err, &target)
}

// IsConflict reports whether err wraps an ErrConflict.
func IsConflict(err error) bool {
	var target ErrConflict
	return errors.As(err, &target)
}
