package form

import (
	"sort"
	"strings"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
)

// Errors maps draft keys to their validation messages.
// It matches apperr.ErrValidation with errors.Is.
type Errors struct {
	Entity string
	Fields map[string][]string
}

func newErrors(entity string) *Errors {
	return &Errors{Entity: entity, Fields: make(map[string][]string)}
}

func (e *Errors) add(key string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	e.Fields[key] = append(e.Fields[key], msgs...)
}

// Field returns the messages for one draft key.
func (e *Errors) Field(key string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[key]
}

// Has reports whether key failed validation.
func (e *Errors) Has(key string) bool {
	return len(e.Field(key)) > 0
}

// Keys returns the failing keys in sorted order.
func (e *Errors) Keys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range e.Keys() {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return e.Entity + ": " + strings.Join(parts, "; ")
}

func (e *Errors) Is(target error) bool {
	return target == apperr.ErrValidation
}
