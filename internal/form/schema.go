package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Schema is the declarative form of one entity: its fields and their rules.
type Schema struct {
	Entity string
	Fields []Field
}

// NewSchema builds a schema. It panics on duplicate keys since schemas are
// declared once at package init.
func NewSchema(entity string, fields ...Field) *Schema {
	seen := make(map[string]bool)
	for _, f := range fields {
		for _, k := range f.Keys() {
			if seen[k] {
				panic(fmt.Sprintf("form: duplicate field %q in %s schema", k, entity))
			}
			seen[k] = true
		}
	}
	return &Schema{Entity: entity, Fields: fields}
}

// Keys lists every draft key in declaration order.
func (s *Schema) Keys() []string {
	var keys []string
	for _, f := range s.Fields {
		keys = append(keys, f.Keys()...)
	}
	return keys
}

// Field finds the field owning a draft key.
func (s *Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		for _, k := range f.Keys() {
			if k == key {
				return f, true
			}
		}
	}
	return Field{}, false
}

// ThumbnailFor returns the key of the thumbnail derived from imageKey, if any.
func (s *Schema) ThumbnailFor(imageKey string) (string, bool) {
	for _, f := range s.Fields {
		if f.ThumbnailOf == imageKey {
			return f.Name, true
		}
	}
	return "", false
}

// Lookups returns the reference sets the schema's foreign keys point into.
func (s *Schema) Lookups() []string {
	var sets []string
	for _, f := range s.Fields {
		if f.Kind == KindForeignKey {
			sets = append(sets, f.Lookup)
		}
	}
	return sets
}

// Defaults returns the draft a create form starts with.
func (s *Schema) Defaults() Draft {
	d := make(Draft, len(s.Fields))
	for _, f := range s.Fields {
		for _, k := range f.Keys() {
			d[k] = defaultValue(f)
		}
	}
	return d
}

func defaultValue(f Field) any {
	if f.Kind == KindBool {
		b, _ := f.Default.(bool)
		return b
	}
	if f.Default == nil {
		return ""
	}
	return fmt.Sprint(f.Default)
}

// Validate checks a draft against the schema. On success it returns the typed
// values to submit; otherwise *Errors with a message list per failing key.
// It never performs I/O.
func (s *Schema) Validate(d Draft, refs References) (Values, error) {
	d = s.derive(d)
	errs := newErrors(s.Entity)
	values := make(Values, len(d))

	for _, f := range s.Fields {
		for _, key := range f.Keys() {
			v, msgs := s.check(f, d[key], refs)
			if len(msgs) > 0 {
				errs.add(key, msgs...)
				continue
			}
			values[key] = v
		}
	}

	if len(errs.Fields) > 0 {
		return nil, errs
	}
	return values, nil
}

// derive fills generated values (slugs) on a copy of the draft.
func (s *Schema) derive(d Draft) Draft {
	out := d.Clone()
	for _, f := range s.Fields {
		if f.Kind != KindSlug || f.DeriveFrom == "" {
			continue
		}
		if strings.TrimSpace(toString(out[f.Name])) == "" {
			out[f.Name] = utils.GenerateSlug(toString(out[f.DeriveFrom]))
		}
	}
	return out
}

func (s *Schema) check(f Field, raw any, refs References) (any, []string) {
	switch f.Kind {
	case KindBool:
		def, _ := f.Default.(bool)
		b, err := parseBool(raw, def)
		if err != nil {
			return nil, []string{err.Error()}
		}
		return b, nil

	case KindOrder, KindInt:
		str := strings.TrimSpace(toString(raw))
		rules := textRules(Field{Required: f.Required})
		if msgs := collect(str, append(rules, validation.By(nonNegativeInt))); len(msgs) > 0 {
			return nil, msgs
		}
		if str == "" {
			return nil, nil
		}
		n, _ := strconv.Atoi(str)
		return n, nil

	case KindForeignKey:
		str := strings.TrimSpace(toString(raw))
		rules := textRules(Field{Required: f.Required})
		if msgs := collect(str, append(rules, validation.By(positiveID))); len(msgs) > 0 {
			return nil, msgs
		}
		if str == "" {
			return nil, nil
		}
		id, _ := strconv.ParseInt(str, 10, 64)
		if !refs.Has(f.Lookup, id) {
			return nil, []string{fmt.Sprintf("references an unknown %s entry", f.Lookup)}
		}
		return id, nil

	default:
		str := strings.TrimSpace(toString(raw))
		if msgs := collect(str, textRules(f)); len(msgs) > 0 {
			return nil, msgs
		}
		return str, nil
	}
}

// toString renders the shapes input controls and decoded JSON produce.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
