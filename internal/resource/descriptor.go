// Package resource binds one CMS entity type to the API client and the query
// cache: reads through cached keys, writes as mutations that invalidate the
// keys they affect.
package resource

import (
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/query"
)

// Descriptor is the declarative configuration of one resource.
type Descriptor struct {
	Name      string       // human name, e.g. "gallery image"
	Path      string       // API path and cache key root, e.g. "gallery" or "content/home"
	Schema    *form.Schema // form rules, shared with the backend
	Folder    string       // upload folder for the resource's media
	Singleton bool         // one record per path, no ids

	// Related lists other resources whose cached data embeds this one
	// (a category rename shows up in its children's lists).
	Related []string
}

// Key is the collection key of the resource.
func (d Descriptor) Key() query.Key {
	return query.Collection(d.Path)
}

// Invalidates returns the key prefixes a confirmed write must invalidate.
func (d Descriptor) Invalidates() []query.Key {
	keys := []query.Key{d.Key()}
	for _, r := range d.Related {
		keys = append(keys, query.Collection(r))
	}
	return keys
}

// Registry is an ordered set of descriptors addressable by path.
type Registry struct {
	order  []string
	byPath map[string]Descriptor
}

func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{byPath: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		r.Register(d)
	}
	return r
}

// Register adds or replaces d.
func (r *Registry) Register(d Descriptor) {
	if _, ok := r.byPath[d.Path]; !ok {
		r.order = append(r.order, d.Path)
	}
	r.byPath[d.Path] = d
}

func (r *Registry) Get(path string) (Descriptor, bool) {
	d, ok := r.byPath[path]
	return d, ok
}

// All returns the descriptors in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, r.byPath[p])
	}
	return out
}

// Children returns the resources whose schemas hold a foreign key into path.
func (r *Registry) Children(path string) []ChildRef {
	var out []ChildRef
	for _, d := range r.All() {
		if d.Schema == nil {
			continue
		}
		for _, f := range d.Schema.Fields {
			if f.Kind == form.KindForeignKey && f.Lookup == path {
				out = append(out, ChildRef{Resource: d.Path, Field: f.Name})
			}
		}
	}
	return out
}

// ChildRef names a resource and the field through which it references a parent.
type ChildRef struct {
	Resource string
	Field    string
}
