package resource

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/query"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

// Page is one page of a paginated list.
type Page[T any] struct {
	Items []T
	Meta  *response.Meta
}

// ref is the part of any record a foreign key can point at.
type ref struct {
	ID int64 `json:"id"`
}

// Service reads and writes one resource of record type T.
type Service[T any] struct {
	desc  Descriptor
	api   *client.Client
	cache *query.Cache
}

func NewService[T any](desc Descriptor, api *client.Client, cache *query.Cache) *Service[T] {
	return &Service[T]{desc: desc, api: api, cache: cache}
}

func (s *Service[T]) Descriptor() Descriptor {
	return s.desc
}

// Cache returns the cache the service reads through.
func (s *Service[T]) Cache() *query.Cache {
	return s.cache
}

// ========================================
// READS
// ========================================

// List returns the whole collection.
func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	return query.Fetch(ctx, s.cache, s.desc.Key(), s.fetchList)
}

func (s *Service[T]) fetchList(ctx context.Context) ([]T, error) {
	var items []T
	if _, err := s.api.List(ctx, s.desc.Path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PageKey is the cache key of one page/filter tuple. Filters are rendered in
// key order so equal queries share a key.
func (s *Service[T]) PageKey(q client.PageQuery) query.Key {
	segs := []string{"page=" + strconv.Itoa(q.Page), "per_page=" + strconv.Itoa(q.PerPage)}
	names := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		if v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	for _, k := range names {
		segs = append(segs, k+"="+q.Filters[k])
	}
	return s.desc.Key().With(segs...)
}

// ListPage returns one page of the collection.
func (s *Service[T]) ListPage(ctx context.Context, q client.PageQuery) (Page[T], error) {
	return query.Fetch(ctx, s.cache, s.PageKey(q), func(ctx context.Context) (Page[T], error) {
		var items []T
		meta, err := s.api.ListPage(ctx, s.desc.Path, q, &items)
		if err != nil {
			return Page[T]{}, err
		}
		return Page[T]{Items: items, Meta: meta}, nil
	})
}

// Get returns one record.
func (s *Service[T]) Get(ctx context.Context, id int64) (T, error) {
	return query.Fetch(ctx, s.cache, query.Detail(s.desc.Path, id), func(ctx context.Context) (T, error) {
		var out T
		err := s.api.Get(ctx, s.desc.Path, id, &out)
		return out, err
	})
}

// Content returns the singleton record.
func (s *Service[T]) Content(ctx context.Context) (T, error) {
	return query.Fetch(ctx, s.cache, s.desc.Key(), func(ctx context.Context) (T, error) {
		var out T
		err := s.api.GetContent(ctx, s.desc.Path, &out)
		return out, err
	})
}

// References loads the id sets every foreign key of the schema points into.
// Each set is cached under its resource, so a write to a category refreshes it.
func (s *Service[T]) References(ctx context.Context) (form.References, error) {
	refs := form.NewReferences()
	if s.desc.Schema == nil {
		return refs, nil
	}
	for _, lookup := range s.desc.Schema.Lookups() {
		ids, err := query.Fetch(ctx, s.cache, query.Collection(lookup).With("ids"), func(ctx context.Context) ([]int64, error) {
			var items []ref
			if _, err := s.api.List(ctx, lookup, &items); err != nil {
				return nil, err
			}
			ids := make([]int64, len(items))
			for i, it := range items {
				ids[i] = it.ID
			}
			return ids, nil
		})
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", lookup, err)
		}
		refs.Add(lookup, ids...)
	}
	return refs, nil
}

// ========================================
// WRITES
// ========================================

// Create stores a new record from validated values.
func (s *Service[T]) Create(ctx context.Context, values form.Values) (T, error) {
	if s.desc.Singleton {
		var zero T
		return zero, &apperr.Error{Kind: apperr.ErrValidation, Op: "create " + s.desc.Path, Message: s.desc.Name + " cannot be created, only updated"}
	}
	return query.Mutate(ctx, s.cache, s.desc.Invalidates(), func(ctx context.Context) (T, error) {
		var out T
		err := s.api.Create(ctx, s.desc.Path, values, &out)
		return out, err
	})
}

// Update replaces record id with validated values. Singletons ignore id.
func (s *Service[T]) Update(ctx context.Context, id int64, values form.Values) (T, error) {
	if s.desc.Singleton {
		return s.SaveContent(ctx, values)
	}
	return query.Mutate(ctx, s.cache, s.desc.Invalidates(), func(ctx context.Context) (T, error) {
		var out T
		err := s.api.Update(ctx, s.desc.Path, id, values, &out)
		return out, err
	})
}

// SaveContent replaces the singleton record.
func (s *Service[T]) SaveContent(ctx context.Context, values form.Values) (T, error) {
	return query.Mutate(ctx, s.cache, s.desc.Invalidates(), func(ctx context.Context) (T, error) {
		var out T
		err := s.api.UpdateContent(ctx, s.desc.Path, values, &out)
		return out, err
	})
}

// Delete removes record id and drops its detail entry.
func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	_, err := query.Mutate(ctx, s.cache, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.Remove(ctx, s.desc.Path, id)
	})
	if err != nil {
		return err
	}
	s.cache.Remove(query.Detail(s.desc.Path, id))
	s.cache.Invalidate(ctx, s.desc.Invalidates()...)
	return nil
}
