package resource

import (
	"context"
	"slices"
	"sync"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/query"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
)

// Ordered records sort by their ordering field.
type Ordered interface {
	SortOrder() int
}

// Identified records have a numeric id.
type Identified interface {
	Identity() int64
}

// ListPage keeps a sorted view of one cached collection in sync with the
// cache. Close stops updates; results arriving afterwards are dropped.
type ListPage[T any] struct {
	svc *Service[T]
	key query.Key

	mu       sync.RWMutex
	items    []T
	err      error
	status   query.Status
	closed   bool
	onChange func()

	unsubscribe func()
}

// OpenList subscribes to the service's collection and starts loading it.
// onChange, if non-nil, runs after every state change.
func OpenList[T any](ctx context.Context, svc *Service[T], onChange func()) *ListPage[T] {
	p := &ListPage[T]{svc: svc, key: svc.Descriptor().Key(), onChange: onChange}
	p.unsubscribe = svc.Cache().Subscribe(p.key, p.apply)
	go func() {
		_, _ = svc.List(ctx)
	}()
	return p
}

func (p *ListPage[T]) apply(snap query.Snapshot) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.status = snap.Status
	p.err = nil
	if snap.Status == query.StatusError {
		p.err = snap.Err
	}
	if data, ok := snap.Data.([]T); ok {
		p.items = sortRecords(data)
	}
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Refresh refetches the collection.
func (p *ListPage[T]) Refresh(ctx context.Context) error {
	_, err := p.svc.List(ctx)
	return err
}

// Items returns the records sorted by their ordering field, then id.
func (p *ListPage[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.items)
}

// Err returns the message of the last failed fetch, as the backend worded it.
func (p *ListPage[T]) Err() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.err == nil {
		return ""
	}
	return apperr.Message(p.err)
}

// Loading reports whether the first load is still pending.
func (p *ListPage[T]) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status == query.StatusEmpty || p.status == query.StatusLoading
}

func (p *ListPage[T]) Status() query.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *ListPage[T]) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.unsubscribe()
}

// sortRecords returns a sorted copy; cached data is shared and stays untouched.
func sortRecords[T any](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		oa, aok := any(a).(Ordered)
		ob, bok := any(b).(Ordered)
		if aok && bok && oa.SortOrder() != ob.SortOrder() {
			return oa.SortOrder() - ob.SortOrder()
		}
		ia, aok := any(a).(Identified)
		ib, bok := any(b).(Identified)
		if aok && bok {
			switch {
			case ia.Identity() < ib.Identity():
				return -1
			case ia.Identity() > ib.Identity():
				return 1
			}
		}
		return 0
	})
	return out
}
