package devapi

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
)

type memoryTable struct {
	nextID int64
	rows   map[int64]Record
}

// MemoryStore keeps every record in process. Returned records are copies.
type MemoryStore struct {
	mu      sync.RWMutex
	tables  map[string]*memoryTable
	content map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:  make(map[string]*memoryTable),
		content: make(map[string]Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) table(res string) *memoryTable {
	t, ok := s.tables[res]
	if !ok {
		t = &memoryTable{rows: make(map[int64]Record)}
		s.tables[res] = t
	}
	return t
}

func (s *MemoryStore) List(ctx context.Context, res string, q ListQuery) ([]Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[res]
	if !ok {
		return []Record{}, 0, nil
	}

	matched := make([]Record, 0, len(t.rows))
	for _, r := range t.rows {
		if matches(r, q.Filters) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i]["id"].(int64) < matched[j]["id"].(int64)
	})

	total := len(matched)
	if q.Offset > 0 {
		if q.Offset >= total {
			matched = matched[:0]
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]Record, len(matched))
	for i, r := range matched {
		out[i] = clone(r)
	}
	return out, total, nil
}

func matches(r Record, filters map[string]string) bool {
	for k, want := range filters {
		v, ok := r[k]
		if !ok || v == nil || fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

func (s *MemoryStore) Get(ctx context.Context, res string, id int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[res]
	if !ok {
		return nil, ErrRecordNotFound
	}
	r, ok := t.rows[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return clone(r), nil
}

// checkParents runs under s.mu.
func (s *MemoryStore) checkParents(parents []ParentRef) error {
	for _, p := range parents {
		t, ok := s.tables[p.Resource]
		if !ok {
			return &MissingParentError{Ref: p}
		}
		if _, ok := t.rows[p.ID]; !ok {
			return &MissingParentError{Ref: p}
		}
	}
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, res string, values form.Values, parents []ParentRef) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkParents(parents); err != nil {
		return nil, err
	}
	t := s.table(res)
	t.nextID++
	now := s.now()
	r := newRecord(t.nextID, values, now, now)
	t.rows[t.nextID] = r
	return clone(r), nil
}

func (s *MemoryStore) Update(ctx context.Context, res string, id int64, values form.Values, parents []ParentRef) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[res]
	if !ok {
		return nil, ErrRecordNotFound
	}
	old, ok := t.rows[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	if err := s.checkParents(parents); err != nil {
		return nil, err
	}
	created, _ := old["created_at"].(time.Time)
	r := newRecord(id, values, created, s.now())
	t.rows[id] = r
	return clone(r), nil
}

func (s *MemoryStore) Delete(ctx context.Context, res string, id int64, children []resource.ChildRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[res]
	if !ok {
		return ErrRecordNotFound
	}
	if _, ok := t.rows[id]; !ok {
		return ErrRecordNotFound
	}

	ref := fmt.Sprint(id)
	for _, child := range children {
		ct, ok := s.tables[child.Resource]
		if !ok {
			continue
		}
		for _, r := range ct.rows {
			if v, ok := r[child.Field]; ok && v != nil && fmt.Sprint(v) == ref {
				return fmt.Errorf("%w by %s", ErrReferenced, child.Resource)
			}
		}
	}

	delete(t.rows, id)
	return nil
}

func (s *MemoryStore) IDs(ctx context.Context, res string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[res]
	if !ok {
		return []int64{}, nil
	}
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) GetContent(ctx context.Context, page string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.content[page]
	if !ok {
		return nil, nil
	}
	return clone(r), nil
}

func (s *MemoryStore) PutContent(ctx context.Context, page string, values form.Values) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := make(Record, len(values)+2)
	for k, v := range values {
		r[k] = v
	}
	r["page"] = page
	r["updated_at"] = s.now().UTC()
	s.content[page] = r
	return clone(r), nil
}

func (s *MemoryStore) Close() {}

func clone(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
