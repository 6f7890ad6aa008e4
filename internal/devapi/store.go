// Package devapi is a reference implementation of the CMS HTTP surface the
// admin client consumes. It backs local development and end-to-end tests.
package devapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrReferenced     = errors.New("record is still referenced")
	ErrParentMissing  = errors.New("referenced record does not exist")
)

// ParentRef is one foreign key value of a record being written.
type ParentRef struct {
	Field    string
	Resource string
	ID       int64
}

// MissingParentError names the foreign key whose parent is gone.
type MissingParentError struct {
	Ref ParentRef
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("%s: %s %d does not exist", e.Ref.Field, e.Ref.Resource, e.Ref.ID)
}

func (e *MissingParentError) Unwrap() error { return ErrParentMissing }

// Record is a stored resource row as served on the wire: the validated
// values plus id and audit timestamps.
type Record map[string]any

func newRecord(id int64, values form.Values, created, updated time.Time) Record {
	r := make(Record, len(values)+3)
	for k, v := range values {
		r[k] = v
	}
	r["id"] = id
	r["created_at"] = created.UTC()
	r["updated_at"] = updated.UTC()
	return r
}

// ListQuery selects records by exact field match and an optional page.
type ListQuery struct {
	Filters map[string]string
	Offset  int
	Limit   int // 0 = all
}

// Store persists CMS records. Lists are ordered by id.
type Store interface {
	List(ctx context.Context, res string, q ListQuery) ([]Record, int, error)
	Get(ctx context.Context, res string, id int64) (Record, error)

	// Create and Update check that every parent exists atomically with the
	// write, failing with *MissingParentError otherwise.
	Create(ctx context.Context, res string, values form.Values, parents []ParentRef) (Record, error)
	Update(ctx context.Context, res string, id int64, values form.Values, parents []ParentRef) (Record, error)

	// Delete fails with ErrReferenced when a child row still points at id.
	Delete(ctx context.Context, res string, id int64, children []resource.ChildRef) error

	// IDs returns every id of res, for foreign key checks.
	IDs(ctx context.Context, res string) ([]int64, error)

	// GetContent returns nil, nil for a page never saved.
	GetContent(ctx context.Context, page string) (Record, error)
	PutContent(ctx context.Context, page string, values form.Values) (Record, error)

	Close()
}
