package devapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
)

func TestMemoryStoreListQuery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i, active := range []bool{true, false, true, true} {
		_, err := s.Create(ctx, "things", form.Values{"n": i, "is_active": active}, nil)
		require.NoError(t, err)
	}

	all, total, err := s.List(ctx, "things", ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, int64(1), all[0]["id"])

	active, total, err := s.List(ctx, "things", ListQuery{Filters: map[string]string{"is_active": "true"}, Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, active, 1)
	assert.Equal(t, int64(3), active[0]["id"])

	none, total, err := s.List(ctx, "missing", ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Zero(t, total)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec, err := s.Create(ctx, "things", form.Values{"name": "a"}, nil)
	require.NoError(t, err)

	rec["name"] = "mutated"
	got, err := s.Get(ctx, "things", 1)
	require.NoError(t, err)
	assert.Equal(t, "a", got["name"])
}

func TestMemoryStoreDeleteChecksChildren(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Create(ctx, "cats", form.Values{"name": "c"}, nil)
	require.NoError(t, err)
	child, err := s.Create(ctx, "items", form.Values{"category_id": int64(1)}, nil)
	require.NoError(t, err)

	children := []resource.ChildRef{{Resource: "items", Field: "category_id"}}
	err = s.Delete(ctx, "cats", 1, children)
	assert.ErrorIs(t, err, ErrReferenced)

	require.NoError(t, s.Delete(ctx, "items", child["id"].(int64), nil))
	require.NoError(t, s.Delete(ctx, "cats", 1, children))
	assert.ErrorIs(t, s.Delete(ctx, "cats", 1, children), ErrRecordNotFound)

	_, err = s.Update(ctx, "cats", 1, form.Values{}, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryStoreRejectsMissingParent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ref := ParentRef{Field: "category_id", Resource: "cats", ID: 1}

	_, err := s.Create(ctx, "items", form.Values{"category_id": int64(1)}, []ParentRef{ref})
	var missing *MissingParentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ref, missing.Ref)
	assert.ErrorIs(t, err, ErrParentMissing)

	_, err = s.Create(ctx, "cats", form.Values{"name": "c"}, nil)
	require.NoError(t, err)
	item, err := s.Create(ctx, "items", form.Values{"category_id": int64(1)}, []ParentRef{ref})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "items", item["id"].(int64), nil))
	require.NoError(t, s.Delete(ctx, "cats", 1, nil))
	_, err = s.Update(ctx, "items", item["id"].(int64), form.Values{}, []ParentRef{ref})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	again, err := s.Create(ctx, "items", form.Values{"category_id": int64(1)}, nil)
	require.NoError(t, err)
	_, err = s.Update(ctx, "items", again["id"].(int64), form.Values{"category_id": int64(1)}, []ParentRef{ref})
	assert.ErrorIs(t, err, ErrParentMissing)
}

func TestMemoryStoreContent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec, err := s.GetContent(ctx, "home")
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = s.PutContent(ctx, "home", form.Values{"hero_title": "Hi"})
	require.NoError(t, err)
	rec, err = s.GetContent(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Hi", rec["hero_title"])
	assert.Equal(t, "home", rec["page"])
}
