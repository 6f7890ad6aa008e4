package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/query"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

type item struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Order      int    `json:"item_order"`
	CategoryID int64  `json:"category_id,omitempty"`
}

func (i item) SortOrder() int  { return i.Order }
func (i item) Identity() int64 { return i.ID }

var itemSchema = form.NewSchema("item",
	form.Text("title", true),
	form.Order("item_order"),
	form.ForeignKey("category_id", "categories"),
)

// fakeBackend serves an in-memory collection per path.
type fakeBackend struct {
	mu     sync.Mutex
	data   map[string][]item
	nextID int64
	calls  map[string]*atomic.Int32
	fail   atomic.Bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		data:   map[string][]item{},
		nextID: 100,
		calls:  map[string]*atomic.Int32{},
	}
}

func (b *fakeBackend) count(key string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.calls[key]; ok {
		return c.Load()
	}
	return 0
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	path := parts[0]

	b.mu.Lock()
	defer b.mu.Unlock()
	key := r.Method + " " + path
	if _, ok := b.calls[key]; !ok {
		b.calls[key] = &atomic.Int32{}
	}
	b.calls[key].Add(1)

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	if b.fail.Load() && r.Method != http.MethodGet {
		reply(http.StatusInternalServerError, response.Response{Error: true, Code: "INTERNAL_ERROR", Message: "database unavailable"})
		return
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		items := b.data[path]
		if r.URL.Query().Get("page") != "" {
			reply(http.StatusOK, response.Response{Success: true, Data: items, Meta: response.NewMeta(1, 10, len(items))})
			return
		}
		reply(http.StatusOK, response.Response{Success: true, Data: items})
	case r.Method == http.MethodGet:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		for _, it := range b.data[path] {
			if it.ID == id {
				reply(http.StatusOK, response.Response{Success: true, Data: it})
				return
			}
		}
		reply(http.StatusNotFound, response.Response{Error: true, Code: "NOT_FOUND", Message: "not found"})
	case r.Method == http.MethodPost:
		var it item
		_ = json.NewDecoder(r.Body).Decode(&it)
		b.nextID++
		it.ID = b.nextID
		b.data[path] = append(b.data[path], it)
		reply(http.StatusCreated, response.Response{Success: true, Data: it})
	case r.Method == http.MethodPut:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		var it item
		_ = json.NewDecoder(r.Body).Decode(&it)
		it.ID = id
		for i := range b.data[path] {
			if b.data[path][i].ID == id {
				b.data[path][i] = it
			}
		}
		reply(http.StatusOK, response.Response{Success: true, Data: it})
	case r.Method == http.MethodDelete:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		kept := b.data[path][:0]
		for _, it := range b.data[path] {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		b.data[path] = kept
		reply(http.StatusOK, response.Response{Success: true, Message: "deleted"})
	}
}

func newTestService(t *testing.T) (*Service[item], *fakeBackend, *query.Cache) {
	t.Helper()
	backend := newFakeBackend()
	backend.data["items"] = []item{{ID: 1, Title: "b", Order: 2}, {ID: 2, Title: "a", Order: 1}}
	backend.data["categories"] = []item{{ID: 7, Title: "cat"}}

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	api, err := client.New(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	cache := query.New(query.Options{StaleTime: time.Hour})
	desc := Descriptor{Name: "item", Path: "items", Schema: itemSchema, Related: []string{"dashboard"}}
	return NewService[item](desc, api, cache), backend, cache
}

func TestListIsCached(t *testing.T) {
	svc, backend, _ := newTestService(t)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.count("GET items"))
}

func TestCreateInvalidatesListAndPages(t *testing.T) {
	svc, backend, cache := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	page, err := svc.ListPage(ctx, client.PageQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.TotalPages)

	created, err := svc.Create(ctx, form.Values{"title": "c", "item_order": 0, "category_id": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)

	assert.Equal(t, int32(4), backend.count("GET items"), "list and page refetched")
	snap, _ := cache.Peek(svc.Descriptor().Key())
	assert.Len(t, snap.Data.([]item), 3)
}

func TestFailedCreateKeepsCache(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.List(ctx)
	require.NoError(t, err)

	backend.fail.Store(true)
	_, err = svc.Create(ctx, form.Values{"title": "c", "item_order": 0, "category_id": int64(7)})
	assert.ErrorIs(t, err, apperr.ErrServer)
	assert.Equal(t, "database unavailable", apperr.Message(err))
	assert.Equal(t, int32(1), backend.count("GET items"))
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	updated, err := svc.Update(ctx, 1, form.Values{"title": "renamed", "item_order": 5, "category_id": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	got, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title, "detail entry refreshed after update")

	require.NoError(t, svc.Delete(ctx, 1))
	_, ok := cache.Peek(query.Detail("items", 1))
	assert.False(t, ok)

	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReferencesLoadsLookupIDs(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	refs, err := svc.References(ctx)
	require.NoError(t, err)
	assert.True(t, refs.Has("categories", 7))
	assert.False(t, refs.Has("categories", 8))

	_, err = svc.References(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.count("GET categories"))
}

func TestPageKeyIsStable(t *testing.T) {
	svc, _, _ := newTestService(t)
	a := svc.PageKey(client.PageQuery{Page: 2, PerPage: 10, Filters: map[string]string{"b": "2", "a": "1", "c": ""}})
	b := svc.PageKey(client.PageQuery{Page: 2, PerPage: 10, Filters: map[string]string{"a": "1", "b": "2"}})
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "items:page=2:per_page=10:a=1:b=2", a.String())
	assert.True(t, a.HasPrefix(svc.Descriptor().Key()))
}

func TestSingletonCannotBeCreated(t *testing.T) {
	svc := NewService[item](Descriptor{Name: "home content", Path: "content/home", Singleton: true}, nil, query.New(query.Options{}))
	_, err := svc.Create(context.Background(), form.Values{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListPageSortsAndFollowsCache(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	changed := make(chan struct{}, 16)
	page := OpenList(ctx, svc, func() { changed <- struct{}{} })
	defer page.Close()

	require.Eventually(t, func() bool { return !page.Loading() && len(page.Items()) == 2 }, time.Second, 5*time.Millisecond)
	items := page.Items()
	assert.Equal(t, "a", items[0].Title)
	assert.Equal(t, "b", items[1].Title)

	_, err := svc.Create(ctx, form.Values{"title": "first", "item_order": 0, "category_id": int64(7)})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(page.Items()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "first", page.Items()[0].Title)
	assert.Empty(t, page.Err())
}

func TestListPageReportsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(response.Response{Error: true, Message: "database unavailable"})
	}))
	defer srv.Close()
	api, err := client.New(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	svc := NewService[item](Descriptor{Name: "item", Path: "items"}, api, query.New(query.Options{}))

	page := OpenList(context.Background(), svc, nil)
	defer page.Close()
	require.Eventually(t, func() bool { return page.Status() == query.StatusError }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "database unavailable", page.Err())
	assert.False(t, page.Loading())
}

func TestRegistryChildren(t *testing.T) {
	reg := NewRegistry(
		Descriptor{Path: "categories"},
		Descriptor{Path: "items", Schema: itemSchema},
	)
	assert.Equal(t, []ChildRef{{Resource: "items", Field: "category_id"}}, reg.Children("categories"))
	assert.Empty(t, reg.Children("items"))

	d, ok := reg.Get("items")
	require.True(t, ok)
	assert.Equal(t, []query.Key{{"items"}}, d.Invalidates())
	assert.Len(t, reg.All(), 2)
}
