package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/config"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/devapi"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/domains/cms"
	infracache "github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/cache"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/storage"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/container"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/jwt"
)

// scripted answers prompts by label, in order. Unscripted prompts take their
// default.
type scripted struct {
	answers map[string][]any
	asked   []string
}

func (s *scripted) next(msg string) (any, bool) {
	s.asked = append(s.asked, msg)
	q := s.answers[msg]
	if len(q) == 0 {
		return nil, false
	}
	s.answers[msg] = q[1:]
	return q[0], true
}

func (s *scripted) Input(msg, def, help string) (string, error) {
	if v, ok := s.next(msg); ok {
		return v.(string), nil
	}
	return def, nil
}

func (s *scripted) Password(msg string) (string, error) {
	if v, ok := s.next(msg); ok {
		return v.(string), nil
	}
	return "", nil
}

func (s *scripted) Confirm(msg string, def bool) (bool, error) {
	if v, ok := s.next(msg); ok {
		return v.(bool), nil
	}
	return def, nil
}

func (s *scripted) Select(msg string, options []string, def string) (string, error) {
	if v, ok := s.next(msg); ok {
		return v.(string), nil
	}
	if def == "" && len(options) > 0 {
		return options[0], nil
	}
	return def, nil
}

func newTestApp(t *testing.T, answers map[string][]any) (*app, *scripted, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := devapi.NewHandler(devapi.Config{
		Registry:      cms.NewRegistry(),
		Store:         devapi.NewMemoryStore(),
		Cache:         infracache.NewMemoryCache(),
		CacheTTL:      time.Minute,
		Storage:       storage.NewMemoryStorage("http://files.test"),
		Tokens:        jwt.NewManager("test-secret", time.Hour),
		AdminUsername: "admin",
		AdminPassword: "s3cret",
		BcryptCost:    bcrypt.MinCost,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(devapi.NewRouter(h))
	t.Cleanup(srv.Close)

	c, err := container.NewContainer(&config.Config{
		API:    config.APIConfig{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second},
		Upload: config.UploadConfig{MaxBytes: 1 << 20},
	})
	require.NoError(t, err)

	if answers == nil {
		answers = map[string][]any{}
	}
	answers["Username"] = append(answers["Username"], "admin")
	answers["Password"] = append(answers["Password"], "s3cret")
	p := &scripted{answers: answers}
	out := &bytes.Buffer{}
	return &app{c: c, prompt: p, out: out}, p, out
}

func sunset() map[string][]any {
	return map[string][]any{
		"title (EN) *":     {"Sunset"},
		"title (ID) *":     {"Matahari Terbenam"},
		"image url *":      {"https://example.com/a.jpg"},
		"carousel order *": {"2"},
		"is active":        {true},
	}
}

func TestCreateCarousel(t *testing.T) {
	a, p, out := newTestApp(t, sunset())
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"create", "carousels"}))
	assert.Contains(t, out.String(), "carousel id 1")
	assert.Contains(t, p.asked, "Password", "writes log in when no token is set")

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"show", "carousels", "1"}))
	assert.Contains(t, out.String(), "Matahari Terbenam")
	assert.Contains(t, out.String(), "carousel_order  2")
}

func TestCreateRepromptsOnlyFailingFields(t *testing.T) {
	answers := sunset()
	answers["carousel order *"] = []any{"abc", "3"}
	answers["title (ID) *"] = []any{"", "Matahari"}
	a, p, out := newTestApp(t, answers)

	require.NoError(t, a.run(context.Background(), []string{"create", "carousels"}))
	assert.Contains(t, out.String(), "carousel_order:")
	assert.Contains(t, out.String(), "title_id:")

	count := func(label string) int {
		n := 0
		for _, m := range p.asked {
			if m == label {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 2, count("carousel order *"))
	assert.Equal(t, 2, count("title (ID) *"))
	assert.Equal(t, 1, count("title (EN) *"))
}

func TestCreateUploadsLocalImage(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sunset.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480))))
	require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o600))

	answers := sunset()
	answers["image url *"] = []any{name}
	a, _, out := newTestApp(t, answers)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"create", "carousels"}))
	assert.Contains(t, out.String(), "uploaded http://files.test/files/carousels/")

	got, err := a.service(cms.Carousels).Get(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, got.text("image_url"), "/files/carousels/")
	assert.Contains(t, got.text("thumbnail_url"), "/files/carousels/thumbnails/")
}

func TestEditPageContent(t *testing.T) {
	a, _, out := newTestApp(t, map[string][]any{
		"hero title (EN) *": {"Welcome"},
		"hero title (ID) *": {"Selamat Datang"},
	})
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"edit", "content/home"}))
	assert.Contains(t, out.String(), "updated")

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"show", "content/home"}))
	assert.Contains(t, out.String(), "Selamat Datang")
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	answers := sunset()
	answers["Delete carousel 1?"] = []any{false, true}
	a, _, out := newTestApp(t, answers)
	ctx := context.Background()
	require.NoError(t, a.run(ctx, []string{"create", "carousels"}))

	require.NoError(t, a.run(ctx, []string{"delete", "carousels", "1"}))
	assert.NotContains(t, out.String(), "deleted")

	require.NoError(t, a.run(ctx, []string{"delete", "carousels", "1"}))
	assert.Contains(t, out.String(), "carousel 1 deleted")

	err := a.run(ctx, []string{"show", "carousels", "1"})
	assert.Error(t, err)
}

func TestListPrintsPage(t *testing.T) {
	a, _, out := newTestApp(t, sunset())
	ctx := context.Background()
	require.NoError(t, a.run(ctx, []string{"create", "carousels"}))

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"list", "carousels", "-per-page", "5"}))
	assert.Contains(t, out.String(), "Sunset")
	assert.Contains(t, out.String(), "page 1/1 (1 items)")
}

func TestUsageErrors(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	ctx := context.Background()

	for _, args := range [][]string{
		nil,
		{"frobnicate"},
		{"create"},
		{"edit", "carousels"},
		{"delete", "carousels"},
	} {
		assert.ErrorIs(t, a.run(ctx, args), errUsage, "%v", args)
	}

	assert.ErrorContains(t, a.run(ctx, []string{"list", "nope"}), "unknown resource")
	assert.ErrorContains(t, a.run(ctx, []string{"show", "carousels", "x"}), "invalid id")
}

func TestRecordIdentity(t *testing.T) {
	assert.Equal(t, int64(7), record{"id": float64(7)}.Identity())
	assert.Equal(t, int64(0), record{}.Identity())
	assert.Equal(t, "12", record{"n": float64(12)}.text("n"))
}

func TestFieldLabel(t *testing.T) {
	readTime, ok := cms.NewsArticleSchema.Field("read_time")
	require.True(t, ok)
	assert.Equal(t, "Read time (minutes) *", fieldLabel(readTime, "read_time"))

	capacity, ok := cms.FacilitySchema.Field("capacity")
	require.True(t, ok)
	assert.Equal(t, "Capacity", fieldLabel(capacity, "capacity"))

	title, ok := cms.CarouselSchema.Field("title_id")
	require.True(t, ok)
	assert.Equal(t, "title (ID) *", fieldLabel(title, "title_id"))
}
