package form

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
)

var testCarousel = NewSchema("carousel",
	Bilingual("title", true).WithMax(100),
	Bilingual("subtitle", false),
	URL("image_url", true),
	Thumbnail("thumbnail_url", "image_url"),
	Order("carousel_order"),
	Bool("is_active", true),
)

var testGallery = NewSchema("gallery image",
	Bilingual("title", true),
	Slug("slug", "title", true),
	ForeignKey("category_id", "gallery-categories"),
	Date("date_taken", false),
	Email("credit_email", false),
	Choice("orientation", "landscape", "portrait"),
)

func validCarouselDraft() Draft {
	return Draft{
		"title":          "Sunset",
		"title_id":       "Matahari Terbenam",
		"image_url":      "https://example.com/a.jpg",
		"carousel_order": "2",
		"is_active":      true,
	}
}

func TestValidateCarouselScenario(t *testing.T) {
	values, err := testCarousel.Validate(validCarouselDraft(), nil)
	require.NoError(t, err)

	want := Values{
		"title":          "Sunset",
		"title_id":       "Matahari Terbenam",
		"subtitle":       "",
		"subtitle_id":    "",
		"image_url":      "https://example.com/a.jpg",
		"thumbnail_url":  "",
		"carousel_order": 2,
		"is_active":      true,
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBilingualPairRequiresBothLanguages(t *testing.T) {
	for _, missing := range []string{"title", "title_id"} {
		d := validCarouselDraft()
		d[missing] = "   "

		_, err := testCarousel.Validate(d, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		var ferr *Errors
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, []string{missing}, ferr.Keys())
		assert.Equal(t, []string{"is required"}, ferr.Field(missing))
	}
}

func TestOptionalBilingualAcceptsEmpty(t *testing.T) {
	d := validCarouselDraft()
	d["subtitle"] = "Golden hour"
	d["subtitle_id"] = ""

	values, err := testCarousel.Validate(d, nil)
	require.NoError(t, err)
	assert.Equal(t, "Golden hour", values["subtitle"])
	assert.Equal(t, "", values["subtitle_id"])
}

func TestOrderFieldParsing(t *testing.T) {
	invalid := map[string]string{
		"-1":  "must be 0 or greater",
		"abc": "must be a whole number",
		"":    "is required",
		"1.5": "must be a whole number",
	}
	for input, msg := range invalid {
		d := validCarouselDraft()
		d["carousel_order"] = input

		_, err := testCarousel.Validate(d, nil)
		var ferr *Errors
		require.ErrorAs(t, err, &ferr, "input %q", input)
		assert.Equal(t, []string{msg}, ferr.Field("carousel_order"), "input %q", input)
	}

	for input, want := range map[string]int{"0": 0, "7": 7, " 12 ": 12} {
		d := validCarouselDraft()
		d["carousel_order"] = input

		values, err := testCarousel.Validate(d, nil)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, values["carousel_order"])
	}
}

func TestURLRules(t *testing.T) {
	d := validCarouselDraft()
	d["image_url"] = "example.com/a.jpg"
	d["thumbnail_url"] = "ftp://example.com/t.jpg"

	_, err := testCarousel.Validate(d, nil)
	var ferr *Errors
	require.ErrorAs(t, err, &ferr)
	assert.True(t, ferr.Has("image_url"))
	assert.True(t, ferr.Has("thumbnail_url"))
}

func TestThumbnailOverrideIsSubmitted(t *testing.T) {
	d := validCarouselDraft()
	d["thumbnail_url"] = "https://cdn.example.com/custom-thumb.jpg"

	values, err := testCarousel.Validate(d, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/custom-thumb.jpg", values["thumbnail_url"])
}

func TestMaxLength(t *testing.T) {
	d := validCarouselDraft()
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}
	d["title"] = string(long)

	_, err := testCarousel.Validate(d, nil)
	var ferr *Errors
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, []string{"must be at most 100 characters"}, ferr.Field("title"))
}

func TestBoolParsing(t *testing.T) {
	d := validCarouselDraft()
	delete(d, "is_active")
	values, err := testCarousel.Validate(d, nil)
	require.NoError(t, err)
	assert.Equal(t, true, values["is_active"], "missing toggle falls back to default")

	d["is_active"] = "off"
	values, err = testCarousel.Validate(d, nil)
	require.NoError(t, err)
	assert.Equal(t, false, values["is_active"])

	d["is_active"] = "maybe"
	_, err = testCarousel.Validate(d, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestForeignKeyMustReferenceLoadedCategory(t *testing.T) {
	refs := NewReferences().Add("gallery-categories", 3, 4)
	d := Draft{
		"title":       "Waterfall",
		"title_id":    "Air Terjun",
		"category_id": "3",
		"orientation": "portrait",
	}

	values, err := testGallery.Validate(d, refs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), values["category_id"])
	assert.Equal(t, "waterfall", values["slug"], "slug derived from title")

	cases := map[string]string{
		"9":  "references an unknown gallery-categories entry",
		"0":  "must be a positive id",
		"x":  "must be a positive id",
		"":   "is required",
		"-3": "must be a positive id",
	}
	for input, msg := range cases {
		d["category_id"] = input
		_, err := testGallery.Validate(d, refs)
		var ferr *Errors
		require.ErrorAs(t, err, &ferr, "input %q", input)
		assert.Equal(t, []string{msg}, ferr.Field("category_id"), "input %q", input)
	}

	d["category_id"] = "3"
	_, err = testGallery.Validate(d, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation, "nothing loaded means nothing can be referenced")
}

func TestSlugDateEmailChoice(t *testing.T) {
	refs := NewReferences().Add("gallery-categories", 1)
	d := Draft{
		"title":        "Waterfall",
		"title_id":     "Air Terjun",
		"slug":         "Air Terjun!",
		"category_id":  1,
		"date_taken":   "2024-13-01",
		"credit_email": "not-an-email",
		"orientation":  "square",
	}

	_, err := testGallery.Validate(d, refs)
	var ferr *Errors
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, []string{"credit_email", "date_taken", "orientation", "slug"}, ferr.Keys())
	assert.Equal(t, []string{"must be one of: landscape, portrait"}, ferr.Field("orientation"))

	d["slug"] = "air-terjun"
	d["date_taken"] = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Format(DateLayout)
	d["credit_email"] = "photo@yarowora.id"
	d["orientation"] = "landscape"
	values, err := testGallery.Validate(d, refs)
	require.NoError(t, err)
	assert.Equal(t, "air-terjun", values["slug"])
	assert.Equal(t, "2024-05-01", values["date_taken"])
}

func TestValidateDoesNotMutateDraft(t *testing.T) {
	refs := NewReferences().Add("gallery-categories", 1)
	d := Draft{"title": "Waterfall", "title_id": "Air Terjun", "category_id": "1", "orientation": "portrait"}

	_, err := testGallery.Validate(d, refs)
	require.NoError(t, err)
	_, hasSlug := d["slug"]
	assert.False(t, hasSlug)
}

func TestDefaultsAndDraftFrom(t *testing.T) {
	defaults := testCarousel.Defaults()
	assert.Equal(t, "0", defaults["carousel_order"])
	assert.Equal(t, true, defaults["is_active"])
	assert.Equal(t, "", defaults["title_id"])

	type carousel struct {
		ID            int64  `json:"id"`
		Title         string `json:"title"`
		TitleID       string `json:"title_id"`
		ImageURL      string `json:"image_url"`
		CarouselOrder int    `json:"carousel_order"`
		IsActive      bool   `json:"is_active"`
	}
	d, err := testCarousel.DraftFrom(carousel{
		ID: 4, Title: "Sunset", TitleID: "Matahari Terbenam",
		ImageURL: "https://example.com/a.jpg", CarouselOrder: 3, IsActive: false,
	})
	require.NoError(t, err)

	want := Draft{
		"title": "Sunset", "title_id": "Matahari Terbenam",
		"subtitle": "", "subtitle_id": "",
		"image_url": "https://example.com/a.jpg", "thumbnail_url": "",
		"carousel_order": "3", "is_active": false,
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	values, err := testCarousel.Validate(d, nil)
	require.NoError(t, err)
	var back carousel
	require.NoError(t, Decode(values, &back))
	assert.Equal(t, 3, back.CarouselOrder)
	assert.Equal(t, "Matahari Terbenam", back.TitleID)
}

func TestNewSchemaRejectsDuplicateKeys(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("broken", Bilingual("name", true), Text("name_id", false))
	})
}

func TestSchemaLookupsAndThumbnails(t *testing.T) {
	assert.Equal(t, []string{"gallery-categories"}, testGallery.Lookups())

	thumb, ok := testCarousel.ThumbnailFor("image_url")
	assert.True(t, ok)
	assert.Equal(t, "thumbnail_url", thumb)

	f, ok := testCarousel.Field("title_id")
	require.True(t, ok)
	assert.Equal(t, KindBilingual, f.Kind)
}
