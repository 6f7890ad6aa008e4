package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Pantai Pink & Bukit Merese": "pantai-pink-bukit-merese",
		"  Café   Sasak  ":           "cafe-sasak",
		"Desa Wisata #1":             "desa-wisata-1",
		"---":                        "",
		"Sunset":                     "sunset",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), "input %q", in)
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("gili-trawangan-2"))
	assert.False(t, IsSlug("Gili"))
	assert.False(t, IsSlug("gili trawangan"))
	assert.False(t, IsSlug("gili_trawangan"))
	assert.False(t, IsSlug(""))
}
