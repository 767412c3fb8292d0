package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessInitials(t *testing.T) {
	cases := map[string]string{
		"Corner Bakery":            "CB",
		"the little cafe on fifth": "TLCO",
		"7-Eleven":                 "7",
		"  ":                       "B",
		"'quoted' name":            "QN",
	}
	for name, want := range cases {
		assert.Equal(t, want, businessInitials(name), "name %q", name)
	}
}

func TestBackgroundHueIsStableAndBounded(t *testing.T) {
	first := backgroundHue("Corner Bakery")
	assert.Equal(t, first, backgroundHue("Corner Bakery"))
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 360)
}

func TestWithDefaultLogo(t *testing.T) {
	generated := withDefaultLogo("", "Corner Bakery")
	assert.True(t, strings.HasPrefix(generated, "data:image/svg+xml,"))
	assert.Contains(t, generated, "CB")

	// The legacy placeholder path is treated as missing.
	assert.Equal(t, generated, withDefaultLogo("/assets/defaultBusiness.png", "Corner Bakery"))

	// A real upload passes through untouched.
	uploaded := "https://cdn.example.com/businesses/biz-1/logo.png"
	assert.Equal(t, uploaded, withDefaultLogo(uploaded, "Corner Bakery"))
}
