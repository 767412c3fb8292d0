package service

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Businesses without an uploaded logo get a generated SVG placeholder:
// initials on a background colour derived deterministically from the name.

func businessInitials(name string) string {
	var initials strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if initials.Len() >= 4 {
			break
		}
	}
	if initials.Len() == 0 {
		return "B"
	}
	return initials.String()
}

func backgroundHue(name string) int {
	var hash int32
	for _, r := range name {
		hash = hash<<5 - hash + r
	}
	if hash < 0 {
		hash = -hash
	}
	return int(hash % 360)
}

func defaultLogoDataURI(name string) string {
	initials := businessInitials(name)
	hue := backgroundHue(name)

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="128" height="128" viewBox="0 0 128 128" role="img" aria-label="%s logo">`+
		`<rect width="128" height="128" rx="28" fill="hsl(%d, 72%%, 44%%)"/>`+
		`<text x="50%%" y="54%%" text-anchor="middle" dominant-baseline="middle" fill="#ffffff" font-size="48" font-family="Inter, Segoe UI, Roboto, Arial, sans-serif" font-weight="700" letter-spacing="1">%s</text>`+
		`</svg>`, initials, hue, initials)

	return "data:image/svg+xml," + url.PathEscape(svg)
}

// withDefaultLogo fills the logo slot when no real image is set.
func withDefaultLogo(logoURL string, name string) string {
	if logoURL == "" || strings.Contains(logoURL, "defaultBusiness.png") {
		return defaultLogoDataURI(name)
	}
	return logoURL
}
