package validator

import (
	"regexp"
	"strings"
)

// Generic metadata requirements applied to every release.
const (
	titleMaxLength = 100
	minReleaseDate = "1900-01-01"
)

var (
	upcPattern  = regexp.MustCompile(`^\d{12}$`)
	isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}\d{2}\d{5}$`)
)

// validGenres is the fixed genre allow-list shared with the catalog UI.
var validGenres = []string{
	"pop", "rock", "hip_hop", "electronic", "rb", "country",
	"latin", "jazz", "classical", "folk", "blues", "metal",
	"reggae", "world",
}

func isValidGenre(genre string) bool {
	for _, g := range validGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// CoverArtSpec is the minimum cover-art resolution a platform expects,
// with its aspect-ratio expectation (e.g. "1:1" or "16:9").
type CoverArtSpec struct {
	MinResolution int
	Aspect        string
}

// PlatformRequirements is one platform's delivery requirements profile.
type PlatformRequirements struct {
	AudioFormats []string
	ImageFormats []string
	CoverArt     CoverArtSpec
}

// platformRequirements maps normalized platform names to their requirement
// profiles. Platforms without a profile only get the generic checks.
var platformRequirements = map[string]PlatformRequirements{
	"spotify": {
		AudioFormats: []string{"mp3", "wav", "flac"},
		ImageFormats: []string{"jpg", "png"},
		CoverArt:     CoverArtSpec{MinResolution: 1400, Aspect: "1:1"},
	},
	"applemusic": {
		AudioFormats: []string{"aac", "alac", "wav"},
		ImageFormats: []string{"jpg", "png"},
		CoverArt:     CoverArtSpec{MinResolution: 2400, Aspect: "1:1"},
	},
	"youtube": {
		AudioFormats: []string{"mp3", "wav", "flac"},
		ImageFormats: []string{"jpg", "png"},
		CoverArt:     CoverArtSpec{MinResolution: 1280, Aspect: "16:9"},
	},
}

// normalizePlatformName maps a display name like "Apple Music" to its
// requirements key.
func normalizePlatformName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// requirementsFor returns the requirements profile for a platform, if one is known.
func requirementsFor(name string) (PlatformRequirements, bool) {
	reqs, ok := platformRequirements[normalizePlatformName(name)]
	return reqs, ok
}

func containsFormat(formats []string, ext string) bool {
	for _, f := range formats {
		if f == ext {
			return true
		}
	}
	return false
}
