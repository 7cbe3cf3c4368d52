package query

import (
	"strings"

	"github.com/pevans/jobwizard/prefs"
)

// DefaultSecondaryEndpoint is the listings page scraped as a fallback.
const DefaultSecondaryEndpoint = "https://dou.eu/en/jobs"

// Markers looked for in listing card text.
const (
	remoteMarker   = "Remote"
	contractMarker = "Contract"
)

var partTimeMarkers = []string{"Part-time", "part-time", "Part time"}

// Criteria is the client-side filter applied to the listings page, which
// takes no query parameters.
type Criteria struct {
	Category     string
	WantRemote   bool
	WantOffice   bool
	WantPartTime bool
	WantContract bool
}

// Secondary derives listings page criteria from p. Spheres without a
// category on the page, including unknown ones, match any category.
func Secondary(p prefs.Prefs) Criteria {
	c := Criteria{
		WantRemote:   p.Format == prefs.FormatRemote,
		WantOffice:   p.Format == prefs.FormatOffice,
		WantPartTime: p.Format == prefs.FormatPartTime,
		WantContract: p.Format == prefs.FormatContract,
	}
	if p.Sphere != "" {
		if cat, err := SecondaryCategories.Lookup(p.Sphere); err == nil && cat.Native {
			c.Category = cat.Label
		}
	}
	return c
}

// Relaxable reports whether a relaxed pass could change the outcome.
func (c Criteria) Relaxable() bool {
	return c.WantPartTime || c.WantContract
}

// Matches applies the card matching policy to text. With allowRelax the
// part-time and contract predicates are skipped, since the page tags those
// formats unreliably.
func (c Criteria) Matches(text string, allowRelax bool) bool {
	if c.Category != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(c.Category)) {
		return false
	}
	if c.WantRemote && !strings.Contains(text, remoteMarker) {
		return false
	}
	if c.WantOffice && strings.Contains(text, remoteMarker) {
		return false
	}
	if c.WantPartTime && !containsAny(text, partTimeMarkers) && !allowRelax {
		return false
	}
	if c.WantContract && !strings.Contains(text, contractMarker) && !allowRelax {
		return false
	}
	return true
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
