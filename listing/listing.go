// Package listing defines the normalized job listing returned by every
// source.
package listing

import (
	"fmt"
	"html"
	"strings"
)

// Listing is a single job vacancy normalized from a feed entry or a listings
// page card.
type Listing struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	// RawText is the card text used for matching. Feed listings leave it
	// empty.
	RawText string `json:"-"`
}

// Valid reports whether both title and link are present. Invalid candidates
// are dropped without being reported.
func (l Listing) Valid() bool {
	return strings.TrimSpace(l.Title) != "" && strings.TrimSpace(l.Link) != ""
}

// Anchor renders the listing as an HTML link with the title and link
// escaped, ready to embed in an HTML message.
func (l Listing) Anchor() string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(l.Link), html.EscapeString(l.Title))
}

// NormalizeText collapses runs of whitespace into single spaces.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
