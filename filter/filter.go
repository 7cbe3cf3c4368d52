// Package filter suppresses listings that mention denylisted regions.
package filter

import "strings"

// DefaultTerms are the region phrases suppressed when filtering is active.
// Each phrase is padded with spaces so only whole words match.
var DefaultTerms = []string{
	" russia ", " россия ", " росія ", " рф ",
	" moscow ", " москва ",
	" saint petersburg ", " st. petersburg ", " санкт-петербург ", " санкт петербург ",
}

// Filter decides whether a candidate listing must be suppressed. A nil
// Filter suppresses nothing.
type Filter struct {
	allowUnrestricted bool
	terms             []string
}

// New creates a filter. When allowUnrestricted is true the filter is
// disabled. A nil terms slice selects DefaultTerms.
func New(allowUnrestricted bool, terms []string) *Filter {
	if terms == nil {
		terms = DefaultTerms
	}
	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}
	return &Filter{
		allowUnrestricted: allowUnrestricted,
		terms:             lowered,
	}
}

// Enabled reports whether the filter suppresses anything at all.
func (f *Filter) Enabled() bool {
	return f != nil && !f.allowUnrestricted
}

// IsForbidden reports whether text contains a denylisted phrase. Only
// spaces and the ends of text delimit a phrase, so a term touching
// punctuation, as in "(Moscow)" or "Moscow,", does not match.
func (f *Filter) IsForbidden(text string) bool {
	if !f.Enabled() {
		return false
	}
	padded := " " + strings.ToLower(text) + " "
	for _, term := range f.terms {
		if strings.Contains(padded, term) {
			return true
		}
	}
	return false
}

// Suppress reports whether any of the fields is forbidden. Listings are
// dropped whole, never redacted.
func (f *Filter) Suppress(fields ...string) bool {
	for _, field := range fields {
		if f.IsForbidden(field) {
			return true
		}
	}
	return false
}
