// Package query turns preferences into source-specific queries: feed URLs for
// the primary source and matching criteria for the secondary listings page.
package query

import (
	"net/url"
	"strings"

	"github.com/pevans/jobwizard/prefs"
)

// DefaultPrimaryEndpoint is the job feed queried first.
const DefaultPrimaryEndpoint = "https://jobs.dou.ua/vacancies/feeds/"

// BackendTerms is the search expression standing in for the backend
// category, which the feed source does not have.
const BackendTerms = "(Back-end OR Backend)"

// Search terms appended by the fallback ladder.
const (
	PartTimeTerms    = `(part-time OR "part time" OR неповна зайнятість OR частичная занятость)`
	ContractTerms    = "(contract OR contractor OR контракт)"
	PartTimeAltTerms = "(Part time OR Part-time OR Півставки)"
)

// descriptionKeywords only show up in vacancy bodies on the feed source, so a
// search clause containing one of them must search full descriptions.
var descriptionKeywords = []string{"part", "time", "contract", "back-end", "backend"}

// Feed query parameter names.
const (
	ParamCategory    = "category"
	ParamRemote      = "remote"
	ParamRelocation  = "relocation"
	ParamSearch      = "search"
	ParamDescription = "descr"
)

// Variant is one fully specified feed query. It is immutable once built.
type Variant struct {
	name     string
	endpoint string
	params   url.Values
}

// Name identifies the ladder rung that produced the variant.
func (v Variant) Name() string {
	return v.name
}

// Endpoint returns the feed URL without parameters.
func (v Variant) Endpoint() string {
	return v.endpoint
}

// Params returns a copy of the query parameters.
func (v Variant) Params() url.Values {
	out := make(url.Values, len(v.params))
	for k, vals := range v.params {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Has reports whether the parameter is present, including presence-only
// flags with empty values.
func (v Variant) Has(param string) bool {
	_, ok := v.params[param]
	return ok
}

// Get returns the value of a parameter.
func (v Variant) Get(param string) string {
	return v.params.Get(param)
}

// URL encodes the variant. Parameters are sorted by key, so identical inputs
// always produce identical URLs.
func (v Variant) URL() string {
	return v.endpoint + "?" + v.params.Encode()
}

func (v Variant) String() string {
	return v.URL()
}

// Builder builds feed queries against a fixed endpoint.
type Builder struct {
	endpoint string
}

// NewBuilder creates a builder for the given feed endpoint. An empty endpoint
// selects DefaultPrimaryEndpoint.
func NewBuilder(endpoint string) *Builder {
	if endpoint == "" {
		endpoint = DefaultPrimaryEndpoint
	}
	return &Builder{endpoint: endpoint}
}

// Endpoint returns the feed endpoint.
func (b *Builder) Endpoint() string {
	return b.endpoint
}

// Primary builds the canonical feed query for p, with extraTerms appended to
// the search clause. When dropCategory is set the category constraint is
// left out entirely.
func (b *Builder) Primary(p prefs.Prefs, extraTerms []string, dropCategory bool) (Variant, error) {
	return b.build("canonical", p, extraTerms, dropCategory)
}

func (b *Builder) build(name string, p prefs.Prefs, extraTerms []string, dropCategory bool) (Variant, error) {
	params := url.Values{}

	cat, err := PrimaryCategories.Lookup(p.Sphere)
	if err != nil {
		return Variant{}, err
	}
	if !dropCategory && cat.Native {
		params.Set(ParamCategory, cat.Label)
	}

	if p.Format == prefs.FormatRemote {
		params.Set(ParamRemote, "")
	}
	// Relocation keys off INTL only; unset and Any get no flag.
	if p.Country == prefs.CountryINTL {
		params.Set(ParamRelocation, "")
	}

	var terms []string
	if p.Sphere == prefs.SphereBackend {
		terms = append(terms, BackendTerms)
	}
	terms = append(terms, extraTerms...)

	if len(terms) > 0 {
		clause := strings.Join(terms, " ")
		params.Set(ParamSearch, clause)
		if needsDescription(clause) {
			params.Set(ParamDescription, "1")
		}
	}

	return Variant{name: name, endpoint: b.endpoint, params: params}, nil
}

func needsDescription(clause string) bool {
	lower := strings.ToLower(clause)
	for _, kw := range descriptionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
