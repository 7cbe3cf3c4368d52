package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/pevans/jobwizard/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrimary_BackendScenario verifies a Ukrainian backend search carries
// the backend expression and no location flags
func TestPrimary_BackendScenario(t *testing.T) {
	b := NewBuilder("")
	p := prefs.Prefs{Country: prefs.CountryUA, Sphere: prefs.SphereBackend, Format: prefs.FormatAny}

	v, err := b.Primary(p, nil, false)
	require.NoError(t, err)

	assert.Equal(t, BackendTerms, v.Get(ParamSearch))
	assert.Equal(t, "1", v.Get(ParamDescription), "backend searches need full descriptions")
	assert.False(t, v.Has(ParamCategory), "backend has no native category")
	assert.False(t, v.Has(ParamRemote))
	assert.False(t, v.Has(ParamRelocation))
	assert.Equal(t,
		"https://jobs.dou.ua/vacancies/feeds/?descr=1&search=%28Back-end+OR+Backend%29",
		v.URL())
}

// TestPrimary_RemoteAbroadScenario verifies category, remote and relocation
// flags for a remote QA search abroad
func TestPrimary_RemoteAbroadScenario(t *testing.T) {
	b := NewBuilder("")
	p := prefs.Prefs{Country: prefs.CountryINTL, Sphere: prefs.SphereQA, Format: prefs.FormatRemote}

	v, err := b.Primary(p, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "QA", v.Get(ParamCategory))
	assert.True(t, v.Has(ParamRemote))
	assert.True(t, v.Has(ParamRelocation))
	assert.False(t, v.Has(ParamSearch))
	assert.False(t, v.Has(ParamDescription))
	assert.Equal(t, "https://jobs.dou.ua/vacancies/feeds/?category=QA&relocation=&remote=", v.URL())
}

// TestPrimary_RelocationOnlyForINTL verifies unset and Any countries get no
// relocation flag
func TestPrimary_RelocationOnlyForINTL(t *testing.T) {
	b := NewBuilder("")

	for _, c := range []prefs.Country{"", prefs.CountryAny, prefs.CountryUA} {
		v, err := b.Primary(prefs.Prefs{Country: c}, nil, false)
		require.NoError(t, err)
		assert.False(t, v.Has(ParamRelocation), "country %q", c)
	}
}

// TestPrimary_ExtraTerms verifies extra terms are appended after the backend
// expression and trigger description search
func TestPrimary_ExtraTerms(t *testing.T) {
	b := NewBuilder("")
	p := prefs.Prefs{Sphere: prefs.SphereBackend}

	v, err := b.Primary(p, []string{ContractTerms}, false)
	require.NoError(t, err)

	assert.Equal(t, BackendTerms+" "+ContractTerms, v.Get(ParamSearch))
	assert.Equal(t, "1", v.Get(ParamDescription))
}

// TestPrimary_DescriptionKeywords verifies which clauses need description
// search
func TestPrimary_DescriptionKeywords(t *testing.T) {
	b := NewBuilder("")

	tests := []struct {
		terms    string
		wantDesc bool
	}{
		{terms: "Golang", wantDesc: false},
		{terms: "PART-TIME", wantDesc: true},
		{terms: "full time", wantDesc: true},
		{terms: "Contractor", wantDesc: true},
		{terms: "Півставки", wantDesc: false},
	}

	for _, tt := range tests {
		t.Run(tt.terms, func(t *testing.T) {
			v, err := b.Primary(prefs.Prefs{}, []string{tt.terms}, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDesc, v.Has(ParamDescription))
		})
	}
}

// TestPrimary_DropCategory verifies the category can be left out
func TestPrimary_DropCategory(t *testing.T) {
	b := NewBuilder("")
	p := prefs.Prefs{Sphere: prefs.SphereFrontend}

	with, err := b.Primary(p, nil, false)
	require.NoError(t, err)
	without, err := b.Primary(p, nil, true)
	require.NoError(t, err)

	assert.Equal(t, "Front End", with.Get(ParamCategory))
	assert.False(t, without.Has(ParamCategory))
}

// TestPrimary_UnknownSphere verifies invalid spheres are reported
func TestPrimary_UnknownSphere(t *testing.T) {
	_, err := NewBuilder("").Primary(prefs.Prefs{Sphere: "CHEF"}, nil, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, prefs.ErrUnknownSphere)
}

// TestPrimary_Idempotent verifies identical inputs give identical URLs
func TestPrimary_Idempotent(t *testing.T) {
	b := NewBuilder("")
	p := prefs.Prefs{Country: prefs.CountryINTL, Sphere: prefs.SphereBackend, Format: prefs.FormatRemote}
	terms := []string{PartTimeTerms}

	first, err := b.Primary(p, terms, false)
	require.NoError(t, err)
	for range 10 {
		again, err := b.Primary(p, terms, false)
		require.NoError(t, err)
		assert.Equal(t, first.URL(), again.URL())
	}
}

// TestVariant_ParamsIsCopy verifies callers cannot mutate a built variant
func TestVariant_ParamsIsCopy(t *testing.T) {
	v, err := NewBuilder("").Primary(prefs.Prefs{Sphere: prefs.SphereQA}, nil, false)
	require.NoError(t, err)
	before := v.URL()

	params := v.Params()
	params.Set(ParamCategory, "Design")
	params.Set("extra", "1")

	assert.Equal(t, before, v.URL())
}

// TestVariant_CustomEndpoint verifies the endpoint is used verbatim
func TestVariant_CustomEndpoint(t *testing.T) {
	v, err := NewBuilder("http://127.0.0.1:9999/feed").Primary(prefs.Prefs{}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999/feed?", v.URL())
	assert.Equal(t, "http://127.0.0.1:9999/feed", v.Endpoint())
}

// TestLadder_Order verifies the five rungs and their terms
func TestLadder_Order(t *testing.T) {
	b := NewBuilder("")
	p := prefs.Prefs{Country: prefs.CountryUA, Sphere: prefs.SphereQA, Format: prefs.FormatPartTime}

	variants, err := b.Ladder(p)
	require.NoError(t, err)
	require.Len(t, variants, 5)

	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name()
	}
	assert.Equal(t, []string{"canonical", "part-time", "contract", "part-time-alt", "no-category"}, names)

	assert.False(t, variants[0].Has(ParamSearch))
	assert.Equal(t, PartTimeTerms, variants[1].Get(ParamSearch))
	assert.Equal(t, ContractTerms, variants[2].Get(ParamSearch))
	assert.Equal(t, PartTimeAltTerms, variants[3].Get(ParamSearch))
	assert.False(t, variants[4].Has(ParamSearch))

	for _, v := range variants[:4] {
		assert.Equal(t, "QA", v.Get(ParamCategory), "rung %s keeps the category", v.Name())
	}
	assert.False(t, variants[4].Has(ParamCategory))
}

// TestLadder_BackendEverywhere verifies every backend rung carries the
// backend expression
func TestLadder_BackendEverywhere(t *testing.T) {
	for _, c := range []prefs.Country{prefs.CountryUA, prefs.CountryINTL, prefs.CountryAny, ""} {
		variants, err := NewBuilder("").Ladder(prefs.Prefs{Country: c, Sphere: prefs.SphereBackend})
		require.NoError(t, err)

		for _, v := range variants {
			assert.True(t, strings.HasPrefix(v.Get(ParamSearch), BackendTerms), "rung %s", v.Name())

			parsed, err := url.Parse(v.URL())
			require.NoError(t, err)
			assert.Contains(t, parsed.Query().Get(ParamSearch), BackendTerms)
		}
	}
}

// TestLadder_UnknownSphere verifies ladder construction fails for invalid
// spheres
func TestLadder_UnknownSphere(t *testing.T) {
	_, err := NewBuilder("").Ladder(prefs.Prefs{Sphere: "CHEF"})

	assert.ErrorIs(t, err, prefs.ErrUnknownSphere)
}

// TestCategoryMap_Lookup verifies explicit no-mapping entries differ from
// unknown spheres
func TestCategoryMap_Lookup(t *testing.T) {
	cat, err := PrimaryCategories.Lookup(prefs.SphereBackend)
	require.NoError(t, err)
	assert.Equal(t, NoCategory, cat)

	cat, err = PrimaryCategories.Lookup("")
	require.NoError(t, err)
	assert.False(t, cat.Native, "unset looks up as Any")

	cat, err = SecondaryCategories.Lookup(prefs.SphereFrontend)
	require.NoError(t, err)
	assert.Equal(t, Category{Label: "Front-end", Native: true}, cat)

	_, err = SecondaryCategories.Lookup("CHEF")
	assert.ErrorIs(t, err, prefs.ErrUnknownSphere)
}

// TestSecondary_Criteria verifies criteria derivation
func TestSecondary_Criteria(t *testing.T) {
	tests := []struct {
		name  string
		prefs prefs.Prefs
		want  Criteria
	}{
		{name: "empty", prefs: prefs.Prefs{}, want: Criteria{}},
		{
			name:  "frontend remote",
			prefs: prefs.Prefs{Sphere: prefs.SphereFrontend, Format: prefs.FormatRemote},
			want:  Criteria{Category: "Front-end", WantRemote: true},
		},
		{
			name:  "backend office",
			prefs: prefs.Prefs{Sphere: prefs.SphereBackend, Format: prefs.FormatOffice},
			want:  Criteria{WantOffice: true},
		},
		{
			name:  "data part-time",
			prefs: prefs.Prefs{Sphere: prefs.SphereData, Format: prefs.FormatPartTime},
			want:  Criteria{Category: "Data Science", WantPartTime: true},
		},
		{
			name:  "unknown sphere contract",
			prefs: prefs.Prefs{Sphere: "CHEF", Format: prefs.FormatContract},
			want:  Criteria{WantContract: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Secondary(tt.prefs))
		})
	}
}

// TestCriteria_Matches verifies the card matching policy
func TestCriteria_Matches(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		text     string
		relax    bool
		want     bool
	}{
		{name: "no constraints", criteria: Criteria{}, text: "anything", want: true},
		{name: "category case-insensitive", criteria: Criteria{Category: "DevOps"}, text: "Senior DEVOPS engineer", want: true},
		{name: "category missing", criteria: Criteria{Category: "QA"}, text: "Designer", want: false},
		{name: "remote present", criteria: Criteria{WantRemote: true}, text: "QA · Remote", want: true},
		{name: "remote is case-sensitive", criteria: Criteria{WantRemote: true}, text: "QA · remote", want: false},
		{name: "office rejects remote", criteria: Criteria{WantOffice: true}, text: "QA · Remote", want: false},
		{name: "office accepts on-site", criteria: Criteria{WantOffice: true}, text: "QA · Berlin", want: true},
		{name: "part-time marker", criteria: Criteria{WantPartTime: true}, text: "QA · Part time", want: true},
		{name: "part-time missing strict", criteria: Criteria{WantPartTime: true}, text: "QA · Full-time", want: false},
		{name: "part-time missing relaxed", criteria: Criteria{WantPartTime: true}, text: "QA · Full-time", relax: true, want: true},
		{name: "contract missing strict", criteria: Criteria{WantContract: true}, text: "QA", want: false},
		{name: "contract missing relaxed", criteria: Criteria{WantContract: true}, text: "QA", relax: true, want: true},
		{name: "relax keeps category", criteria: Criteria{Category: "QA", WantContract: true}, text: "Designer", relax: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.text, tt.relax))
		})
	}
}

// TestCriteria_Relaxable verifies only keyword formats can be relaxed
func TestCriteria_Relaxable(t *testing.T) {
	assert.True(t, Criteria{WantPartTime: true}.Relaxable())
	assert.True(t, Criteria{WantContract: true}.Relaxable())
	assert.False(t, Criteria{WantRemote: true}.Relaxable())
	assert.False(t, Criteria{}.Relaxable())
}
