package main

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pevans/jobwizard/listing"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/render"
	"github.com/pevans/jobwizard/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	got := plainText(`<b>Hello</b> <a href="https://example.com">world</a> &amp; more`)
	assert.Equal(t, "Hello world <https://example.com> & more", got)
}

func TestPlainTextKeepsLines(t *testing.T) {
	got := plainText("<b>one</b>\ntwo")
	assert.Equal(t, "one\ntwo", got)
}

func TestResolveInput(t *testing.T) {
	buttons := []render.Button{
		{Text: "Ukraine", Data: "country:UA"},
		{Text: "Author", URL: "https://example.com"},
	}

	t.Run("button number", func(t *testing.T) {
		data, err := resolveInput("1", buttons)
		require.NoError(t, err)
		assert.Equal(t, "country:UA", data)
	})

	t.Run("url button", func(t *testing.T) {
		data, err := resolveInput("2", buttons)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := resolveInput("3", buttons)
		assert.Error(t, err)

		_, err = resolveInput("0", buttons)
		assert.Error(t, err)
	})

	t.Run("raw data", func(t *testing.T) {
		data, err := resolveInput("nav:back", buttons)
		require.NoError(t, err)
		assert.Equal(t, "nav:back", data)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 80))

	long := strings.Repeat("Ж", 120)
	got := truncate(long, 80)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 80, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("я", 80)
	assert.Equal(t, exact, truncate(exact, 80))
}

// TestWriteSearchTable_CyrillicTitle verifies long non-ASCII titles are cut
// on character boundaries
func TestWriteSearchTable_CyrillicTitle(t *testing.T) {
	res := search.Result{
		Origin:  search.OriginPrimary,
		Variant: "canonical",
		Listings: []listing.Listing{
			{Title: strings.Repeat("Ж", 60) + " тестувальник програмного забезпечення", Link: "https://jobs.test/1"},
			{Title: strings.Repeat("Ж", 60), Link: "https://jobs.test/2"},
		},
	}

	var buf bytes.Buffer
	writeSearchTable(&buf, prefs.Prefs{Country: prefs.CountryUA}, res, []string{"https://feed.test/?"})

	out := buf.String()
	assert.True(t, utf8.ValidString(out), "output must be valid UTF-8")
	assert.Contains(t, out, "Found 2 listings (primary, canonical)")
	assert.Contains(t, out, "• "+strings.Repeat("Ж", 60)+"\n", "titles under the limit are kept whole")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "https://feed.test/?")
}

func TestWriteSearchTable_Failure(t *testing.T) {
	var buf bytes.Buffer
	writeSearchTable(&buf, prefs.Prefs{}, search.Result{Origin: search.OriginNone, Failure: "search failed: boom"}, nil)

	assert.Contains(t, buf.String(), "Search failed: search failed: boom")
	assert.NotContains(t, buf.String(), "Queries:")
}

// TestWriteMessage_ResultsListedOnce verifies each listing of a results
// message is printed a single time with its link
func TestWriteMessage_ResultsListedOnce(t *testing.T) {
	p := prefs.Prefs{Country: prefs.CountryUA, Sphere: prefs.SphereQA, Format: prefs.FormatRemote}
	res := search.Result{
		Origin:   search.OriginPrimary,
		Listings: []listing.Listing{{Title: "QA Engineer", Link: "https://jobs.test/1"}},
	}
	msg := render.Results(p, res, render.Owner{Name: "Jane Doe", URL: "https://www.linkedin.com/in/jane-doe"})

	var buf bytes.Buffer
	buttons := writeMessage(&buf, msg)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "QA Engineer"))
	assert.Contains(t, out, "QA Engineer <https://jobs.test/1>")
	assert.Equal(t, len(msg.Keyboard.Buttons()), len(buttons))
}
