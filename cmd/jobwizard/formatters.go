package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/render"
	"github.com/pevans/jobwizard/search"
)

// maxTitleRunes is the widest title printed by the search table.
const maxTitleRunes = 80

// printSearchTable prints a search result in human-readable format
func printSearchTable(p prefs.Prefs, res search.Result, queries []string) {
	writeSearchTable(os.Stdout, p, res, queries)
}

func writeSearchTable(w io.Writer, p prefs.Prefs, res search.Result, queries []string) {
	fmt.Fprintln(w, plainText(render.PrefsText(p)))
	fmt.Fprintln(w)

	switch {
	case res.Failure != "":
		fmt.Fprintf(w, "Search failed: %s\n", res.Failure)
	case !res.Found():
		fmt.Fprintln(w, plainText(render.NothingFound))
	default:
		fmt.Fprintf(w, "Found %d listings (%s", len(res.Listings), res.Origin)
		if res.Variant != "" {
			fmt.Fprintf(w, ", %s", res.Variant)
		}
		if res.Relaxed {
			fmt.Fprint(w, ", relaxed")
		}
		fmt.Fprintln(w, ")")
		fmt.Fprintln(w)

		for _, l := range res.Listings {
			fmt.Fprintf(w, "• %s\n", truncate(l.Title, maxTitleRunes))
			fmt.Fprintf(w, "  %s\n", l.Link)
		}
	}

	if len(queries) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Queries:")
		for _, q := range queries {
			fmt.Fprintf(w, "  %s\n", q)
		}
	}
}

// truncate shortens s to at most limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// printSearchJSON prints a search result in JSON format
func printSearchJSON(p prefs.Prefs, res search.Result, queries []string) {
	output := map[string]any{
		"prefs":   p,
		"result":  res,
		"queries": queries,
	}
	printJSON(output)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}

// plainText strips the HTML markup of a rendered message for the terminal.
// Links keep their target after the text.
func plainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		a.SetText(fmt.Sprintf("%s <%s>", a.Text(), href))
	})
	return strings.TrimSpace(doc.Text())
}

// printMessage prints a rendered message with its buttons numbered from 1.
func printMessage(msg render.Message) []render.Button {
	return writeMessage(os.Stdout, msg)
}

func writeMessage(w io.Writer, msg render.Message) []render.Button {
	fmt.Fprintln(w, plainText(msg.Text))

	buttons := msg.Keyboard.Buttons()
	if len(buttons) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	for i, b := range buttons {
		if b.URL != "" {
			fmt.Fprintf(w, "  %d) %s <%s>\n", i+1, b.Text, b.URL)
			continue
		}
		fmt.Fprintf(w, "  %d) %s\n", i+1, b.Text)
	}
	return buttons
}
