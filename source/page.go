package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/jobwizard/listing"
	"github.com/pevans/jobwizard/query"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultAnchorSelector selects links to individual vacancies on the
// listings page.
const DefaultAnchorSelector = "a[href*='/en/jobs/']"

// PageConfig defines where the listings page lives and how vacancy links
// are found on it.
type PageConfig struct {
	URL            string `yaml:"url"`
	AnchorSelector string `yaml:"anchor_selector"`
}

// PageSource is the secondary job board: a single unparameterized listings
// page filtered client-side.
type PageSource struct {
	cfg  PageConfig
	base *url.URL
	opts Options
}

// NewPageSource creates a listings page source.
func NewPageSource(cfg PageConfig, opts Options) (*PageSource, error) {
	if cfg.URL == "" {
		cfg.URL = query.DefaultSecondaryEndpoint
	}
	if cfg.AnchorSelector == "" {
		cfg.AnchorSelector = DefaultAnchorSelector
	}
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid listings page URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("listings page URL must use http or https scheme")
	}
	return &PageSource{
		cfg:  cfg,
		base: base,
		opts: opts.withDefaults(),
	}, nil
}

// Endpoint returns the listings page URL.
func (s *PageSource) Endpoint() string {
	return s.cfg.URL
}

// Search fetches the listings page once and returns the cards matching c.
// When nothing matches strictly and relax is set, the same cards are matched
// again with the part-time and contract predicates relaxed.
func (s *PageSource) Search(ctx context.Context, c query.Criteria, relax bool) ([]listing.Listing, error) {
	client := newClient(s.opts.Timeout)
	defer client.CloseIdleConnections()

	body, err := fetchBody(ctx, client, s.cfg.URL, s.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", ErrParse, err)
	}

	cards := ExtractCards(doc, s.cfg.AnchorSelector, s.base)

	results := s.match(cards, c, false)
	relaxed := false
	if len(results) == 0 && relax && c.Relaxable() {
		results = s.match(cards, c, true)
		relaxed = true
	}

	s.opts.Logger.Debug("listings page fetched",
		zap.Int("cards", len(cards)),
		zap.Int("accepted", len(results)),
		zap.Bool("relaxed", relaxed),
	)
	return results, nil
}

func (s *PageSource) match(cards []listing.Listing, c query.Criteria, allowRelax bool) []listing.Listing {
	out := make([]listing.Listing, 0, s.opts.Limit)
	for _, card := range cards {
		if s.opts.Filter.Suppress(card.Title, card.RawText) {
			continue
		}
		if !c.Matches(card.RawText, allowRelax) {
			continue
		}
		out = append(out, card)
		if len(out) >= s.opts.Limit {
			break
		}
	}
	return out
}

// ExtractCards returns one candidate per vacancy link in document order. The
// link's parent element is taken as the card, and its text is kept for
// matching. Relative links are resolved against base.
func ExtractCards(doc *goquery.Document, selector string, base *url.URL) []listing.Listing {
	var cards []listing.Listing
	doc.Find(selector).Each(func(i int, a *goquery.Selection) {
		parent := a.Parent()
		if parent.Length() == 0 {
			return
		}

		href, _ := a.Attr("href")
		card := listing.Listing{
			Title:   listing.NormalizeText(a.Text()),
			Link:    resolveLink(base, href),
			RawText: nodeText(parent.Get(0)),
		}
		if !card.Valid() {
			return
		}
		cards = append(cards, card)
	})
	return cards
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// nodeText joins the text nodes under n with single spaces, so adjacent
// elements do not run together.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return listing.NormalizeText(strings.Join(parts, " "))
}
