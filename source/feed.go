package source

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/jobwizard/listing"
	"github.com/pevans/jobwizard/query"
	"go.uber.org/zap"
)

// maxFeedEntries bounds how many feed entries are inspected per fetch.
const maxFeedEntries = 120

// Resolver looks up hosts before a search starts.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// FeedClient runs feed queries for one search. It is not shared between
// searches.
type FeedClient interface {
	Fetch(ctx context.Context, v query.Variant) ([]listing.Listing, error)
	Close() error
}

// FeedSource is the primary job board: an RSS/Atom feed that accepts
// category and format parameters.
type FeedSource struct {
	endpoint string
	resolver Resolver
	opts     Options
}

// NewFeedSource creates a feed source for endpoint. The endpoint host is
// resolved when a search opens the source, so an unreachable network is
// detected before any query is sent.
func NewFeedSource(endpoint string, opts Options) *FeedSource {
	if endpoint == "" {
		endpoint = query.DefaultPrimaryEndpoint
	}
	return &FeedSource{
		endpoint: endpoint,
		resolver: net.DefaultResolver,
		opts:     opts.withDefaults(),
	}
}

// WithResolver replaces the host resolver. A nil resolver disables the host
// check, leaving unreachable feeds to fail per query.
func (s *FeedSource) WithResolver(r Resolver) *FeedSource {
	s.resolver = r
	return s
}

// Endpoint returns the feed URL the source was created for.
func (s *FeedSource) Endpoint() string {
	return s.endpoint
}

// Open acquires a client for one search. It fails with ErrUnavailable when
// the feed host cannot be resolved or the context is already done.
func (s *FeedSource) Open(ctx context.Context) (FeedClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	u, err := url.Parse(s.endpoint)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: invalid feed endpoint %q", ErrUnavailable, s.endpoint)
	}
	if s.resolver != nil && net.ParseIP(u.Hostname()) == nil {
		if _, err := s.resolver.LookupHost(ctx, u.Hostname()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return &feedClient{
		client: newClient(s.opts.Timeout),
		parser: gofeed.NewParser(),
		opts:   s.opts,
	}, nil
}

type feedClient struct {
	client *http.Client
	parser *gofeed.Parser
	opts   Options
}

// Fetch runs one feed query and returns the accepted entries in feed order.
func (c *feedClient) Fetch(ctx context.Context, v query.Variant) ([]listing.Listing, error) {
	body, err := fetchBody(ctx, c.client, v.URL(), c.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse feed: %v", ErrParse, err)
	}

	items := FeedItemsToListings(feed.Items, c.opts)
	c.opts.Logger.Debug("feed fetched",
		zap.String("variant", v.Name()),
		zap.Int("entries", len(feed.Items)),
		zap.Int("accepted", len(items)),
	)
	return items, nil
}

func (c *feedClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// FeedItemsToListings converts feed entries to listings. Entries without a
// title or link are skipped, as are entries whose title or link is
// suppressed by the filter. At most opts.Limit listings are returned.
func FeedItemsToListings(items []*gofeed.Item, opts Options) []listing.Listing {
	opts = opts.withDefaults()
	if len(items) > maxFeedEntries {
		items = items[:maxFeedEntries]
	}

	out := make([]listing.Listing, 0, opts.Limit)
	for _, item := range items {
		if item == nil {
			continue
		}
		l := listing.Listing{
			Title: strings.TrimSpace(item.Title),
			Link:  strings.TrimSpace(item.Link),
		}
		if !l.Valid() {
			continue
		}
		if opts.Filter.Suppress(l.Title, l.Link) {
			continue
		}
		out = append(out, l)
		if len(out) >= opts.Limit {
			break
		}
	}
	return out
}
