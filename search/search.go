// Package search runs a job search across the primary feed and the secondary
// listings page, walking the fallback ladder until something is found.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/listing"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/query"
	"github.com/pevans/jobwizard/source"
	"go.uber.org/zap"
)

// Origin names the source a result came from.
type Origin string

const (
	OriginPrimary   Origin = "primary"
	OriginSecondary Origin = "secondary"
	OriginNone      Origin = "none"
)

// Primary is the feed source. Open fails when the source cannot be reached
// at all, before any query is sent.
type Primary interface {
	Open(ctx context.Context) (source.FeedClient, error)
}

// Secondary is the listings page source.
type Secondary interface {
	Search(ctx context.Context, c query.Criteria, relax bool) ([]listing.Listing, error)
	Endpoint() string
}

// Result is the outcome of one search. A search never returns an error:
// failures are reported through Failure, and an empty Listings with no
// Failure means nothing matched.
type Result struct {
	Listings []listing.Listing `json:"listings"`
	Origin   Origin            `json:"origin"`
	// Variant is the ladder rung that produced a primary result.
	Variant string `json:"variant,omitempty"`
	// Relaxed reports whether the secondary source was allowed to relax
	// format matching.
	Relaxed bool   `json:"relaxed,omitempty"`
	Failure string `json:"failure,omitempty"`
}

// Found reports whether the result carries listings.
func (r Result) Found() bool {
	return len(r.Listings) > 0
}

// Searcher orchestrates the sources. It holds no per-search state and is
// safe for concurrent use.
type Searcher struct {
	primary   Primary
	secondary Secondary
	builder   *query.Builder
	logger    *zap.Logger
}

// New creates a searcher. A nil builder queries the default feed endpoint.
func New(primary Primary, secondary Secondary, builder *query.Builder, logger *zap.Logger) *Searcher {
	if builder == nil {
		builder = query.NewBuilder("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{
		primary:   primary,
		secondary: secondary,
		builder:   builder,
		logger:    logger,
	}
}

// Search finds listings for p. Every attempted query is recorded to rec
// before it is sent.
func (s *Searcher) Search(ctx context.Context, p prefs.Prefs, rec diagnostics.Recorder) (res Result) {
	if rec == nil {
		rec = diagnostics.Discard
	}
	start := time.Now()
	logger := s.logger.With(
		zap.String("country", string(p.Country)),
		zap.String("sphere", string(p.Sphere)),
		zap.String("format", string(p.Format)),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("search panicked", zap.Any("panic", r))
			res = s.failure(rec, fmt.Errorf("internal error: %v", r))
		}
		SearchesTotal.WithLabelValues(string(res.Origin)).Inc()
		SearchDuration.Observe(time.Since(start).Seconds())
	}()

	if err := p.Validate(); err != nil {
		logger.Warn("invalid preferences", zap.Error(err))
		return s.failure(rec, err)
	}

	if !p.Country.UsesPrimary() {
		logger.Info("country served by secondary source")
		return s.fromSecondary(ctx, logger, p, rec, true)
	}

	ladder, err := s.builder.Ladder(p)
	if err != nil {
		logger.Warn("failed to build feed queries", zap.Error(err))
		return s.failure(rec, err)
	}

	client, err := s.primary.Open(ctx)
	if err != nil {
		logger.Info("primary source unavailable, falling back", zap.Error(err))
		rec.Record("primary unavailable: " + err.Error())
		SourceFailures.WithLabelValues(string(OriginPrimary)).Inc()
		return s.fromSecondary(ctx, logger, p, rec, true)
	}
	defer client.Close()

	for _, v := range ladder {
		if err := ctx.Err(); err != nil {
			logger.Warn("search cancelled", zap.Error(err))
			return s.failure(rec, err)
		}

		rec.Record(v.URL())
		items, err := client.Fetch(ctx, v)
		if err != nil {
			logger.Warn("feed query failed",
				zap.String("variant", v.Name()),
				zap.String("url", v.URL()),
				zap.Error(err),
			)
			rec.Record("failed: " + err.Error())
			VariantAttempts.WithLabelValues(v.Name(), outcomeError).Inc()
			continue
		}
		if len(items) == 0 {
			VariantAttempts.WithLabelValues(v.Name(), outcomeEmpty).Inc()
			continue
		}

		VariantAttempts.WithLabelValues(v.Name(), outcomeHit).Inc()
		logger.Debug("feed query matched",
			zap.String("variant", v.Name()),
			zap.Int("listings", len(items)),
		)
		return Result{
			Listings: items,
			Origin:   OriginPrimary,
			Variant:  v.Name(),
		}
	}

	logger.Info("feed queries exhausted, falling back")
	return s.fromSecondary(ctx, logger, p, rec, p.Format.WantsRelaxedFormat())
}

func (s *Searcher) fromSecondary(ctx context.Context, logger *zap.Logger, p prefs.Prefs, rec diagnostics.Recorder, relax bool) Result {
	rec.Record(fmt.Sprintf("secondary %s relax=%t", s.secondary.Endpoint(), relax))

	items, err := s.secondary.Search(ctx, query.Secondary(p), relax)
	if err != nil {
		logger.Warn("secondary source failed", zap.Bool("relax", relax), zap.Error(err))
		rec.Record("failed: " + err.Error())
		SourceFailures.WithLabelValues(string(OriginSecondary)).Inc()
		return Result{Origin: OriginNone, Relaxed: relax}
	}
	if len(items) == 0 {
		return Result{Origin: OriginNone, Relaxed: relax}
	}
	return Result{
		Listings: items,
		Origin:   OriginSecondary,
		Relaxed:  relax,
	}
}

func (s *Searcher) failure(rec diagnostics.Recorder, err error) Result {
	msg := fmt.Sprintf("search failed: %v", err)
	rec.Record(msg)
	return Result{Origin: OriginNone, Failure: msg}
}
