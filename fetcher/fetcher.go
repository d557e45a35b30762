// Package fetcher retrieves feeds from their upstream urls and normalizes
// their items into articles.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsroom/models"
)

var (
	fetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_feed_fetch_attempts_total",
		Help: "The total number of upstream feed fetch attempts",
	}, []string{"feed"})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_feed_fetch_failures_total",
		Help: "The total number of upstream feed fetches that failed to retrieve or parse",
	}, []string{"feed"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsroom_feed_fetch_duration_seconds",
		Help:    "Duration of upstream feed fetches",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // Start at 50ms, double each bucket, 10 buckets
	})
)

// DefaultTimeout bounds a single upstream retrieval.
const DefaultTimeout = 12 * time.Second

// Fetcher retrieves one feed at a time over HTTP.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
}

// New returns a fetcher with the given per-fetch timeout. A non-positive
// timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		timeout:   timeout,
		userAgent: "newsroom/1.0",
	}
}

// Fetch retrieves source.URL, parses it and normalizes every item. A
// retrieval or parse failure yields an error and zero articles; deciding
// whether that matters is up to the caller. Safe for concurrent use, one
// parser per call.
func (f *Fetcher) Fetch(ctx context.Context, source models.FeedSource) ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	fetchAttempts.WithLabelValues(source.ID).Inc()

	parser := gofeed.NewParser()
	parser.UserAgent = f.userAgent

	start := time.Now()
	feed, err := parser.ParseURLWithContext(source.URL, ctx)
	fetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		fetchFailures.WithLabelValues(source.ID).Inc()
		return nil, fmt.Errorf("fetching feed %s: %w", source.ID, err)
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, normalizeItem(item, source))
	}
	return articles, nil
}
