// Package news orchestrates the aggregation pipeline: resolve requested
// feeds, consult the cache, fan out fetches, merge, rank, filter and cap.
package news

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"newsroom/cache"
	"newsroom/models"
	"newsroom/registry"
)

const (
	// DefaultLimit is used when no usable limit is requested.
	DefaultLimit = 60
	// MaxLimit is the hard ceiling on the number of returned articles.
	MaxLimit = 150
	// AllCategories is the sentinel category that disables filtering.
	AllCategories = "All"
)

// Fetcher is the feed retrieval and parse capability the aggregator depends
// on. Any conforming implementation is substitutable; tests use stubs.
type Fetcher interface {
	Fetch(ctx context.Context, source models.FeedSource) ([]models.Article, error)
}

// Aggregator serves merged, ranked article lists over the registry's feeds.
type Aggregator struct {
	registry     *registry.Registry
	fetcher      Fetcher
	cache        *cache.Cache
	defaultLimit int
	maxLimit     int
}

// New wires an aggregator from its collaborators. Non-positive limits fall
// back to DefaultLimit and MaxLimit.
func New(reg *registry.Registry, fetcher Fetcher, articleCache *cache.Cache, defaultLimit int, maxLimit int) *Aggregator {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Aggregator{
		registry:     reg,
		fetcher:      fetcher,
		cache:        articleCache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// fetchResult carries one feed's contribution out of the fan-out. A failed
// feed contributes zero articles; the reason is kept for logging only and
// never reaches the caller.
type fetchResult struct {
	feedID   string
	articles []models.Article
	err      error
}

// GetNews resolves feedIDs against the registry (empty means every feed,
// unknown ids are dropped), serves the merged sorted set from cache when
// fresh, and otherwise fetches all resolved feeds concurrently. The cache
// always holds the full unfiltered set so one entry serves every category
// filter over the same feed set. Category filtering and the clamped limit
// apply after the cache.
func (a *Aggregator) GetNews(ctx context.Context, feedIDs []string, category string, limit int) ([]models.Article, error) {
	sources := a.registry.Resolve(feedIDs)
	key := cacheKey(sources)

	articles, ok := a.cache.Get(key)
	if !ok {
		articles = a.fetchAll(ctx, sources)
		sortNewestFirst(articles)
		a.cache.Put(key, articles)
	}

	filtered := filterByCategory(articles, category)
	return capArticles(filtered, a.clampLimit(limit)), nil
}

// fetchAll retrieves every source concurrently and joins all results. There
// is no short-circuit: the merge waits for each feed to either succeed or
// fail, and failures are absorbed as zero contributions.
func (a *Aggregator) fetchAll(ctx context.Context, sources []models.FeedSource) []models.Article {
	results := make(chan fetchResult, len(sources))

	var wg sync.WaitGroup
	for _, source := range sources {
		wg.Add(1)
		go func(source models.FeedSource) {
			defer wg.Done()
			articles, err := a.fetcher.Fetch(ctx, source)
			results <- fetchResult{feedID: source.ID, articles: articles, err: err}
		}(source)
	}
	wg.Wait()
	close(results)

	merged := make([]models.Article, 0)
	for result := range results {
		if result.err != nil {
			log.WithFields(log.Fields{
				"feed":  result.feedID,
				"error": result.err,
			}).Warn("Skipping feed after fetch failure")
			continue
		}
		merged = append(merged, result.articles...)
	}
	return merged
}

// clampLimit coerces the requested limit to something sane: non-positive
// becomes the default, anything above the ceiling becomes the ceiling.
func (a *Aggregator) clampLimit(limit int) int {
	if limit <= 0 {
		return a.defaultLimit
	}
	if limit > a.maxLimit {
		return a.maxLimit
	}
	return limit
}

// cacheKey derives the canonical cache key for a resolved feed set. Resolve
// already returns sources deduplicated and in registry order, so equivalent
// requests always map to the same key.
func cacheKey(sources []models.FeedSource) string {
	ids := lo.Map(sources, func(source models.FeedSource, _ int) string {
		return source.ID
	})
	return "news:" + strings.Join(ids, ",")
}

// sortNewestFirst ranks articles by publish time descending. Articles
// without a parsable date carry a zero time and therefore sort last.
func sortNewestFirst(articles []models.Article) {
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
}

// filterByCategory keeps articles tagged with the category. An empty value
// or the AllCategories sentinel disables the filter.
func filterByCategory(articles []models.Article, category string) []models.Article {
	if category == "" || category == AllCategories {
		return articles
	}
	return lo.Filter(articles, func(article models.Article, _ int) bool {
		return lo.Contains(article.Categories, category)
	})
}

// capArticles truncates the list to at most limit entries, preserving order.
func capArticles(articles []models.Article, limit int) []models.Article {
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
