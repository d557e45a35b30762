// Package registry holds the fixed allowlist of feed sources.
package registry

import (
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"newsroom/models"
)

// Registry is the immutable set of feeds the aggregator may fetch, in
// configuration order, with O(1) lookup by id.
type Registry struct {
	sources []models.FeedSource
	byID    map[string]models.FeedSource
}

// New builds a registry from the configured sources. Duplicate ids are
// dropped, first occurrence wins.
func New(sources []models.FeedSource) *Registry {
	r := &Registry{
		byID: make(map[string]models.FeedSource, len(sources)),
	}
	for _, source := range sources {
		if _, ok := r.byID[source.ID]; ok {
			log.WithFields(log.Fields{
				"feed": source.ID,
			}).Warn("Dropping duplicate feed id from registry")
			continue
		}
		r.byID[source.ID] = source
		r.sources = append(r.sources, source)
	}
	return r
}

// Sources returns every registered feed in registry order.
func (r *Registry) Sources() []models.FeedSource {
	return r.sources
}

// Lookup returns the feed registered under id.
func (r *Registry) Lookup(id string) (models.FeedSource, bool) {
	source, ok := r.byID[id]
	return source, ok
}

// Resolve maps requested feed ids to registered sources. Unknown ids are
// silently dropped and duplicates collapse. An empty request resolves to the
// full registry. The result is always in registry order, not request order,
// so cache keys derived from it are canonical across equivalent requests.
func (r *Registry) Resolve(ids []string) []models.FeedSource {
	if len(ids) == 0 {
		return r.sources
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	return lo.Filter(r.sources, func(source models.FeedSource, _ int) bool {
		_, ok := wanted[source.ID]
		return ok
	})
}

// Public returns the wire projection of the registry for /api/feeds. Feed
// urls stay internal.
func (r *Registry) Public() []models.FeedInfo {
	return lo.Map(r.sources, func(source models.FeedSource, _ int) models.FeedInfo {
		return models.FeedInfo{
			ID:         source.ID,
			Name:       source.Name,
			Categories: source.Categories,
		}
	})
}
