package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom/cache"
	"newsroom/config"
	"newsroom/models"
	"newsroom/news"
	"newsroom/registry"
	"newsroom/server"
)

// stubFetcher returns canned responses per feed id.
type stubFetcher struct {
	responses map[string][]models.Article
	failures  map[string]error
}

func (s *stubFetcher) Fetch(_ context.Context, source models.FeedSource) ([]models.Article, error) {
	if err, ok := s.failures[source.ID]; ok {
		return nil, err
	}
	return s.responses[source.ID], nil
}

func TestGetFeeds(t *testing.T) {
	reg := registry.New(config.Default().Feeds)
	app := server.Server(&server.ServerConfig{
		Registry:   reg,
		Aggregator: news.New(reg, &stubFetcher{}, cache.New(time.Minute), 0, 0),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/feeds", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var feeds []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &feeds))
	require.Len(t, feeds, 7)

	for _, feed := range feeds {
		assert.Contains(t, feed, "id")
		assert.Contains(t, feed, "name")
		assert.Contains(t, feed, "categories")
		assert.NotContains(t, feed, "url")
	}

	// Registry order is preserved on the wire
	assert.Equal(t, "apple-newsroom", feeds[0]["id"])
}

func newsRegistry() *registry.Registry {
	return registry.New([]models.FeedSource{
		{ID: "x", Name: "X Feed", URL: "https://x.example/feed", Categories: []string{"Tech"}},
		{ID: "y", Name: "Y Feed", URL: "https://y.example/feed", Categories: []string{"Design"}},
	})
}

func TestGetNewsScenario(t *testing.T) {
	today := time.Now().UTC().Truncate(time.Second)
	yesterday := today.Add(-24 * time.Hour)

	fetcher := &stubFetcher{
		responses: map[string][]models.Article{
			"x": {
				{ID: "x:old", Title: "Yesterday", FeedID: "x", Source: "X Feed", Date: yesterday.Format(time.RFC3339), Published: yesterday},
				{ID: "x:new", Title: "Today", FeedID: "x", Source: "X Feed", Date: today.Format(time.RFC3339), Published: today},
			},
		},
	}

	reg := newsRegistry()
	app := server.Server(&server.ServerConfig{
		Registry:   reg,
		Aggregator: news.New(reg, fetcher, cache.New(time.Minute), 0, 0),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/news?feeds=x&limit=10", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var articles []models.Article
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&articles))
	require.Len(t, articles, 2)

	assert.Equal(t, "Today", articles[0].Title)
	assert.Equal(t, "Yesterday", articles[1].Title)
	for _, article := range articles {
		assert.Equal(t, "x", article.FeedID)
		assert.Equal(t, "X Feed", article.Source)
	}
}

func TestGetNewsPartialFailureStays200(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string][]models.Article{
			"y": {{ID: "y:1", FeedID: "y", Published: time.Now()}},
		},
		failures: map[string]error{
			"x": errors.New("upstream down"),
		},
	}

	reg := newsRegistry()
	app := server.Server(&server.ServerConfig{
		Registry:   reg,
		Aggregator: news.New(reg, fetcher, cache.New(time.Minute), 0, 0),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/news?feeds=x,y", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var articles []models.Article
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "y", articles[0].FeedID)
}

func TestGetNewsNonNumericLimitUsesDefault(t *testing.T) {
	many := make([]models.Article, 0, 100)
	now := time.Now()
	for i := 0; i < 100; i++ {
		many = append(many, models.Article{ID: "x:" + strconv.Itoa(i), FeedID: "x", Published: now.Add(-time.Duration(i) * time.Minute)})
	}

	fetcher := &stubFetcher{responses: map[string][]models.Article{"x": many}}

	reg := newsRegistry()
	app := server.Server(&server.ServerConfig{
		Registry:   reg,
		Aggregator: news.New(reg, fetcher, cache.New(time.Minute), 0, 0),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/news?feeds=x&limit=banana", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var articles []models.Article
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&articles))
	assert.Len(t, articles, news.DefaultLimit)
}

func TestGetNewsUnknownFeedsReturnEmptyArray(t *testing.T) {
	reg := newsRegistry()
	app := server.Server(&server.ServerConfig{
		Registry:   reg,
		Aggregator: news.New(reg, &stubFetcher{}, cache.New(time.Minute), 0, 0),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/news?feeds=bogus", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// An empty result is an empty JSON array, never null
	assert.JSONEq(t, "[]", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := newsRegistry()
	app := server.Server(&server.ServerConfig{
		Registry:   reg,
		Aggregator: news.New(reg, &stubFetcher{}, cache.New(time.Minute), 0, 0),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
