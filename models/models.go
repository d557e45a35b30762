package models

import "time"

// FeedSource is one entry in the feed allowlist. The set of sources is fixed
// at process start. URL is an internal fetch target and is never serialized
// to API responses.
type FeedSource struct {
	ID         string   `toml:"id" json:"id"`
	Name       string   `toml:"name" json:"name"`
	URL        string   `toml:"url" json:"-"`
	Categories []string `toml:"categories" json:"categories"`
}

// FeedInfo is the public projection of a FeedSource served by /api/feeds.
type FeedInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Article is the normalized representation of one feed item. Every field is
// coerced to a trimmed string at normalization time; missing upstream data
// yields empty values, never an error.
type Article struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Link       string   `json:"link"`
	Source     string   `json:"source"`
	FeedID     string   `json:"feedId"`
	Categories []string `json:"categories"`
	Date       string   `json:"date"`
	Summary    string   `json:"summary"`
	Image      string   `json:"image"`

	// Published is the parsed publish time used for ranking only. Zero when
	// the feed gave no parsable date, which ranks the article as oldest.
	Published time.Time `json:"-"`
}
