package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"newsroom/models"
)

// Config is the top-level TOML configuration. Only the feed allowlist lives
// in the file; runtime settings like the port and cache TTL come from CLI
// flags and environment variables.
type Config struct {
	Feeds []models.FeedSource `toml:"feeds"`
}

// LoadConfig reads the feed allowlist from a TOML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if len(config.Feeds) == 0 {
		return nil, fmt.Errorf("config file %s defines no feeds", path)
	}

	for _, feed := range config.Feeds {
		if feed.ID == "" || feed.URL == "" {
			return nil, fmt.Errorf("config file %s: every feed needs an id and a url", path)
		}
	}

	return &config, nil
}

// Default returns the built-in allowlist used when no config file is given.
func Default() *Config {
	return &Config{
		Feeds: []models.FeedSource{
			{
				ID:         "apple-newsroom",
				Name:       "Apple Newsroom",
				URL:        "https://www.apple.com/newsroom/rss-feed.rss",
				Categories: []string{"Apple"},
			},
			{
				ID:         "basic-apple-guy",
				Name:       "Basic Apple Guy",
				URL:        "https://basicappleguy.com/basicappleblog?format=rss",
				Categories: []string{"Apple", "Design"},
			},
			{
				ID:         "9to5mac",
				Name:       "9to5Mac",
				URL:        "https://9to5mac.com/feed/",
				Categories: []string{"Apple"},
			},
			{
				ID:         "macrumors",
				Name:       "MacRumors",
				URL:        "https://www.macrumors.com/macrumors.xml",
				Categories: []string{"Apple"},
			},
			{
				ID:         "appleinsider",
				Name:       "AppleInsider",
				URL:        "https://appleinsider.com/rss/news/",
				Categories: []string{"Apple"},
			},
			{
				ID:         "cultofmac",
				Name:       "Cult of Mac",
				URL:        "https://www.cultofmac.com/feed/",
				Categories: []string{"Apple"},
			},
			{
				ID:         "appledeveloper",
				Name:       "Apple Developer",
				URL:        "https://developer.apple.com/news/rss/news.rss",
				Categories: []string{"Apple", "Developer"},
			},
		},
	}
}
