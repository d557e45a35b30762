package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsroom/cache"
	"newsroom/fetcher"
	"newsroom/models"
	"newsroom/news"
	"newsroom/registry"
)

// fetchCmd runs one aggregation pass and prints the articles to stdout.
func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the allowlist once and print articles to stdout",
		Description: `Runs a single aggregation pass over the configured feeds and
prints each article as a JSON object on a single line. Use a tool like jq to
process the output.

Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:    "feed",
				Aliases: []string{"f"},
				Usage:   "Feed ids to fetch, repeatable; fetches every feed when omitted",
			},
			&cli.StringFlag{
				Name:  "category",
				Value: news.AllCategories,
				Usage: "Keep only articles tagged with this category",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Value:   news.DefaultLimit,
				Usage:   "Maximum number of articles to print",
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   fetcher.DefaultTimeout,
				Usage:   "Timeout for a single upstream feed fetch",
				EnvVars: []string{"NEWSROOM_FETCH_TIMEOUT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the article stream
			log.SetOutput(os.Stderr)

			cfg, err := loadAllowlist(ctx)
			if err != nil {
				return err
			}

			reg := registry.New(cfg.Feeds)
			aggregator := news.New(
				reg,
				fetcher.New(ctx.Duration("fetch-timeout")),
				cache.New(cache.DefaultTTL),
				news.DefaultLimit,
				news.MaxLimit,
			)

			articles, err := aggregator.GetNews(
				ctx.Context,
				ctx.StringSlice("feed"),
				ctx.String("category"),
				ctx.Int("limit"),
			)
			if err != nil {
				return err
			}

			for _, article := range articles {
				printStdout(&article)
			}
			return nil
		},
	}
}

func printStdout(article *models.Article) {
	// Print as single JSON string on a single line
	articleJSON, err := json.Marshal(article)
	if err == nil {
		fmt.Println(string(articleJSON))
	}
}
