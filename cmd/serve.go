package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsroom/cache"
	"newsroom/fetcher"
	"newsroom/news"
	"newsroom/registry"
	"newsroom/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the newsroom API",
		Description: `Starts the newsroom HTTP server.

Serves the feed allowlist on /api/feeds and aggregated articles on /api/news.
Feeds are fetched concurrently on a cache miss and the merged result is kept
in memory for the configured freshness window.`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8787,
				Usage:   "Port to listen on",
				EnvVars: []string{"NEWSROOM_PORT"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Value:   cache.DefaultTTL,
				Usage:   "Freshness window for cached aggregation results",
				EnvVars: []string{"NEWSROOM_CACHE_TTL"},
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   fetcher.DefaultTimeout,
				Usage:   "Timeout for a single upstream feed fetch",
				EnvVars: []string{"NEWSROOM_FETCH_TIMEOUT"},
			},
			&cli.IntFlag{
				Name:    "default-limit",
				Value:   news.DefaultLimit,
				Usage:   "Article limit applied when the request does not carry a usable one",
				EnvVars: []string{"NEWSROOM_DEFAULT_LIMIT"},
			},
			&cli.IntFlag{
				Name:    "max-limit",
				Value:   news.MaxLimit,
				Usage:   "Hard ceiling on the article limit",
				EnvVars: []string{"NEWSROOM_MAX_LIMIT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadAllowlist(ctx)
			if err != nil {
				return err
			}

			reg := registry.New(cfg.Feeds)

			aggregator := news.New(
				reg,
				fetcher.New(ctx.Duration("fetch-timeout")),
				cache.New(ctx.Duration("cache-ttl")),
				ctx.Int("default-limit"),
				ctx.Int("max-limit"),
			)

			app := server.Server(&server.ServerConfig{
				Registry:   reg,
				Aggregator: aggregator,
			})

			// Graceful shutdown
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			done := make(chan struct{})

			go func() {
				<-interrupt
				fmt.Println("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.Error("Error shutting down server", err)
				}
				close(done)
			}()

			log.WithFields(log.Fields{
				"port":  ctx.Int("port"),
				"feeds": len(reg.Sources()),
			}).Info("Starting newsroom server")

			if err := app.Listen(fmt.Sprintf(":%d", ctx.Int("port"))); err != nil {
				return err
			}

			<-done
			fmt.Println("Done!")
			return nil
		},
	}
}
