package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "newsroom",
		Usage: "A personal news aggregator over a fixed RSS allowlist",
		Description: `Newsroom fetches a curated allowlist of RSS feeds, normalizes
		their items into a uniform article shape and serves the merged,
		newest-first result over a small JSON API.

		Results are cached in memory for a freshness window so repeated
		requests for the same feed set do not refetch upstream feeds.

		Flags can generally be set via environment variables, e.g.:

		--config => NEWSROOM_CONFIG=config/feeds.toml
		--port => NEWSROOM_PORT=8787
		`,
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			feedsCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
