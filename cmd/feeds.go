package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"newsroom/registry"
)

func feedsCmd() *cli.Command {
	return &cli.Command{
		Name:        "feeds",
		Usage:       "Print the configured feed allowlist",
		Description: `Prints the feed allowlist as JSON in its public shape, the same projection served on /api/feeds.`,
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadAllowlist(ctx)
			if err != nil {
				return err
			}

			public := registry.New(cfg.Feeds).Public()
			out, err := json.MarshalIndent(public, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
