package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsroom/config"
)

// loadAllowlist resolves the feed allowlist for a command: the configured
// TOML file when it exists, the built-in allowlist otherwise. An explicitly
// flagged file that cannot be read is an error; silently falling back would
// hide a typo.
func loadAllowlist(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")

	if _, err := os.Stat(path); err != nil {
		if ctx.IsSet("config") {
			return nil, err
		}
		log.WithFields(log.Fields{
			"path": path,
		}).Info("No config file found, using built-in feed allowlist")
		return config.Default(), nil
	}

	return config.LoadConfig(path)
}

// configFlag is shared by every command that needs the allowlist.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config/feeds.toml",
		Usage:   "Path to the feed allowlist configuration file",
		EnvVars: []string{"NEWSROOM_CONFIG"},
	}
}
