package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/anvena/launchpad"
	"github.com/anvena/launchpad/config"
)

func main() {
	configPath := flag.String("config", "launchpad.toml", "path to the TOML configuration file")
	dbPath := flag.String("dbpath", "", "path to the sqlite database, overrides the config file")
	dev := flag.Bool("dev", false, "development mode, leaks verification codes in responses")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	override := func(cfg *config.Config) {
		if *dbPath != "" {
			cfg.DBPath = *dbPath
		}
		if *dev {
			cfg.Dev = true
		}
	}

	_, srv, err := launchpad.New(*configPath, logger, override)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv.Run()
}
