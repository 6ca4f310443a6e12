package main

import (
	"flag"
	"fmt"
	"os"

	"AstroCore/internal/di"
	"AstroCore/pkg/config"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	checkOnly := flag.Bool("check-config", false, "validate the config and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}
	if err := run(*configPath, *checkOnly); err != nil {
		fmt.Fprintf(os.Stderr, "astrocore: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, checkOnly bool) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if checkOnly {
		fmt.Printf("config ok: env=%s engine=%s cache=%s storage=%s kafka=%t\n",
			cfg.Environment, cfg.Engine.Type, cfg.Cache.Type, cfg.Storage.Type, cfg.Kafka.Enabled)
		return nil
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	// blocks until SIGINT or SIGTERM
	return app.Run()
}
