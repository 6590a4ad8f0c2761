package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/asteria-os/asterctl/internal/observability"
)

func main() {
	logger := observability.InitLogger("hudctl")

	fs := pflag.NewFlagSet("hudctl", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(os.Stderr)
	cfg := hudConfig{}
	fs.StringVar(&cfg.addr, "addr", ":9090", "listen address")
	fs.StringVar(&cfg.manifestPath, "manifest", "repro_manifest.json", "run manifest path")
	fs.StringVar(&cfg.constantsPath, "constants", "study_constants.json", "study constants path")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	observability.RegisterMetrics()
	router := newRouter(cfg, logger)
	log.Info().Str("addr", cfg.addr).Msg("hud service listening")
	if err := router.Run(cfg.addr); err != nil {
		log.Fatal().Err(err).Msg("hud service stopped")
	}
}
