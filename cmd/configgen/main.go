package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/asteria-os/asterctl/internal/config"
	"github.com/asteria-os/asterctl/internal/manifest"
	"github.com/asteria-os/asterctl/internal/observability"
)

func defaultPath(kind string) (string, error) {
	switch kind {
	case "profile":
		return config.DefaultProfilePath, nil
	case "manifest":
		return "repro_manifest.json", nil
	case "study":
		return "study_constants.json", nil
	default:
		return "", fmt.Errorf("unknown kind: %s", kind)
	}
}

func validate(kind, path string) error {
	switch kind {
	case "profile":
		_, found, err := config.LoadProfile(path)
		if err == nil && !found {
			return fmt.Errorf("no profile at %s", path)
		}
		return err
	case "manifest":
		_, err := manifest.LoadRun(path)
		return err
	case "study":
		_, err := manifest.LoadStudy(path)
		return err
	default:
		return fmt.Errorf("unknown kind: %s", kind)
	}
}

func main() {
	observability.InitLogger("configgen")

	fs := pflag.NewFlagSet("configgen", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(os.Stderr)
	kind := fs.String("kind", "profile", "document kind: profile|manifest|study")
	output := fs.String("output", "", "output path for the starter document")
	check := fs.Bool("validate", false, "validate an existing document instead of writing one")
	input := fs.String("input", "", "document path for validation (defaults to the per-kind path)")
	force := fs.Bool("force", false, "overwrite an existing document")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if *check {
		path := *input
		if path == "" {
			var err error
			if path, err = defaultPath(*kind); err != nil {
				log.Fatal().Err(err).Msg("validate")
			}
		}
		if err := validate(*kind, path); err != nil {
			log.Fatal().Err(err).Msg("validate")
		}
		log.Info().Str("kind", *kind).Str("path", path).Msg("document valid")
		return
	}

	target := *output
	if target == "" {
		var err error
		if target, err = defaultPath(*kind); err != nil {
			log.Fatal().Err(err).Msg("generate")
		}
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal().Err(err).Msg("generate")
	}
	log.Info().Str("kind", *kind).Str("path", target).Msg("starter document written")
}
