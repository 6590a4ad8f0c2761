package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/asteria-os/asterctl/internal/launch"
	"github.com/asteria-os/asterctl/internal/observability"
)

const (
	exitOK      = 0
	exitMissing = 1
	exitUsage   = 2
)

func main() {
	observability.InitLogger("asterctl")
	os.Exit(run(os.Args[1:], launch.Snapshot(os.LookupEnv)))
}

func run(args []string, env map[string]string) int {
	opts, err := buildOptions(args, env)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitUsage
		}
		log.Error().Err(err).Msg("invalid invocation")
		return exitUsage
	}

	plan, err := launch.NewPlanner().Plan(opts)
	if err != nil {
		observability.RecordLaunchAttempt(outcomeFor(err))
		log.Error().Err(err).Msg("launch planning failed")
		return exitCodeFor(err)
	}
	observability.RecordLaunchAttempt("handed-off")

	status, err := launch.NewLauncher().Launch(context.Background(), plan)
	if err != nil {
		log.Error().Err(err).Msg("launch failed")
		return exitMissing
	}
	if status != 0 {
		log.Warn().Int("status", status).Msg("virtualization engine exited with nonzero status")
	}
	return status
}

// exitCodeFor maps planner failures onto the documented exit codes:
// 1 for missing artifacts, 2 for bad invocations.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, launch.ErrMissingImage), errors.Is(err, launch.ErrMissingFirmware):
		return exitMissing
	case errors.Is(err, launch.ErrNotImplemented),
		errors.Is(err, launch.ErrUnknownMode),
		errors.Is(err, launch.ErrUnknownAccel):
		return exitUsage
	default:
		return exitMissing
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, launch.ErrMissingImage):
		return "missing-image"
	case errors.Is(err, launch.ErrMissingFirmware):
		return "missing-firmware"
	case errors.Is(err, launch.ErrNotImplemented):
		return "not-implemented"
	case errors.Is(err, launch.ErrUnknownMode):
		return "unknown-mode"
	case errors.Is(err, launch.ErrUnknownAccel):
		return "unknown-accel"
	default:
		return "error"
	}
}
