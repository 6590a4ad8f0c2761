package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/asteria-os/asterctl/internal/config"
	"github.com/asteria-os/asterctl/internal/launch"
)

// buildOptions assembles the launch options for one invocation. Precedence,
// lowest first: built-in defaults, launch profile, environment snapshot,
// flags. The merge is a pure fold over those layers; nothing global.
func buildOptions(args []string, env map[string]string) (launch.Options, error) {
	fs := pflag.NewFlagSet("asterctl", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: asterctl [flags]\n\nflags:\n%s\nenvironment defaults: %v\n",
			fs.FlagUsages(), launch.EnvNames)
	}

	img := fs.String("img", "", "boot disk image path")
	mem := fs.String("mem", "", "guest memory size, e.g. 512M")
	cpus := fs.Int("cpus", 0, "guest cpu count")
	nographic := fs.Bool("nographic", false, "headless: console on stdio, no display")
	sdl := fs.Bool("sdl", false, "graphical SDL display")
	gdb := fs.Bool("gdb", false, "start halted, awaiting gdb on the default port")
	uefi := fs.Bool("uefi", false, "uefi boot (default)")
	bios := fs.Bool("bios", false, "legacy bios boot")
	machine := fs.String("machine", "", "machine type, e.g. q35")
	accel := fs.String("accel", "", "accelerator: auto|kvm|tcg")
	profilePath := fs.String("profile", config.DefaultProfilePath, "launch profile path")

	if err := fs.Parse(args); err != nil {
		return launch.Options{}, err
	}
	if fs.NArg() > 0 {
		return launch.Options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if *uefi && *bios {
		return launch.Options{}, fmt.Errorf("--uefi and --bios are mutually exclusive")
	}
	if *nographic && *sdl {
		return launch.Options{}, fmt.Errorf("--nographic and --sdl are mutually exclusive")
	}

	opts := launch.DefaultOptions()

	profile, found, err := config.LoadProfile(*profilePath)
	if err != nil {
		return launch.Options{}, err
	}
	if found {
		opts = profile.Apply(opts)
	}

	opts, err = launch.ApplyEnv(opts, env)
	if err != nil {
		return launch.Options{}, err
	}

	if fs.Changed("img") {
		opts.ImagePath = *img
	}
	if fs.Changed("mem") {
		opts.Memory = *mem
	}
	if fs.Changed("cpus") {
		if *cpus < 1 {
			return launch.Options{}, fmt.Errorf("--cpus must be positive, got %d", *cpus)
		}
		opts.CPUs = *cpus
	}
	if *nographic {
		opts.Graphics = launch.GraphicsNone
	}
	if *sdl {
		opts.Graphics = launch.GraphicsSDL
	}
	if *gdb {
		opts.DebugHalt = true
	}
	if *uefi {
		opts.Mode = launch.ModeUEFI
	}
	if *bios {
		opts.Mode = launch.ModeBIOS
	}
	if fs.Changed("machine") {
		opts.Machine = *machine
	}
	if fs.Changed("accel") {
		opts.Accel = launch.Accel(strings.ToLower(*accel))
	}
	return opts, nil
}
