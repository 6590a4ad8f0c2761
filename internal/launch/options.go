// Package launch plans and performs the hand-off to the virtualization
// engine: boot mode resolution, image validation, firmware discovery,
// accelerator selection, and process launch.
package launch

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the requested boot mode.
type Mode string

const (
	ModeUEFI Mode = "uefi"
	ModeBIOS Mode = "bios"
)

// Accel is the requested acceleration backend.
type Accel string

const (
	AccelAuto Accel = "auto"
	AccelKVM  Accel = "kvm"
	AccelTCG  Accel = "tcg"
)

// Graphics selects the display backend; anything other than "none" means a
// graphical window.
type Graphics string

const (
	GraphicsSDL  Graphics = "sdl"
	GraphicsNone Graphics = "none"
)

// Environment variable names honored as flag defaults.
const (
	EnvImage    = "IMG"
	EnvMemory   = "MEM"
	EnvCPUs     = "CPUS"
	EnvGraphics = "GRAPHICS"
	EnvGDB      = "GDB"
	EnvMode     = "MODE"
	EnvAccel    = "ACCEL"
	EnvMachine  = "MACHINE"
)

// EnvNames lists every honored variable, in documentation order.
var EnvNames = []string{EnvImage, EnvMemory, EnvCPUs, EnvGraphics, EnvGDB, EnvMode, EnvAccel, EnvMachine}

// Options are the raw launch inputs before planning. They are assembled
// once per invocation (defaults, then profile, then environment, then
// flags) and handed to the planner; the planner never mutates them.
type Options struct {
	Mode      Mode
	ImagePath string
	Memory    string
	CPUs      int
	Graphics  Graphics
	Accel     Accel
	Machine   string
	DebugHalt bool

	// Extra firmware candidates scanned before the built-in locations.
	FirmwareCodePaths []string
	FirmwareVarsPaths []string
}

// DefaultOptions mirrors the historical launcher defaults.
func DefaultOptions() Options {
	return Options{
		Mode:      ModeUEFI,
		ImagePath: "build/asteria.img",
		Memory:    "512M",
		CPUs:      2,
		Graphics:  GraphicsSDL,
		Accel:     AccelAuto,
		Machine:   "q35",
	}
}

// Snapshot captures the honored environment variables through the supplied
// lookup, usually os.LookupEnv. Only set variables appear in the map.
func Snapshot(lookup func(string) (string, bool)) map[string]string {
	env := make(map[string]string, len(EnvNames))
	for _, name := range EnvNames {
		if v, ok := lookup(name); ok {
			env[name] = v
		}
	}
	return env
}

// ApplyEnv overlays the environment snapshot on base. It is pure: the
// result depends only on its arguments. Malformed numeric or boolean
// values are reported, not silently dropped.
func ApplyEnv(base Options, env map[string]string) (Options, error) {
	opts := base
	if v, ok := env[EnvImage]; ok {
		opts.ImagePath = v
	}
	if v, ok := env[EnvMemory]; ok {
		opts.Memory = v
	}
	if v, ok := env[EnvCPUs]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return Options{}, fmt.Errorf("launch: CPUS must be a positive integer, got %q", v)
		}
		opts.CPUs = n
	}
	if v, ok := env[EnvGraphics]; ok {
		opts.Graphics = Graphics(strings.TrimSpace(v))
	}
	if v, ok := env[EnvGDB]; ok {
		b, err := parseBool(v)
		if err != nil {
			return Options{}, fmt.Errorf("launch: GDB must be a boolean, got %q", v)
		}
		opts.DebugHalt = b
	}
	if v, ok := env[EnvMode]; ok {
		opts.Mode = Mode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := env[EnvAccel]; ok {
		opts.Accel = Accel(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := env[EnvMachine]; ok {
		opts.Machine = strings.TrimSpace(v)
	}
	return opts, nil
}

func parseBool(raw string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(raw))
}
