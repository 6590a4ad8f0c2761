// Package config loads the optional launch profile: a TOML file carrying
// site-local launch defaults so invocations don't need to repeat flags.
// Precedence stays profile < environment < flags; the profile only fills
// the bottom layer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/asteria-os/asterctl/internal/launch"
)

// DefaultProfilePath is probed when --profile is not given.
const DefaultProfilePath = "asterctl.toml"

// Profile mirrors the launch profile file. Only keys present in the file
// override the built-in defaults.
type Profile struct {
	Image        string   `toml:"image"`
	Memory       string   `toml:"memory"`
	CPUs         int      `toml:"cpus"`
	Machine      string   `toml:"machine"`
	Graphics     string   `toml:"graphics"`
	Accel        string   `toml:"accel"`
	Mode         string   `toml:"mode"`
	FirmwareCode []string `toml:"firmware_code"`
	FirmwareVars []string `toml:"firmware_vars"`

	meta toml.MetaData
}

// LoadProfile reads the profile at path. A missing file is not an error:
// the profile is optional and ok reports whether one was found.
func LoadProfile(path string) (Profile, bool, error) {
	var p Profile
	meta, err := toml.DecodeFile(path, &p)
	if errors.Is(err, fs.ErrNotExist) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, fmt.Errorf("config: load profile %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Profile{}, false, fmt.Errorf("config: profile %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("cpus") && p.CPUs < 1 {
		return Profile{}, false, fmt.Errorf("config: profile %s: cpus must be positive, got %d", path, p.CPUs)
	}
	p.meta = meta
	return p, true, nil
}

// Apply overlays the profile's defined keys on base.
func (p Profile) Apply(base launch.Options) launch.Options {
	opts := base
	if p.meta.IsDefined("image") {
		opts.ImagePath = p.Image
	}
	if p.meta.IsDefined("memory") {
		opts.Memory = p.Memory
	}
	if p.meta.IsDefined("cpus") {
		opts.CPUs = p.CPUs
	}
	if p.meta.IsDefined("machine") {
		opts.Machine = p.Machine
	}
	if p.meta.IsDefined("graphics") {
		opts.Graphics = launch.Graphics(p.Graphics)
	}
	if p.meta.IsDefined("accel") {
		opts.Accel = launch.Accel(strings.ToLower(p.Accel))
	}
	if p.meta.IsDefined("mode") {
		opts.Mode = launch.Mode(strings.ToLower(p.Mode))
	}
	if len(p.FirmwareCode) > 0 {
		opts.FirmwareCodePaths = append(append([]string{}, p.FirmwareCode...), opts.FirmwareCodePaths...)
	}
	if len(p.FirmwareVars) > 0 {
		opts.FirmwareVarsPaths = append(append([]string{}, p.FirmwareVars...), opts.FirmwareVarsPaths...)
	}
	return opts
}
