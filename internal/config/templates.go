package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns a starter document for the given kind.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "profile":
		return profileTemplate, nil
	case "manifest":
		return manifestTemplate, nil
	case "study":
		return studyTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

// WriteTemplate writes the starter document unless one already exists.
func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const profileTemplate = `image = "build/asteria.img"
memory = "512M"
cpus = 2
machine = "q35"
graphics = "sdl"
accel = "auto"
mode = "uefi"

# extra firmware candidates scanned before the built-in locations
firmware_code = []
firmware_vars = []
`

const manifestTemplate = `{
  "weld_id": "ss1m_block_collapse_v1",
  "tol": 0.005,
  "residual": 0.0,
  "seed": 3021,
  "manifest_sha256": ""
}
`

const studyTemplate = `{
  "omega_gates": {"stable": 0.038, "collapse": 0.30},
  "C_ref": 0.18,
  "Ilow": 0.594,
  "notes": "canonical collapse block thresholds"
}
`
