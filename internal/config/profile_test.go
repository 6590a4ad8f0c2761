package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asteria-os/asterctl/internal/launch"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "asterctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfileMissingFileIsOptional(t *testing.T) {
	p, ok, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("ok = true for missing profile")
	}
	// zero profile applies nothing
	def := launch.DefaultOptions()
	if got := p.Apply(def); got.ImagePath != def.ImagePath || got.CPUs != def.CPUs {
		t.Fatalf("zero profile changed defaults: %+v", got)
	}
}

func TestLoadProfileAppliesDefinedKeysOnly(t *testing.T) {
	path := writeProfile(t, `
memory = "2G"
cpus = 4
firmware_code = ["/opt/fw/CODE.fd"]
`)
	p, ok, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("profile not found")
	}
	opts := p.Apply(launch.DefaultOptions())
	if opts.Memory != "2G" || opts.CPUs != 4 {
		t.Fatalf("overrides not applied: %+v", opts)
	}
	def := launch.DefaultOptions()
	if opts.ImagePath != def.ImagePath || opts.Machine != def.Machine {
		t.Fatalf("undefined keys clobbered: %+v", opts)
	}
	if len(opts.FirmwareCodePaths) != 1 || opts.FirmwareCodePaths[0] != "/opt/fw/CODE.fd" {
		t.Fatalf("firmware candidates: %+v", opts.FirmwareCodePaths)
	}
}

func TestLoadProfileRejectsUnknownKeys(t *testing.T) {
	path := writeProfile(t, `memroy = "2G"`)
	if _, _, err := LoadProfile(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadProfileRejectsNonPositiveCPUs(t *testing.T) {
	path := writeProfile(t, `cpus = 0`)
	if _, _, err := LoadProfile(path); err == nil {
		t.Fatal("expected error for cpus = 0")
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	dir := t.TempDir()

	profilePath := filepath.Join(dir, "asterctl.toml")
	if err := WriteTemplate(profilePath, "profile", false); err != nil {
		t.Fatalf("write profile template: %v", err)
	}
	if _, ok, err := LoadProfile(profilePath); err != nil || !ok {
		t.Fatalf("template does not load: ok=%v err=%v", ok, err)
	}

	if err := WriteTemplate(profilePath, "profile", false); err == nil {
		t.Fatal("expected refusal to overwrite without force")
	}
	if err := WriteTemplate(profilePath, "profile", true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}

	if _, err := Template("mirage"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
