package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/asteria-os/asterctl/internal/launch"
)

func TestBuildOptionsDefaults(t *testing.T) {
	opts, err := buildOptions(nil, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	def := launch.DefaultOptions()
	if opts.ImagePath != def.ImagePath || opts.Mode != def.Mode || opts.CPUs != def.CPUs {
		t.Fatalf("options = %+v, want defaults", opts)
	}
}

func TestBuildOptionsFlagBeatsEnv(t *testing.T) {
	env := map[string]string{"IMG": "env.img", "MEM": "1G", "CPUS": "8"}
	opts, err := buildOptions([]string{"--img", "flag.img", "--cpus", "4"}, env)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if opts.ImagePath != "flag.img" {
		t.Fatalf("image = %q, want flag override", opts.ImagePath)
	}
	if opts.CPUs != 4 {
		t.Fatalf("cpus = %d, want flag override", opts.CPUs)
	}
	if opts.Memory != "1G" {
		t.Fatalf("memory = %q, want env value", opts.Memory)
	}
}

func TestBuildOptionsProfileBelowEnv(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "asterctl.toml")
	if err := os.WriteFile(profile, []byte("memory = \"2G\"\nimage = \"profile.img\"\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	env := map[string]string{"MEM": "4G"}
	opts, err := buildOptions([]string{"--profile", profile}, env)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if opts.Memory != "4G" {
		t.Fatalf("memory = %q, want env above profile", opts.Memory)
	}
	if opts.ImagePath != "profile.img" {
		t.Fatalf("image = %q, want profile value", opts.ImagePath)
	}
}

func TestBuildOptionsModeAndGraphicsFlags(t *testing.T) {
	opts, err := buildOptions([]string{"--bios", "--nographic", "--gdb", "--accel", "tcg"}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if opts.Mode != launch.ModeBIOS {
		t.Fatalf("mode = %s", opts.Mode)
	}
	if opts.Graphics != launch.GraphicsNone || !opts.DebugHalt || opts.Accel != launch.AccelTCG {
		t.Fatalf("options = %+v", opts)
	}
}

func TestBuildOptionsRejectsConflictsAndStrays(t *testing.T) {
	if _, err := buildOptions([]string{"--uefi", "--bios"}, nil); err == nil {
		t.Fatal("expected conflict error for --uefi --bios")
	}
	if _, err := buildOptions([]string{"--nographic", "--sdl"}, nil); err == nil {
		t.Fatal("expected conflict error for --nographic --sdl")
	}
	if _, err := buildOptions([]string{"stray"}, nil); err == nil {
		t.Fatal("expected error for stray argument")
	}
	if _, err := buildOptions([]string{"--wat"}, nil); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestBuildOptionsHelp(t *testing.T) {
	_, err := buildOptions([]string{"--help"}, nil)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("want pflag.ErrHelp, got %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{launch.ErrMissingImage, exitMissing},
		{launch.ErrMissingFirmware, exitMissing},
		{launch.ErrNotImplemented, exitUsage},
		{launch.ErrUnknownMode, exitUsage},
		{launch.ErrUnknownAccel, exitUsage},
		{errors.New("anything else"), exitMissing},
	}
	for _, tc := range cases {
		if got := exitCodeFor(tc.err); got != tc.want {
			t.Fatalf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRunBIOSModeExitsUsage(t *testing.T) {
	if got := run([]string{"--bios"}, nil); got != exitUsage {
		t.Fatalf("run --bios = %d, want %d", got, exitUsage)
	}
}

func TestRunMissingImageExitsOne(t *testing.T) {
	img := filepath.Join(t.TempDir(), "absent.img")
	if got := run([]string{"--img", img}, nil); got != exitMissing {
		t.Fatalf("run with absent image = %d, want %d", got, exitMissing)
	}
}
