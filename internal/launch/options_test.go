package launch

import (
	"testing"
)

func TestSnapshotOnlyHonoredVariables(t *testing.T) {
	env := map[string]string{
		"IMG":   "custom.img",
		"CPUS":  "4",
		"PATH":  "/usr/bin",
		"SHELL": "/bin/sh",
	}
	snap := Snapshot(func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})
	if len(snap) != 2 {
		t.Fatalf("snapshot = %v, want IMG and CPUS only", snap)
	}
	if snap["IMG"] != "custom.img" || snap["CPUS"] != "4" {
		t.Fatalf("snapshot = %v", snap)
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	opts, err := ApplyEnv(DefaultOptions(), map[string]string{
		"IMG":      "other.img",
		"MEM":      "1G",
		"CPUS":     "4",
		"GRAPHICS": "none",
		"GDB":      "1",
		"MODE":     "UEFI",
		"ACCEL":    "tcg",
		"MACHINE":  "pc",
	})
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if opts.ImagePath != "other.img" || opts.Memory != "1G" || opts.CPUs != 4 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.Graphics != GraphicsNone || !opts.DebugHalt {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.Mode != ModeUEFI || opts.Accel != AccelTCG || opts.Machine != "pc" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestApplyEnvKeepsUnsetDefaults(t *testing.T) {
	opts, err := ApplyEnv(DefaultOptions(), map[string]string{"MEM": "1G"})
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	def := DefaultOptions()
	if opts.ImagePath != def.ImagePath || opts.CPUs != def.CPUs || opts.Mode != def.Mode {
		t.Fatalf("defaults clobbered: %+v", opts)
	}
	if opts.Memory != "1G" {
		t.Fatalf("memory = %q", opts.Memory)
	}
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	if _, err := ApplyEnv(DefaultOptions(), map[string]string{"CPUS": "many"}); err == nil {
		t.Fatal("expected error for non-numeric CPUS")
	}
	if _, err := ApplyEnv(DefaultOptions(), map[string]string{"CPUS": "0"}); err == nil {
		t.Fatal("expected error for zero CPUS")
	}
	if _, err := ApplyEnv(DefaultOptions(), map[string]string{"GDB": "maybe"}); err == nil {
		t.Fatal("expected error for non-boolean GDB")
	}
}
