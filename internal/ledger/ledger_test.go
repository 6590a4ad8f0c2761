package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/asteria-os/asterctl/internal/gate"
)

func report(weldID string, overall gate.Status) gate.Report {
	return gate.Report{
		WeldID:  weldID,
		Seed:    3021,
		Overall: overall,
		Verdicts: []gate.Verdict{
			{Gate: gate.GateOmegaStable, Observed: 0.02, Threshold: 0.038, Status: gate.StatusPass},
		},
	}
}

func TestAppendCreatesThenExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	if err := Append(path, report("weld-1", gate.StatusPass)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := Append(path, report("weld-2", gate.StatusWarn)); err != nil {
		t.Fatalf("second append: %v", err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].WeldID != "weld-1" || entries[1].WeldID != "weld-2" {
		t.Fatalf("entries out of order: %+v", entries)
	}
	if entries[1].Overall != gate.StatusWarn {
		t.Fatalf("overall = %s, want warn", entries[1].Overall)
	}
}

func TestReadMissingLedgerIsEmpty(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("read missing: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %+v, want none", entries)
	}
}

func TestAppendRejectsCorruptLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644); err != nil {
		t.Fatalf("seed corrupt ledger: %v", err)
	}
	if err := Append(path, report("weld-1", gate.StatusPass)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("want ErrCorrupt, got %v", err)
	}
}
