// Package ledger keeps the append-only history of governance reports as a
// single JSON array on disk. One writer per file: the audit CLI runs the
// two pipelines sequentially and nothing else touches the ledger.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/asteria-os/asterctl/internal/gate"
)

// ErrCorrupt reports a ledger file that is no longer a JSON array of reports.
var ErrCorrupt = errors.New("ledger: corrupt ledger file")

// Append reads the existing ledger (if any), appends the report, and
// rewrites the whole file indented.
func Append(path string, report gate.Report) error {
	entries, err := Read(path)
	if err != nil {
		return err
	}
	entries = append(entries, report)
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("ledger: write %s: %w", path, err)
	}
	return nil
}

// Read returns all recorded reports; a missing ledger is an empty one.
func Read(path string) ([]gate.Report, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", path, err)
	}
	var entries []gate.Report
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return entries, nil
}
