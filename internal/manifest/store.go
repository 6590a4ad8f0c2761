// Package manifest loads and verifies the governance documents that bind a
// run to its declared configuration: the run manifest and the study
// constants. Loaded documents are returned by value and never mutated.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrParse reports a document that is not well-formed JSON.
	ErrParse = errors.New("manifest: parse error")
	// ErrSchema reports a missing, mistyped, or out-of-range required field.
	ErrSchema = errors.New("manifest: schema error")
)

// RunManifest binds one run to its weld identity, tolerance, and seed.
type RunManifest struct {
	WeldID         string  `json:"weld_id"`
	Tol            float64 `json:"tol"`
	Residual       float64 `json:"residual"`
	Seed           int64   `json:"seed"`
	ManifestSHA256 string  `json:"manifest_sha256"`
}

// OmegaGates holds the drift thresholds; Stable must stay below Collapse.
type OmegaGates struct {
	Stable   float64 `json:"stable"`
	Collapse float64 `json:"collapse"`
}

// StudyConstants holds the gate thresholds shared across runs.
type StudyConstants struct {
	OmegaGates OmegaGates `json:"omega_gates"`
	CRef       float64    `json:"C_ref"`
	Ilow       float64    `json:"Ilow"`
	Notes      string     `json:"notes"`
}

// LoadRun reads and validates a run manifest document.
func LoadRun(path string) (RunManifest, error) {
	raw, err := readObject(path)
	if err != nil {
		return RunManifest{}, err
	}
	var m RunManifest
	if err := requireFields(path, raw, map[string]any{
		"weld_id":         &m.WeldID,
		"tol":             &m.Tol,
		"residual":        &m.Residual,
		"seed":            &m.Seed,
		"manifest_sha256": &m.ManifestSHA256,
	}); err != nil {
		return RunManifest{}, err
	}
	if strings.TrimSpace(m.WeldID) == "" {
		return RunManifest{}, fmt.Errorf("%w: %s: weld_id is empty", ErrSchema, path)
	}
	if m.Tol < 0 {
		return RunManifest{}, fmt.Errorf("%w: %s: tol must be non-negative, got %v", ErrSchema, path, m.Tol)
	}
	if m.Residual < 0 {
		return RunManifest{}, fmt.Errorf("%w: %s: residual must be non-negative, got %v", ErrSchema, path, m.Residual)
	}
	if err := validateDigest(m.ManifestSHA256); err != nil {
		return RunManifest{}, fmt.Errorf("%w: %s: %v", ErrSchema, path, err)
	}
	return m, nil
}

// LoadStudy reads and validates a study constants document.
func LoadStudy(path string) (StudyConstants, error) {
	raw, err := readObject(path)
	if err != nil {
		return StudyConstants{}, err
	}
	var c StudyConstants
	if err := requireFields(path, raw, map[string]any{
		"omega_gates": &c.OmegaGates,
		"C_ref":       &c.CRef,
		"Ilow":        &c.Ilow,
		"notes":       &c.Notes,
	}); err != nil {
		return StudyConstants{}, err
	}
	if c.OmegaGates.Stable >= c.OmegaGates.Collapse {
		return StudyConstants{}, fmt.Errorf("%w: %s: omega_gates.stable (%v) must be below omega_gates.collapse (%v)",
			ErrSchema, path, c.OmegaGates.Stable, c.OmegaGates.Collapse)
	}
	return c, nil
}

func readObject(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return raw, nil
}

// requireFields decodes every required field, rejecting absent keys so that
// zero values are never mistaken for missing ones, and rejecting keys the
// schema does not know.
func requireFields(path string, raw map[string]json.RawMessage, fields map[string]any) error {
	for name, dst := range fields {
		val, ok := raw[name]
		if !ok {
			return fmt.Errorf("%w: %s: missing required field %q", ErrSchema, path, name)
		}
		dec := json.NewDecoder(strings.NewReader(string(val)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: %s: field %q: %v", ErrSchema, path, name, err)
		}
	}
	for name := range raw {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("%w: %s: unknown field %q", ErrSchema, path, name)
		}
	}
	return nil
}

// validateDigest accepts an empty digest (pre-hash manifests) or a 64-char
// lowercase hex string.
func validateDigest(digest string) error {
	if digest == "" {
		return nil
	}
	if len(digest) != 64 {
		return fmt.Errorf("manifest_sha256 must be 64 hex characters, got %d", len(digest))
	}
	for _, r := range digest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return fmt.Errorf("manifest_sha256 contains non-hex character %q", r)
		}
	}
	return nil
}
