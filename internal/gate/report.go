package gate

import (
	"time"

	"github.com/asteria-os/asterctl/internal/manifest"
	"github.com/asteria-os/asterctl/internal/telemetry"
)

// Report is one complete governance evaluation, suitable for the ledger
// and the HUD service.
type Report struct {
	WeldID         string           `json:"weld_id"`
	ManifestSHA256 string           `json:"manifest_sha256"`
	Seed           int64            `json:"seed"`
	Sample         telemetry.Sample `json:"sample"`
	Verdicts       []Verdict        `json:"verdicts"`
	Overall        Status           `json:"overall"`
	EvaluatedAt    time.Time        `json:"evaluated_at"`
}

// NewReport assembles the report for one evaluation. The digest is the
// manifest content hash computed for this run, which may differ from the
// manifest_sha256 recorded inside the document before hashing.
func NewReport(m manifest.RunManifest, digest string, sample telemetry.Sample, verdicts []Verdict) Report {
	return Report{
		WeldID:         m.WeldID,
		ManifestSHA256: digest,
		Seed:           m.Seed,
		Sample:         sample,
		Verdicts:       verdicts,
		Overall:        Overall(verdicts),
		EvaluatedAt:    time.Now().UTC(),
	}
}
