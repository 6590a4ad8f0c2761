// Package gate compares telemetry samples against the configured study
// thresholds and produces the governance report.
package gate

import (
	"fmt"

	"github.com/asteria-os/asterctl/internal/manifest"
	"github.com/asteria-os/asterctl/internal/telemetry"
)

// Status is one gate outcome.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Gate names, in the order they are evaluated and reported.
const (
	GateOmegaStable       = "omega-stable"
	GateIntegrityLowBound = "integrity-low-bound"
	GateWeldOK            = "weld-ok"
)

// Verdict is the outcome of one gate: the observed value, the threshold it
// was decided against, and the resulting status.
type Verdict struct {
	Gate      string  `json:"gate"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
	Status    Status  `json:"status"`
}

// Evaluate runs every configured gate over the sample, in declaration
// order, and never short-circuits: a failing gate still leaves the later
// verdicts in the report.
func Evaluate(sample telemetry.Sample, constants manifest.StudyConstants) ([]Verdict, error) {
	omega := Verdict{Gate: GateOmegaStable, Observed: sample.Omega}
	switch {
	case sample.Omega <= constants.OmegaGates.Stable:
		omega.Threshold = constants.OmegaGates.Stable
		omega.Status = StatusPass
	case sample.Omega <= constants.OmegaGates.Collapse:
		omega.Threshold = constants.OmegaGates.Collapse
		omega.Status = StatusWarn
	default:
		omega.Threshold = constants.OmegaGates.Collapse
		omega.Status = StatusFail
	}

	low := Verdict{Gate: GateIntegrityLowBound, Observed: sample.I, Threshold: constants.Ilow}
	if sample.I >= constants.Ilow {
		low.Status = StatusPass
	} else {
		low.Status = StatusFail
	}

	ok, err := telemetry.WeldOK(sample.Weld.Residual, sample.Weld.Tol)
	if err != nil {
		return nil, fmt.Errorf("gate %s: %w", GateWeldOK, err)
	}
	weld := Verdict{Gate: GateWeldOK, Observed: sample.Weld.Residual, Threshold: sample.Weld.Tol}
	if ok {
		weld.Status = StatusPass
	} else {
		weld.Status = StatusFail
	}

	return []Verdict{omega, low, weld}, nil
}

// Overall folds the verdicts into a single status; fail dominates warn,
// warn dominates pass.
func Overall(verdicts []Verdict) Status {
	overall := StatusPass
	for _, v := range verdicts {
		switch v.Status {
		case StatusFail:
			return StatusFail
		case StatusWarn:
			overall = StatusWarn
		}
	}
	return overall
}
