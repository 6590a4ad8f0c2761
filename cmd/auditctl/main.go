package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/asteria-os/asterctl/internal/gate"
	"github.com/asteria-os/asterctl/internal/ledger"
	"github.com/asteria-os/asterctl/internal/manifest"
	"github.com/asteria-os/asterctl/internal/observability"
	"github.com/asteria-os/asterctl/internal/telemetry"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type auditArgs struct {
	manifestPath  string
	constantsPath string
	kappa         float64
	omega         float64
	artifactPath  string
	ledgerPath    string
	noLedger      bool
}

func main() {
	observability.InitLogger("auditctl")
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(argv []string, out io.Writer) int {
	args, err := parseArgs(argv)
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			log.Error().Err(err).Msg("invalid invocation")
		}
		return exitUsage
	}

	report, err := audit(args)
	if err != nil {
		log.Error().Err(err).Msg("audit failed")
		return exitFail
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error().Err(err).Msg("encode report")
		return exitFail
	}
	if report.Overall == gate.StatusFail {
		return exitFail
	}
	return exitOK
}

func parseArgs(argv []string) (auditArgs, error) {
	fs := pflag.NewFlagSet("auditctl", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(os.Stderr)

	var args auditArgs
	fs.StringVar(&args.manifestPath, "manifest", "repro_manifest.json", "run manifest path")
	fs.StringVar(&args.constantsPath, "constants", "study_constants.json", "study constants path")
	fs.Float64Var(&args.kappa, "kappa", 0, "log-integrity for this evaluation")
	fs.Float64Var(&args.omega, "omega", 0, "drift for this evaluation")
	fs.StringVar(&args.artifactPath, "artifact", "", "hash artifact path (default: manifest path + .sha256)")
	fs.StringVar(&args.ledgerPath, "ledger", "ledger.json", "governance ledger path")
	fs.BoolVar(&args.noLedger, "no-ledger", false, "skip the ledger append")

	if err := fs.Parse(argv); err != nil {
		return auditArgs{}, err
	}
	if fs.NArg() > 0 {
		return auditArgs{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if args.artifactPath == "" {
		args.artifactPath = args.manifestPath + ".sha256"
	}
	return args, nil
}

// audit runs the governance pipeline: load both documents, hash the
// manifest bytes, derive the sample, evaluate every gate, persist the
// artifact and the ledger entry.
func audit(args auditArgs) (gate.Report, error) {
	started := time.Now()

	m, err := manifest.LoadRun(args.manifestPath)
	if err != nil {
		return gate.Report{}, err
	}
	constants, err := manifest.LoadStudy(args.constantsPath)
	if err != nil {
		return gate.Report{}, err
	}

	digest, err := manifest.Digest(args.manifestPath)
	if err != nil {
		return gate.Report{}, err
	}
	if err := manifest.WriteArtifact(digest, args.artifactPath); err != nil {
		return gate.Report{}, err
	}
	log.Info().Str("digest", digest).Str("artifact", args.artifactPath).Msg("manifest hashed")

	sample, err := telemetry.NewSample(args.kappa, args.omega, m.Residual, m.Tol)
	if err != nil {
		return gate.Report{}, err
	}
	verdicts, err := gate.Evaluate(sample, constants)
	if err != nil {
		return gate.Report{}, err
	}
	for _, v := range verdicts {
		observability.RecordVerdict(v.Gate, string(v.Status))
		log.Info().
			Str("gate", v.Gate).
			Float64("observed", v.Observed).
			Float64("threshold", v.Threshold).
			Str("status", string(v.Status)).
			Msg("gate evaluated")
	}

	report := gate.NewReport(m, digest, sample, verdicts)
	observability.RecordEvaluation(string(report.Overall), time.Since(started))

	if !args.noLedger {
		if err := ledger.Append(args.ledgerPath, report); err != nil {
			return gate.Report{}, err
		}
		log.Info().Str("ledger", args.ledgerPath).Msg("ledger appended")
	}
	return report, nil
}
