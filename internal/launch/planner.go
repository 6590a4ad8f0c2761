package launch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

// State names the planner's position; Error(kind) is carried by the kinded
// sentinel errors below rather than a dedicated state value.
type State string

const (
	StateModeSelect       State = "mode-select"
	StateImageValidate    State = "image-validate"
	StateFirmwareDiscover State = "firmware-discover"
	StateAccelSelect      State = "accel-select"
	StateGraphicsSelect   State = "graphics-select"
	StateReady            State = "ready"
)

var (
	// ErrNotImplemented signals a mode the launcher knows about but does
	// not support yet. Deliberately an error, never a crash.
	ErrNotImplemented = errors.New("launch: bios boot is not implemented")
	// ErrUnknownMode signals a mode string outside {uefi, bios}.
	ErrUnknownMode = errors.New("launch: unknown boot mode")
	// ErrUnknownAccel signals an accelerator outside {auto, kvm, tcg}.
	ErrUnknownAccel = errors.New("launch: unknown accelerator")
	// ErrMissingImage signals an absent boot image.
	ErrMissingImage = errors.New("launch: boot image not found")
	// ErrMissingFirmware signals that no firmware code blob was found.
	ErrMissingFirmware = errors.New("launch: uefi firmware code not found")
)

// Plan is the immutable launch configuration produced by a successful walk
// to Ready. FirmwareVars is empty when no variables blob was discovered.
type Plan struct {
	Mode         Mode
	ImagePath    string
	FirmwareCode string
	FirmwareVars string
	Accel        Accel
	Graphics     Graphics
	Machine      string
	Memory       string
	CPUs         int
	DebugHalt    bool
}

// Planner resolves Options into a Plan. The stat and probe seams exist so
// tests can plan without touching the host filesystem or /dev/kvm.
type Planner struct {
	stat     func(string) (fs.FileInfo, error)
	probeKVM func() bool
}

// NewPlanner returns a planner bound to the host filesystem.
func NewPlanner() *Planner {
	return &Planner{stat: os.Stat, probeKVM: probeKVM}
}

// Plan walks ModeSelect -> ImageValidate -> FirmwareDiscover -> AccelSelect
// -> GraphicsSelect -> Ready, stopping at the first failed stage.
func (p *Planner) Plan(opts Options) (Plan, error) {
	// ModeSelect: uefi is the only implemented mode.
	switch opts.Mode {
	case ModeUEFI:
	case ModeBIOS:
		return Plan{}, fmt.Errorf("%w: rerun with --uefi", ErrNotImplemented)
	default:
		return Plan{}, fmt.Errorf("%w: %q (expected uefi or bios)", ErrUnknownMode, opts.Mode)
	}

	// ImageValidate: the image must exist before firmware discovery runs.
	if _, err := p.stat(opts.ImagePath); err != nil {
		return Plan{}, fmt.Errorf("%w: %s (run the image build step first, e.g. `make image`)",
			ErrMissingImage, opts.ImagePath)
	}

	// FirmwareDiscover: uefi needs a code blob; a vars blob is optional.
	fw, err := p.discoverFirmware(opts)
	if err != nil {
		return Plan{}, err
	}

	// AccelSelect: auto probes for KVM; explicit choices are used verbatim
	// without availability validation.
	accel := opts.Accel
	switch accel {
	case AccelAuto:
		if p.probeKVM() {
			accel = AccelKVM
		} else {
			accel = AccelTCG
		}
		log.Debug().Str("accel", string(accel)).Msg("accelerator probed")
	case AccelKVM, AccelTCG:
	default:
		return Plan{}, fmt.Errorf("%w: %q (expected auto, kvm, or tcg)", ErrUnknownAccel, accel)
	}

	// GraphicsSelect: none means headless, anything else a window.
	graphics := GraphicsSDL
	if opts.Graphics == GraphicsNone {
		graphics = GraphicsNone
	}

	plan := Plan{
		Mode:         opts.Mode,
		ImagePath:    opts.ImagePath,
		FirmwareCode: fw.Code,
		FirmwareVars: fw.Vars,
		Accel:        accel,
		Graphics:     graphics,
		Machine:      opts.Machine,
		Memory:       opts.Memory,
		CPUs:         opts.CPUs,
		DebugHalt:    opts.DebugHalt,
	}
	log.Debug().
		Str("image", plan.ImagePath).
		Str("firmware_code", plan.FirmwareCode).
		Str("accel", string(plan.Accel)).
		Msg("launch plan ready")
	return plan, nil
}

// probeKVM reports whether hardware-assisted virtualization is usable by
// opening the KVM device for read/write.
func probeKVM() bool {
	f, err := os.OpenFile("/dev/kvm", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
