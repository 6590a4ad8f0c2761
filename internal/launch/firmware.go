package launch

import "fmt"

// Firmware is the discovered UEFI blob pair; Vars may be empty.
type Firmware struct {
	Code string
	Vars string
}

// Built-in firmware candidates, most specific first. Discovery is a linear
// scan and the first existing path wins, so a distro-specific location
// overrides a generic one. Profile-supplied candidates are scanned before
// these.
var (
	defaultCodeCandidates = []string{
		"/usr/share/OVMF/OVMF_CODE_4M.fd",
		"/usr/share/OVMF/OVMF_CODE.fd",
		"/usr/share/edk2/x64/OVMF_CODE.4m.fd",
		"/usr/share/edk2/x64/OVMF_CODE.fd",
		"/usr/share/edk2/ovmf/OVMF_CODE.fd",
		"/usr/share/qemu/OVMF_CODE.fd",
		"/usr/share/qemu/ovmf-x86_64-code.bin",
	}
	defaultVarsCandidates = []string{
		"/usr/share/OVMF/OVMF_VARS_4M.fd",
		"/usr/share/OVMF/OVMF_VARS.fd",
		"/usr/share/edk2/x64/OVMF_VARS.4m.fd",
		"/usr/share/edk2/x64/OVMF_VARS.fd",
		"/usr/share/edk2/ovmf/OVMF_VARS.fd",
		"/usr/share/qemu/OVMF_VARS.fd",
		"/usr/share/qemu/ovmf-x86_64-vars.bin",
	}
)

func (p *Planner) discoverFirmware(opts Options) (Firmware, error) {
	code, ok := p.firstExisting(append(append([]string{}, opts.FirmwareCodePaths...), defaultCodeCandidates...))
	if !ok {
		return Firmware{}, fmt.Errorf("%w: install an OVMF/edk2 package or point the launch profile at a firmware code blob",
			ErrMissingFirmware)
	}
	// optional; a missing vars blob just means no persistent NVRAM
	vars, _ := p.firstExisting(append(append([]string{}, opts.FirmwareVarsPaths...), defaultVarsCandidates...))
	return Firmware{Code: code, Vars: vars}, nil
}

func (p *Planner) firstExisting(candidates []string) (string, bool) {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := p.stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
