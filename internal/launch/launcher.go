package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"
)

// DefaultEngine is the virtualization engine binary.
const DefaultEngine = "qemu-system-x86_64"

// Runner performs the actual process hand-off. The indirection mirrors the
// command-runner seam used elsewhere in this codebase so tests can capture
// the assembled invocation without starting QEMU.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (int, error)
}

// StdioRunner spawns the engine with the orchestrator's own standard I/O,
// forwards interrupt/terminate signals to the child, awaits exit, and
// reports the child's exit status. Spawn-and-await is used instead of
// process replacement so the NVRAM cleanup deferred by the launcher runs.
type StdioRunner struct{}

func (StdioRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("launch: start %s: %w", name, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)
	signal.Stop(sigCh)
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("launch: await %s: %w", name, err)
}

// Launcher materializes a Plan into a running engine process.
type Launcher struct {
	Engine  string
	Runner  Runner
	TempDir string // "" means the system temp dir
}

// NewLauncher returns a launcher bound to the real engine and stdio.
func NewLauncher() *Launcher {
	return &Launcher{Engine: DefaultEngine, Runner: StdioRunner{}}
}

// Launch stages mutable firmware state, assembles the engine invocation,
// and hands control to the runner. The hand-off is one-way: there is no
// supervised restart, only the child's exit status coming back. The staged
// NVRAM copy is removed on every return path.
func (l *Launcher) Launch(ctx context.Context, plan Plan) (int, error) {
	varsPath := ""
	if plan.FirmwareVars != "" {
		staged, err := stageVars(plan.FirmwareVars, l.TempDir)
		if err != nil {
			return -1, err
		}
		defer os.Remove(staged)
		varsPath = staged
		log.Debug().Str("vars", plan.FirmwareVars).Str("staged", staged).Msg("nvram staged")
	}

	args := engineArgs(plan, varsPath)
	log.Info().Str("engine", l.Engine).Strs("args", args).Msg("handing off to virtualization engine")
	return l.Runner.Run(ctx, l.Engine, args)
}

// stageVars copies the shared firmware variables blob to a private
// temporary file so NVRAM writes during the run never touch the
// system-installed copy.
func stageVars(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("launch: open nvram template %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dir, "asterctl-ovmf-vars-*.fd")
	if err != nil {
		return "", fmt.Errorf("launch: stage nvram: %w", err)
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("launch: stage nvram: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("launch: stage nvram: %w", err)
	}
	return tmp.Name(), nil
}

// engineArgs assembles the QEMU argv for the plan. varsPath is the staged
// NVRAM copy, or empty when no variables blob was discovered.
func engineArgs(plan Plan, varsPath string) []string {
	args := []string{
		"-machine", plan.Machine,
		"-m", plan.Memory,
		"-smp", strconv.Itoa(plan.CPUs),
		"-accel", string(plan.Accel),
		"-drive", "if=pflash,format=raw,readonly=on,file=" + plan.FirmwareCode,
	}
	if varsPath != "" {
		args = append(args, "-drive", "if=pflash,format=raw,file="+varsPath)
	}
	args = append(args, "-drive", "format=raw,file="+plan.ImagePath)
	if plan.Graphics == GraphicsNone {
		args = append(args, "-nographic")
	} else {
		args = append(args, "-display", "sdl", "-serial", "stdio")
	}
	if plan.DebugHalt {
		// halted, awaiting a remote debugger on the default gdb port
		args = append(args, "-S", "-s")
	}
	return args
}
