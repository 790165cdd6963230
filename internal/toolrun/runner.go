// Package toolrun executes the external helper tools the pipeline depends
// on. It normalizes their very different success conventions into two call
// shapes: detection tools encode a result count in the exit status, plain
// tools succeed only on zero.
package toolrun

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"recut/internal/logging"
	"recut/internal/services"
)

// DetectionExitCeiling is the highest exit status a detection tool may
// return while still reporting success. Values at or below it carry the
// number of items found; anything above signals tool failure.
const DetectionExitCeiling = 127

// Tool describes one external command invocation.
type Tool struct {
	Name   string
	Binary string
	Args   []string
}

// Executor abstracts command execution for testability.
type Executor interface {
	// Run starts the command and waits for it, forwarding each output line
	// to onOutput. It returns the process exit code; err is non-nil for
	// failures to start or for abnormal termination without an exit code.
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) (int, error)
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// Runner launches tools and maps their exit statuses onto pipeline errors.
type Runner struct {
	exec   Executor
	logger *slog.Logger
}

// NewRunner constructs a runner that logs tool output at debug level.
func NewRunner(logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		exec:   commandExecutor{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// RunDetection executes a detection-style tool whose exit status doubles as
// its result: statuses up to DetectionExitCeiling report the number of items
// found, higher statuses report failure.
func (r *Runner) RunDetection(ctx context.Context, tool Tool) (int, error) {
	code, err := r.run(ctx, tool)
	if err != nil {
		return 0, err
	}
	if code > DetectionExitCeiling {
		return 0, services.Wrap(services.ErrExternalTool, tool.Name, "run",
			fmt.Sprintf("exit status %d", code), nil)
	}
	return code, nil
}

// RunPlain executes a tool with conventional exit semantics: zero succeeds,
// anything else fails.
func (r *Runner) RunPlain(ctx context.Context, tool Tool) error {
	code, err := r.run(ctx, tool)
	if err != nil {
		return err
	}
	if code != 0 {
		return services.Wrap(services.ErrExternalTool, tool.Name, "run",
			fmt.Sprintf("exit status %d", code), nil)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, tool Tool) (int, error) {
	binary := strings.TrimSpace(tool.Binary)
	if binary == "" {
		return 0, services.Wrap(services.ErrConfiguration, tool.Name, "run", "tool binary not configured", nil)
	}
	logger := logging.WithContext(ctx, r.logger).With(logging.String("tool", tool.Name))
	logger.Info("running external tool",
		logging.String("binary", binary),
		logging.String("args", strings.Join(tool.Args, " ")))
	start := time.Now()
	code, err := r.exec.Run(ctx, binary, tool.Args, func(line string) {
		logger.Debug("tool output", logging.String("line", line))
	})
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, tool.Name, "run", "command did not complete", err)
	}
	logger.Info("external tool finished",
		logging.Int("exit_code", code),
		logging.Duration("elapsed", time.Since(start)))
	return code, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) (int, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}
