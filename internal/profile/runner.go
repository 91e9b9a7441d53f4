package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	// Command execution timeout.
	commandTimeout = 10 * time.Second
	// Maximum output size to prevent memory exhaustion.
	maxOutputSize = 10 * 1024 // 10KB limit
	// Maximum log output length for readability.
	maxLogLength = 200
	// Retry configuration for command launches.
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

var (
	// ErrCommandFailed is returned when a command ran but exited abnormally.
	ErrCommandFailed = errors.New("command exited abnormally")
	// ErrCommandTimeout is returned when a command did not finish in time.
	ErrCommandTimeout = errors.New("command timed out")
)

// Runner executes a shell command and returns its standard output.
type Runner interface {
	Execute(ctx context.Context, command string) (string, error)
}

// ShellRunner runs commands through the family's shell.
type ShellRunner struct {
	Family   Family
	Timeout  time.Duration // Per attempt; defaults to 10s
	Attempts uint          // Launch attempts; defaults to 3
	Debug    bool
}

// Execute runs command and returns its stdout. Launch failures and timeouts
// are retried. When the command exits non-zero, the captured stdout is
// returned along with an error wrapping ErrCommandFailed.
func (r *ShellRunner) Execute(ctx context.Context, command string) (string, error) {
	attempts := r.Attempts
	if attempts == 0 {
		attempts = maxRetries
	}

	var stdout string
	var lastErr error
	err := retry.Do(func() error {
		stdout, lastErr = r.run(ctx, command)
		return lastErr
	},
		retry.Attempts(attempts),
		retry.Delay(initialBackoff),
		retry.MaxDelay(maxBackoff),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrCommandFailed)
		}))
	if err == nil {
		return stdout, nil
	}
	if lastErr != nil {
		return stdout, lastErr
	}
	return stdout, err
}

func (r *ShellRunner) run(ctx context.Context, command string) (string, error) {
	start := time.Now()
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = commandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if r.Debug {
		log.Printf("[DEBUG] Executing command: %s", command)
	}

	shell := r.Family.shell()
	cmd := exec.CommandContext(ctx, shell[0], append(shell[1:], command)...)
	cmd.Env = r.Family.env()
	// Children of the shell may hold the pipes open after it is killed
	cmd.WaitDelay = time.Second

	var stdoutBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	duration := time.Since(start)

	stdout := limitOutput(stdoutBuf.Bytes(), maxOutputSize)
	if stderr := strings.TrimSpace(stderrBuf.String()); stderr != "" {
		if len(stderr) > maxLogLength {
			stderr = stderr[:maxLogLength] + "..."
		}
		log.Printf("[INFO] stderr (%d bytes): %s", stderrBuf.Len(), stderr)
	}

	if r.Debug {
		log.Printf("[DEBUG] Command completed in %v (stdout: %d bytes, stderr: %d bytes): %s",
			duration, len(stdout), stderrBuf.Len(), command)
	}

	if err == nil {
		return stdout, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Printf("[WARN] Command timed out after %v: %s", duration, command)
		return stdout, fmt.Errorf("%w after %v: %s", ErrCommandTimeout, duration, command)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout, fmt.Errorf("%w (exit %d): %s", ErrCommandFailed, exitErr.ExitCode(), command)
	}
	return "", fmt.Errorf("failed to start command: %w", err)
}

// limitOutput truncates output if it exceeds maxSize.
func limitOutput(data []byte, maxSize int) string {
	if len(data) > maxSize {
		return string(data[:maxSize])
	}
	return string(data)
}
