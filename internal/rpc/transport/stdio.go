package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const (
	// shutdownTimeout is how long Close waits before force killing
	shutdownTimeout = 5 * time.Second
)

// StdioTransport runs a tool host as a child process and exchanges
// line-framed envelopes over its stdin/stdout. Stderr is passed through
// to the parent's stderr so host diagnostics stay visible.
type StdioTransport struct {
	ctx    context.Context
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// NewStdioTransport prepares a child process transport.
// command: executable name; args: command arguments; env: additional
// environment variables merged with os.Environ().
func NewStdioTransport(ctx context.Context, command string, args []string, env map[string]string) (*StdioTransport, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	return &StdioTransport{
		ctx:    ctx,
		cancel: cancel,
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

// Start launches the child process
func (t *StdioTransport) Start() error {
	if err := t.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}
	return nil
}

// Reader returns the host's output stream (stdout of the child)
func (t *StdioTransport) Reader() io.ReadCloser {
	return t.stdout
}

// Writer returns the host's input stream (stdin of the child)
func (t *StdioTransport) Writer() io.WriteCloser {
	return t.stdin
}

// Close shuts the child process down. Closing stdin signals EOF so the
// host's read loop exits on its own; after shutdownTimeout the process
// is killed. Resources are released even if a prior write failed.
func (t *StdioTransport) Close() error {
	// Cancel only after the wait settles, so the host gets a chance to
	// exit cleanly on stdin EOF before the context kills it.
	defer t.cancel()

	if t.stdin != nil {
		t.stdin.Close()
	}

	done := make(chan error, 1)
	go func() {
		done <- t.cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil && err.Error() != "signal: killed" {
			return fmt.Errorf("process exited with error: %w", err)
		}
		return nil

	case <-time.After(shutdownTimeout):
		if t.cmd.Process != nil {
			if err := t.cmd.Process.Kill(); err != nil {
				return fmt.Errorf("failed to kill process: %w", err)
			}
		}
		<-done
		return nil
	}
}
