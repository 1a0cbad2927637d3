package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/wwpbim/bepgen/payload"
)

const defaultEngineTimeout = 2 * time.Minute

// EngineError carries the collaborator's stderr so callers can surface it
// as the visible result instead of a bare exit status.
type EngineError struct {
	Err    error
	Stderr string
}

func (e *EngineError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("textgen: engine failed: %v", e.Err)
	}
	return fmt.Sprintf("textgen: engine failed: %v: %s", e.Err, msg)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Engine runs the external generation script: payload JSON on stdin,
// markdown on stdout, diagnostics on stderr with a non-zero exit.
type Engine struct {
	command string
	args    []string
	timeout time.Duration
}

// NewEngine resolves the engine command up front so a missing interpreter
// surfaces at startup rather than mid-generation. Empty command defaults
// to python3 running the bundled script.
func NewEngine(command string, args []string, timeout time.Duration) (*Engine, error) {
	if command == "" {
		command = "python3"
		if len(args) == 0 {
			args = []string{"python/bep_engine.py"}
		}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("textgen: engine command %q not found: %w", command, err)
	}
	if timeout <= 0 {
		timeout = defaultEngineTimeout
	}
	return &Engine{command: path, args: args, timeout: timeout}, nil
}

// Generate serializes p onto the engine's stdin and returns its stdout.
func (e *Engine) Generate(ctx context.Context, p *payload.Payload) (string, error) {
	input, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("textgen: encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("textgen: engine timed out after %v", e.timeout)
		}
		return "", &EngineError{Err: err, Stderr: stderr.String()}
	}
	return stdout.String(), nil
}
