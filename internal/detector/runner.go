// Package detector runs the external face detection script. The script is a
// separate program with its own runtime; the host only knows its command
// line: the script path followed by positional arguments.
package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

const (
	// stderrTail is how many trailing stderr lines an ExitError keeps.
	stderrTail = 20
	// maxLine bounds a single forwarded output line.
	maxLine = 64 * 1024
	// outputGrace is how long Run waits for the output pipes to close once
	// the script has exited or been killed.
	outputGrace = time.Second
)

var ErrInterpreterNotFound = errors.New("interpreter not found")

// Invocation is one run of a script.
type Invocation struct {
	Interpreter string
	Script      string
	Args        []string
}

// Argv is the full command line. Without an interpreter the script is
// executed directly.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Args)+2)
	if inv.Interpreter != "" {
		argv = append(argv, inv.Interpreter)
	}
	argv = append(argv, inv.Script)
	return append(argv, inv.Args...)
}

func (inv Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}

// Runner runs an invocation to completion.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExitError reports a script that ran but exited unsuccessfully.
type ExitError struct {
	Code   int
	Stderr []string
}

func (e *ExitError) Error() string {
	if len(e.Stderr) == 0 {
		return fmt.Sprintf("detector exited with status %d", e.Code)
	}
	return fmt.Sprintf("detector exited with status %d: %s", e.Code, e.Stderr[len(e.Stderr)-1])
}

// ExecRunner runs invocations as child processes, forwarding their output to
// the logger line by line. Timeout of zero means wait for as long as the
// script takes.
type ExecRunner struct {
	Logger  logger.Logger
	Timeout time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	log := r.Logger
	if log == nil {
		log = logger.Nop()
	}
	if inv.Script == "" {
		return errors.New("detector script path is empty")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	tail := &lineTail{max: stderrTail}
	stdout := &lineWriter{emit: func(line string) {
		log.Info("Detector", line, map[string]interface{}{"stream": "stdout"})
	}}
	stderr := &lineWriter{emit: func(line string) {
		tail.add(line)
		log.Warning("Detector", line, map[string]interface{}{"stream": "stderr"})
	}}

	argv := inv.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Children the script leaves running may hold the output pipes open.
	cmd.WaitDelay = outputGrace

	log.Info("Detector", "starting detector", map[string]interface{}{
		"command": inv.String(),
	})
	start := time.Now()

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, argv[0], err)
		}
		return fmt.Errorf("start detector: %w", err)
	}

	err := cmd.Wait()
	stdout.flush()
	stderr.flush()

	fields := map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warning("Detector", "detector interrupted", fields)
		return fmt.Errorf("detector interrupted: %w", ctxErr)
	}

	if errors.Is(err, exec.ErrWaitDelay) {
		log.Warning("Detector", "detector exited with output still open", fields)
		err = nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		fields["exit_code"] = exitErr.ExitCode()
		log.Warning("Detector", "detector failed", fields)
		return &ExitError{Code: exitErr.ExitCode(), Stderr: tail.lines()}
	}
	if err != nil {
		return fmt.Errorf("detector: %w", err)
	}

	log.Info("Detector", "detector finished", fields)
	return nil
}

// lineWriter passes each complete, non-empty line written to it to emit.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emitLocked(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) > maxLine {
		w.emitLocked(w.buf)
		w.buf = nil
	}
	return len(p), nil
}

// flush emits a trailing line that had no newline.
func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emitLocked(w.buf)
	w.buf = nil
}

func (w *lineWriter) emitLocked(line []byte) {
	if s := strings.TrimRight(string(line), "\r"); s != "" {
		w.emit(s)
	}
}

type lineTail struct {
	mu  sync.Mutex
	max int
	buf []string
}

func (t *lineTail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, line)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
}

func (t *lineTail) lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.buf...)
}
