// Package cmdexectest provides a scriptable Runner fake for tests.
package cmdexectest

import (
	"context"
	"strings"
	"sync"

	"github.com/archup/archup/pkg/cmdexec"
)

// Response is a canned reply for a matching command.
type Response struct {
	Output   string
	ExitCode int
	Err      error
}

// Recorder is a Runner that records every call and answers from a script.
// Unmatched commands succeed with empty output, which mirrors the happy
// path of most of the tools the installer drives.
type Recorder struct {
	mu        sync.Mutex
	calls     []cmdexec.Cmd
	responses map[string]Response
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{responses: make(map[string]Response)}
}

// RespondTo registers a canned response for commands whose rendered argv
// starts with the given prefix, e.g. "blkid" or "cryptsetup open".
func (r *Recorder) RespondTo(prefix string, resp Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[prefix] = resp
}

// Run implements cmdexec.Runner.
func (r *Recorder) Run(_ context.Context, cmd cmdexec.Cmd) (cmdexec.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)

	rendered := cmd.String()
	for prefix, resp := range r.responses {
		if strings.HasPrefix(rendered, prefix) {
			return cmdexec.Result{Output: resp.Output, ExitCode: resp.ExitCode}, resp.Err
		}
	}
	return cmdexec.Result{}, nil
}

// Calls returns the recorded commands in invocation order.
func (r *Recorder) Calls() []cmdexec.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]cmdexec.Cmd, len(r.calls))
	copy(out, r.calls)
	return out
}

// CommandLines returns every recorded command rendered as a single line.
func (r *Recorder) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether any recorded command line starts with prefix.
func (r *Recorder) Ran(prefix string) bool {
	for _, line := range r.CommandLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
