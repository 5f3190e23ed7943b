package cmdexec

import (
	"context"
	"strings"
	"sync"
)

// DryRunner records the commands it would have executed without spawning
// any process. Backs --dry-run and the plan command.
type DryRunner struct {
	mu    sync.Mutex
	calls []Cmd
}

// NewDryRunner creates an inert recording runner.
func NewDryRunner() *DryRunner {
	return &DryRunner{}
}

// Run records the command and reports success without executing anything.
func (r *DryRunner) Run(_ context.Context, cmd Cmd) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
	return Result{}, nil
}

// Calls returns the recorded commands in invocation order.
func (r *DryRunner) Calls() []Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cmd, len(r.calls))
	copy(out, r.calls)
	return out
}

// Transcript renders the recorded commands one per line, with sensitive
// stdin elided.
func (r *DryRunner) Transcript() string {
	var b strings.Builder
	for _, c := range r.Calls() {
		b.WriteString(c.String())
		if c.Stdin != "" {
			if c.Sensitive {
				b.WriteString("  # stdin: <redacted>")
			} else {
				b.WriteString("  # stdin: " + strings.ReplaceAll(strings.TrimRight(c.Stdin, "\n"), "\n", "\\n"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
