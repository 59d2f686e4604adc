// Package eligibility runs the advisory pre-checks shown next to the
// loan form: whether a book has copies available and whether a student
// is under the loan limit. Probes race against the operator changing
// the selection, so every probe carries a token and late answers for a
// superseded selection are discarded.
package eligibility

import (
	"context"
	"log/slog"
	"sync"
)

// Probe asks the service one yes/no question about a key (an ISBN or a
// matricula).
type Probe func(ctx context.Context, key string) (bool, error)

// Result is the latest known answer for the current selection.
type Result struct {
	Key      string
	Eligible bool
	// Unknown means the probe failed; the answer is advisory and the
	// form may still be submitted. The service re-checks on submit.
	Unknown bool
	Err     error
}

// Checker tracks eligibility for one question. A new selection starts a
// fresh probe and invalidates any answer still in flight for the old
// one.
type Checker struct {
	probe  Probe
	logger *slog.Logger

	mu      sync.Mutex
	seq     uint64
	key     string
	result  Result
	pending bool
	onDone  func(Result)
}

func New(probe Probe, logger *slog.Logger) *Checker {
	return &Checker{probe: probe, logger: logger.With("component", "eligibility")}
}

// OnResult registers a callback fired when a non-stale probe answer
// lands. It runs on the probe goroutine.
func (c *Checker) OnResult(fn func(Result)) {
	c.mu.Lock()
	c.onDone = fn
	c.mu.Unlock()
}

// Check starts a probe for key. Answers from probes started before this
// call are discarded when they arrive.
func (c *Checker) Check(ctx context.Context, key string) {
	c.mu.Lock()
	c.seq++
	token := c.seq
	c.key = key
	c.pending = true
	c.result = Result{Key: key, Unknown: true}
	c.mu.Unlock()

	go c.run(ctx, token, key)
}

// Clear forgets the current selection. Any in-flight probe answer is
// discarded.
func (c *Checker) Clear() {
	c.mu.Lock()
	c.seq++
	c.key = ""
	c.pending = false
	c.result = Result{}
	c.mu.Unlock()
}

func (c *Checker) run(ctx context.Context, token uint64, key string) {
	ok, err := c.probe(ctx, key)

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale eligibility answer", "key", key)
		return
	}
	r := Result{Key: key, Eligible: ok}
	if err != nil {
		// Advisory check: treat failure as "not eligible as far as we
		// know" without blocking submission.
		r = Result{Key: key, Eligible: false, Unknown: true, Err: err}
		c.logger.Warn("eligibility probe failed", "key", key, "error", err)
	}
	c.result = r
	c.pending = false
	fn := c.onDone
	c.mu.Unlock()

	if fn != nil {
		fn(r)
	}
}

// Result returns the latest answer for the current selection.
func (c *Checker) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Pending reports whether a probe for the current selection is still in
// flight.
func (c *Checker) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
