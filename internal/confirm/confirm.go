// Package confirm gates destructive actions behind an explicit
// confirmation step. An action is first armed, producing a pending
// request that describes what is about to happen; only a confirm call
// on that pending request executes it, and both confirm and cancel
// clear it. While an action runs, re-arming the same action key is
// refused so a double press cannot fire twice.
package confirm

import (
	"context"
	"log/slog"
	"sync"

	"github.com/biblioteca-app/circ/internal/errors"
)

// Action is the function a confirmed request executes.
type Action func(ctx context.Context) error

// Request is a pending confirmation. It exists only between Arm and
// the operator's answer.
type Request struct {
	// Key identifies the action for double-submit locking, e.g.
	// "delete-book/111" or "return-loan/7".
	Key string
	// Consequence is the sentence shown to the operator, e.g.
	// "Return 'Dom Casmurro' and charge a fine of 12.50?".
	Consequence string

	action Action
}

// Gate holds at most one pending request and the set of action keys
// currently executing.
type Gate struct {
	logger *slog.Logger

	mu      sync.Mutex
	pending *Request
	running map[string]bool
}

func New(logger *slog.Logger) *Gate {
	return &Gate{
		logger:  logger.With("component", "confirm"),
		running: make(map[string]bool),
	}
}

// Arm stages an action for confirmation. Arming replaces any previous
// pending request (the operator moved on without answering). Arming a
// key that is still executing is refused.
func (g *Gate) Arm(key, consequence string, action Action) (*Request, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[key] {
		return nil, errors.Conflict("action still in progress: " + key)
	}
	g.pending = &Request{Key: key, Consequence: consequence, action: action}
	return g.pending, nil
}

// Pending returns the staged request, if any.
func (g *Gate) Pending() *Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Cancel clears the pending request without executing it.
func (g *Gate) Cancel() {
	g.mu.Lock()
	if g.pending != nil {
		g.logger.Debug("confirmation cancelled", "key", g.pending.Key)
	}
	g.pending = nil
	g.mu.Unlock()
}

// Confirm executes the pending request. The request is cleared before
// the action runs, so a second Confirm during execution finds nothing
// to do, and the action key stays locked until the action returns.
func (g *Gate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	req := g.pending
	if req == nil {
		g.mu.Unlock()
		return errors.Precondition("nothing awaiting confirmation")
	}
	g.pending = nil
	g.running[req.Key] = true
	g.mu.Unlock()

	g.logger.Info("action confirmed", "key", req.Key)
	err := req.action(ctx)

	g.mu.Lock()
	delete(g.running, req.Key)
	g.mu.Unlock()

	if err != nil {
		g.logger.Warn("confirmed action failed", "key", req.Key, "error", err)
	}
	return err
}
