package signin

import (
	"context"
	"sync"
)

// Controller owns the credential form: field values, field errors,
// password visibility and the submission state.
//
// No lock is held while the authenticator runs, so observers and
// Snapshot see Submitting for the whole attempt.
type Controller struct {
	schema *Schema
	orch   *Orchestrator

	mu       sync.Mutex
	input    CredentialInput
	errs     map[Field]string
	visible  bool
	state    State
	observer func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSnapshot restores a previously persisted form. A persisted
// Submitting phase cannot be resumed and is restored as Idle.
func WithSnapshot(s Snapshot) Option {
	return func(c *Controller) {
		c.input.Email = s.Email
		c.visible = s.PasswordVisible
		c.state = s.State
		if c.state.Phase == Submitting {
			c.state = State{Phase: Idle}
		}
		for f, msg := range s.FieldErrors {
			c.errs[f] = msg
		}
	}
}

// WithObserver registers fn to receive a snapshot after every change.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController returns an Idle controller.
func NewController(schema *Schema, orch *Orchestrator, opts ...Option) *Controller {
	c := &Controller{
		schema: schema,
		orch:   orch,
		errs:   make(map[Field]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetField records a keystroke without validating.
func (c *Controller) SetField(f Field, value string) {
	c.mu.Lock()
	c.setLocked(f, value)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// Blur validates f on focus loss and records or clears its error.
func (c *Controller) Blur(f Field, value string) ValidationResult {
	res := c.schema.ValidateField(f, value)

	c.mu.Lock()
	c.setLocked(f, value)
	if res.Valid {
		delete(c.errs, f)
	} else {
		c.errs[f] = res.Message
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return res
}

// Submit validates in and, when every field passes, moves to Submitting
// before handing the attempt to the orchestrator. The authenticator is
// never called for invalid input. The returned error is ErrInvalidInput,
// ErrSubmissionInFlight, a *Failure, or nil on success.
func (c *Controller) Submit(ctx context.Context, in CredentialInput) error {
	errs := c.schema.ValidateInput(in)

	c.mu.Lock()
	if c.state.Phase == Submitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.input = in
	c.errs = errs
	if len(errs) > 0 {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return ErrInvalidInput
	}
	c.state = State{Phase: Submitting}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return c.orch.AttemptSignIn(ctx, in.Email, in.Password, c)
}

// ToggleVisibility flips password visibility.
func (c *Controller) ToggleVisibility() {
	c.mu.Lock()
	c.visible = !c.visible
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// BeginOAuth starts the third-party sign-in. It is a separate command
// from Submit and leaves the form untouched.
func (c *Controller) BeginOAuth(ctx context.Context) error {
	return c.orch.BeginOAuth(ctx)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Input returns the current field values, password included.
func (c *Controller) Input() CredentialInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Controller) settle(s State) {
	c.mu.Lock()
	if c.state.Phase != Submitting {
		c.mu.Unlock()
		return
	}
	c.state = s
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

func (c *Controller) setLocked(f Field, value string) {
	switch f {
	case FieldEmail:
		c.input.Email = value
	case FieldPassword:
		c.input.Password = value
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	errs := make(map[Field]string, len(c.errs))
	for f, msg := range c.errs {
		errs[f] = msg
	}
	return Snapshot{
		Email:           c.input.Email,
		FieldErrors:     errs,
		PasswordVisible: c.visible,
		State:           c.state,
	}
}

func (c *Controller) emit(s Snapshot) {
	if c.observer != nil {
		c.observer(s)
	}
}
