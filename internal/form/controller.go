package form

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/registration-relay/internal/models"
)

// Phase is the submission lifecycle state of a form.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while another submission is pending.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrInvalidInput is returned when local validation blocked the submission.
	ErrInvalidInput = errors.New("registration input is invalid")
)

// State is a copy of the controller state suitable for rendering.
type State struct {
	Input   models.RegistrationInput
	Errors  Errors
	Phase   Phase
	Message string
}

// Controller owns the registration form state and its submission lifecycle.
type Controller struct {
	submitter Submitter
	logger    *zap.Logger

	mu       sync.Mutex
	input    models.RegistrationInput
	errors   Errors
	phase    Phase
	message  string
	inFlight bool
}

// NewController creates a controller with an empty form.
func NewController(submitter Submitter, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		submitter: submitter,
		logger:    logger,
		errors:    Errors{},
		phase:     PhaseIdle,
	}
}

// UpdateField sets one field and clears only that field's error.
func (c *Controller) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.input.Set(name, value); err != nil {
		return err
	}
	delete(c.errors, name)
	return nil
}

// State returns a snapshot of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(Errors, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return State{Input: c.input, Errors: errs, Phase: c.phase, Message: c.message}
}

// Submit validates the form and, when valid, sends it to the relay.
// Only one submission may be in flight; concurrent calls return ErrSubmitInFlight untouched.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	c.errors = Validate(c.input)
	if len(c.errors) > 0 {
		fields := c.errors.Fields()
		c.mu.Unlock()
		c.logger.Debug("registration blocked by validation", zap.Strings("fields", fields))
		return ErrInvalidInput
	}

	c.inFlight = true
	c.phase = PhaseSubmitting
	c.message = ""
	payload := c.input.Payload()
	c.mu.Unlock()

	res, err := c.submitter.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.phase = PhaseError
		c.message = FailureMessage(err)
		c.logger.Warn("registration failed", zap.Error(err), zap.String("message", c.message))
		return err
	}

	c.phase = PhaseSuccess
	c.message = MsgSuccessFallback
	if res != nil && strings.TrimSpace(res.Message) != "" {
		c.message = res.Message
	}
	c.input = models.RegistrationInput{}
	c.errors = Errors{}
	c.logger.Info("registration submitted")
	return nil
}
