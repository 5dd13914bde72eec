// Package categoryform drives the category create/edit form: local editable
// state, ordered field validation on submit, and a single round trip to the
// persistence boundary.
package categoryform

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
)

// Mode selects between creating a new category and editing an existing one
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Fallback text when the persistence failure carries no message
const msgSubmitFailed = "Failed to submit form"

var (
	// ErrSubmitInProgress is returned when submit is called while an earlier
	// submit is still outstanding.
	ErrSubmitInProgress = errors.New(errors.ErrCodeConflict, "submit already in progress")
	// ErrClosed is returned when the form has already been closed
	ErrClosed = errors.New(errors.ErrCodeConflict, "form is closed")
)

// Persister is the external persistence boundary
type Persister interface {
	CreateOrUpdateCategory(ctx context.Context, c *model.Category) (*model.Category, error)
}

// Notifier shows transient notifications to the operator
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message, description string)
}

// Session identifies the acting user and the tenant new records belong to
type Session struct {
	ActorID  int64
	TenantID int64
}

// Config wires a controller to its caller
type Config struct {
	Mode       Mode
	Category   *model.Category // required in edit mode
	Persister  Persister
	Notifier   Notifier
	CloseModal func()
	Trigger    func()
	Session    Session
	Clock      func() time.Time
	Logger     *logger.Logger
}

// State is a snapshot of the form
type State struct {
	FormData  model.Category
	Errors    map[Field]string
	IsLoading bool
}

// Controller owns the state of one form instance
type Controller struct {
	mode       Mode
	persister  Persister
	notifier   Notifier
	closeModal func()
	trigger    func()
	session    Session
	clock      func() time.Time
	log        *logger.Logger

	mu       sync.Mutex
	formData model.Category
	errors   map[Field]string
	loading  bool
	closed   bool
}

// New creates a controller. Create mode starts from a blank category, edit
// mode from a copy of cfg.Category.
func New(cfg Config) *Controller {
	c := &Controller{
		mode:       cfg.Mode,
		persister:  cfg.Persister,
		notifier:   cfg.Notifier,
		closeModal: cfg.CloseModal,
		trigger:    cfg.Trigger,
		session:    cfg.Session,
		clock:      cfg.Clock,
		log:        cfg.Logger,
		errors:     make(map[Field]string),
	}
	if c.mode == "" {
		c.mode = ModeCreate
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}

	if c.mode == ModeEdit && cfg.Category != nil {
		c.formData = *cfg.Category
	} else {
		c.formData = model.NewCategory(c.clock())
		c.formData.TenantID = cfg.Session.TenantID
	}
	return c
}

// Mode returns the form mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Heading is the form title
func (c *Controller) Heading() string {
	if c.mode == ModeEdit {
		return "Edit category"
	}
	return "Add new category"
}

// SubmitLabel is the text of the submit button
func (c *Controller) SubmitLabel() string {
	if c.mode == ModeEdit {
		return "Update"
	}
	return "Submit"
}

// CanSubmit reports whether the submit button is enabled
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loading && !c.closed
}

// State returns a copy of the current form state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		FormData:  c.formData,
		Errors:    maps.Clone(c.errors),
		IsLoading: c.loading,
	}
}

// SetField updates a field and clears its error
func (c *Controller) SetField(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch field {
	case FieldName:
		c.formData.Name = value
	case FieldDescription:
		c.formData.Description = value
	default:
		return
	}
	delete(c.errors, field)
}

// Focus clears the error shown under a field
func (c *Controller) Focus(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.errors, field)
}

// Cancel closes the form without checking for unsaved edits
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	if c.closeModal != nil {
		c.closeModal()
	}
}

// Submit validates the form and, when valid, persists it. Validation stops
// at the first failing check and returns that *errors.ValidationError. A
// rejected save returns an *errors.PersistenceError after notifying the
// operator. Either way the form stays open and editable.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	c.loading = true
	data := c.formData
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	if verr := Validate(&data); verr != nil {
		c.mu.Lock()
		c.errors[Field(verr.Field)] = verr.Message
		c.mu.Unlock()
		return verr
	}

	data.UpdatedAt = c.clock()
	data.UpdatedBy = c.session.ActorID

	saved, err := c.persister.CreateOrUpdateCategory(ctx, &data)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = msgSubmitFailed
		}
		c.log.Warn().Err(err).
			Int64("category_id", data.ID).
			Str("mode", string(c.mode)).
			Msg("Category submit failed")
		c.notifier.Error(ctx, "Error", msg)

		var perr *errors.PersistenceError
		if errors.As(err, &perr) {
			return perr
		}
		return errors.Persistence(msg, err)
	}

	c.mu.Lock()
	if saved != nil {
		c.formData = *saved
	} else {
		c.formData = data
	}
	c.closed = true
	c.mu.Unlock()

	c.log.Info().
		Int64("category_id", c.State().FormData.ID).
		Str("mode", string(c.mode)).
		Msg("Category saved")

	c.notifier.Success(ctx, c.successMessage())
	if c.closeModal != nil {
		c.closeModal()
	}
	if c.trigger != nil {
		c.trigger()
	}
	return nil
}

func (c *Controller) successMessage() string {
	if c.mode == ModeEdit {
		return "Category updated successfully"
	}
	return "Category created successfully"
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, string)       {}
func (nopNotifier) Error(context.Context, string, string) {}
