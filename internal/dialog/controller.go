// Package dialog drives the create/edit form of one entity: it owns the draft,
// validates it, delegates writes and uploads, and closes on success.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/domains/cms"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
)

// State of a dialog.
type State int

const (
	Closed State = iota
	OpenCreate
	OpenEdit
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpenCreate:
		return "open-create"
	case OpenEdit:
		return "open-edit"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrClosed        = errors.New("dialog is closed")
	ErrUploadPending = errors.New("an upload is still in progress")
	ErrSubmitting    = errors.New("a submit is already in progress")
	ErrUnknownField  = errors.New("unknown field")
)

// Submitter performs the confirmed write. resource.Service satisfies it.
type Submitter[T any] interface {
	Create(ctx context.Context, values form.Values) (T, error)
	Update(ctx context.Context, id int64, values form.Values) (T, error)
}

// ReferenceSource loads the lookup ids foreign keys are checked against.
type ReferenceSource interface {
	References(ctx context.Context) (form.References, error)
}

// Options configures a Controller.
type Options struct {
	Uploader client.Uploader
	Folder   string   // upload folder, "" for the default allow-list
	Notifier Notifier // defaults to LogNotifier
	Logger   *zerolog.Logger
}

// Controller is the form state machine of one entity type.
type Controller[T cms.Entity] struct {
	schema   *form.Schema
	submit   Submitter[T]
	uploader client.Uploader
	folder   string
	notifier Notifier
	log      zerolog.Logger

	mu         sync.Mutex
	state      State
	bound      *T
	draft      form.Draft
	refs       form.References
	fieldErrs  *form.Errors
	err        error
	pending    map[string]int
	submitting bool
	gen        uint64 // bumped on every open/rebind/close
}

func New[T cms.Entity](schema *form.Schema, submit Submitter[T], opts Options) *Controller[T] {
	c := &Controller[T]{
		schema:   schema,
		submit:   submit,
		uploader: opts.Uploader,
		folder:   opts.Folder,
		notifier: opts.Notifier,
		log:      log.With().Str("component", "dialog").Str("entity", schema.Entity).Logger(),
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Logger: c.log}
	}
	return c
}

// Open opens the dialog for entity, or for a new record when entity is nil.
func (c *Controller[T]) Open(entity *T) error {
	return c.Bind(entity)
}

// Bind points the dialog at entity. The draft is always rebuilt from the new
// binding: unsaved edits of the previous one are discarded, and pending
// uploads or submits of the previous binding no longer affect the dialog.
func (c *Controller[T]) Bind(entity *T) error {
	draft := c.schema.Defaults()
	state := OpenCreate
	if entity != nil {
		d, err := c.schema.DraftFrom(*entity)
		if err != nil {
			return err
		}
		draft = d
		state = OpenEdit
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = state
	c.bound = entity
	c.draft = draft
	c.fieldErrs = nil
	c.err = nil
	c.pending = make(map[string]int)
	c.submitting = false
	return nil
}

// Close discards the draft.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = Closed
	c.bound = nil
	c.draft = nil
	c.fieldErrs = nil
	c.err = nil
	c.pending = nil
	c.submitting = false
}

// SetReferences replaces the lookup ids foreign keys are validated against.
func (c *Controller[T]) SetReferences(refs form.References) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = refs
}

// LoadReferences fetches and installs the lookup ids from src.
func (c *Controller[T]) LoadReferences(ctx context.Context, src ReferenceSource) error {
	refs, err := src.References(ctx)
	if err != nil {
		return err
	}
	c.SetReferences(refs)
	return nil
}

// Set writes one draft value and clears that key's errors.
func (c *Controller[T]) Set(key string, value any) error {
	if _, ok := c.schema.Field(key); !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return ErrClosed
	}
	c.draft[key] = value
	if c.fieldErrs != nil {
		delete(c.fieldErrs.Fields, key)
	}
	return nil
}

// Draft returns a copy of the current draft, nil when closed.
func (c *Controller[T]) Draft() form.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	return c.draft.Clone()
}

// Preview returns the image URL to show for key, computed from the current
// draft on every call: the thumbnail when one is set, otherwise the image.
func (c *Controller[T]) Preview(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ""
	}
	if thumb, ok := c.schema.ThumbnailFor(key); ok {
		if v := c.draft.String(thumb); v != "" {
			return v
		}
	}
	return c.draft.String(key)
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Bound returns the entity being edited, nil in create mode.
func (c *Controller[T]) Bound() *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound
}

// FieldErrors returns the validation errors of the last submit.
func (c *Controller[T]) FieldErrors() *form.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrs
}

// Err returns the last upload or service failure, kept until the next attempt.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Uploading reports whether an upload into key is in flight.
func (c *Controller[T]) Uploading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[key] > 0
}

// CanSubmit reports whether the submit control is enabled.
func (c *Controller[T]) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != Closed && !c.submitting && !c.uploadPending()
}

func (c *Controller[T]) uploadPending() bool {
	for _, n := range c.pending {
		if n > 0 {
			return true
		}
	}
	return false
}

// ========================================
// UPLOAD
// ========================================

// Upload sends file and writes the stored URL into key, and the generated
// thumbnail into the key derived from it. Submit stays disabled meanwhile.
func (c *Controller[T]) Upload(ctx context.Context, key string, file client.File) (*client.UploadResult, error) {
	if _, ok := c.schema.Field(key); !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownField, key)
	}
	if c.uploader == nil {
		return nil, errors.New("dialog: no uploader configured")
	}

	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	gen := c.gen
	c.pending[key]++
	c.err = nil
	c.mu.Unlock()

	res, err := c.uploader.Upload(ctx, file, c.folder)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		c.log.Debug().Str("field", key).Msg("upload finished after dialog changed, ignored")
		return res, err
	}
	c.pending[key]--
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.notifier.Error("Upload failed: "+apperr.Message(err), err)
		return nil, err
	}
	c.draft[key] = res.FileURL
	if thumb, ok := c.schema.ThumbnailFor(key); ok && res.ThumbnailURL != "" {
		c.draft[thumb] = res.ThumbnailURL
	}
	if c.fieldErrs != nil {
		delete(c.fieldErrs.Fields, key)
	}
	c.mu.Unlock()
	return res, nil
}

// ========================================
// SUBMIT
// ========================================

// Submit validates the draft and, when valid, creates or updates the record.
// Validation errors stay in FieldErrors and never reach the service. A failed
// write leaves the dialog open with the draft as typed; a successful one
// closes it. When the dialog was closed or rebound while the write was in
// flight, the result is returned but the dialog is left alone.
func (c *Controller[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	c.mu.Lock()
	switch {
	case c.state == Closed:
		c.mu.Unlock()
		return zero, ErrClosed
	case c.uploadPending():
		c.mu.Unlock()
		return zero, ErrUploadPending
	case c.submitting:
		c.mu.Unlock()
		return zero, ErrSubmitting
	}

	values, err := c.schema.Validate(c.draft, c.refs)
	if err != nil {
		var ferr *form.Errors
		if errors.As(err, &ferr) {
			c.fieldErrs = ferr
		}
		c.mu.Unlock()
		return zero, err
	}

	c.fieldErrs = nil
	c.err = nil
	c.submitting = true
	gen := c.gen
	state := c.state
	var id int64
	if c.bound != nil {
		id = (*c.bound).Identity()
	}
	c.mu.Unlock()

	var saved T
	if state == OpenEdit {
		saved, err = c.submit.Update(ctx, id, values)
	} else {
		saved, err = c.submit.Create(ctx, values)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		c.log.Debug().Msg("submit finished after dialog changed, ignored")
		return saved, err
	}
	c.submitting = false
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("mode", state.String()).Msg("submit failed")
		c.notifier.Error(apperr.Message(err), err)
		return zero, err
	}

	c.gen++
	c.state = Closed
	c.bound = nil
	c.draft = nil
	c.pending = nil
	c.mu.Unlock()

	if state == OpenEdit {
		c.notifier.Success(c.schema.Entity + " updated")
	} else {
		c.notifier.Success(c.schema.Entity + " created")
	}
	return saved, nil
}
