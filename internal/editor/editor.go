// Package editor holds the admin content editor: a create/edit/delete state
// machine over a remote resource with a local id-keyed cache.
package editor

import (
	"context"
	"errors"
	"fmt"
)

// Mode is what Submit or ConfirmDelete will do.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeDelete:
		return "delete"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "create":
		return ModeCreate, nil
	case "edit":
		return ModeEdit, nil
	case "delete":
		return ModeDelete, nil
	default:
		return 0, fmt.Errorf("unknown editor mode %q", s)
	}
}

var (
	// ErrWrongMode is returned when an action does not apply to the
	// current mode.
	ErrWrongMode = errors.New("action not available in current mode")

	// ErrNothingSelected is returned by edit and delete actions before
	// Select succeeded.
	ErrNothingSelected = errors.New("no item selected")
)

// Resource is the remote collection an Editor manages. T is the entity and
// F the form payload sent on create and update.
type Resource[T any, F any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, form F) (T, error)
	Update(ctx context.Context, id string, form F) (T, error)
	Delete(ctx context.Context, id string) error
}

// Schema tells an Editor how to read ids and build forms for T.
type Schema[T any, F any] struct {
	ID func(T) string
	// FormOf fills a form from an existing entity.
	FormOf func(T) F
	// Blank is the create form; items is the current local list.
	Blank func(items []T) F
}

// Editor is not safe for concurrent use.
type Editor[T any, F any] struct {
	api    Resource[T, F]
	schema Schema[T, F]

	mode     Mode
	selected string
	form     F
	revision int

	items map[string]T
	order []string
	stale bool
}

// New returns an editor in create mode with an empty, stale cache.
func New[T any, F any](api Resource[T, F], schema Schema[T, F]) *Editor[T, F] {
	e := &Editor[T, F]{
		api:    api,
		schema: schema,
		items:  map[string]T{},
		stale:  true,
	}
	e.form = schema.Blank(nil)
	return e
}

func (e *Editor[T, F]) Mode() Mode { return e.mode }
func (e *Editor[T, F]) Selected() string { return e.selected }
func (e *Editor[T, F]) Form() F { return e.form }
func (e *Editor[T, F]) SetForm(form F) { e.form = form }
func (e *Editor[T, F]) Stale() bool { return e.stale }
func (e *Editor[T, F]) Invalidate() { e.stale = true }

// Revision changes whenever a different entity is loaded into the form.
// Rich-text widgets use it as a remount key.
func (e *Editor[T, F]) Revision() int { return e.revision }

// Load replaces the local cache with the remote list.
func (e *Editor[T, F]) Load(ctx context.Context) error {
	items, err := e.api.List(ctx)
	if err != nil {
		e.stale = true
		return err
	}
	e.items = make(map[string]T, len(items))
	e.order = make([]string, 0, len(items))
	for _, item := range items {
		id := e.schema.ID(item)
		e.items[id] = item
		e.order = append(e.order, id)
	}
	e.stale = false
	return nil
}

// Items returns the local list, re-fetching it first when stale.
func (e *Editor[T, F]) Items(ctx context.Context) ([]T, error) {
	if e.stale {
		if err := e.Load(ctx); err != nil {
			return nil, err
		}
	}
	return e.list(), nil
}

func (e *Editor[T, F]) list() []T {
	out := make([]T, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.items[id])
	}
	return out
}

// SetMode switches modes. Create resets the form to its defaults; edit and
// delete clear the form and wait for Select. Selection is always cleared.
func (e *Editor[T, F]) SetMode(mode Mode) {
	e.mode = mode
	e.selected = ""
	if mode == ModeCreate {
		e.form = e.schema.Blank(e.list())
		return
	}
	var zero F
	e.form = zero
}

// Select fetches an entity for editing or deletion. In edit mode it fills
// the form and bumps Revision.
func (e *Editor[T, F]) Select(ctx context.Context, id string) (T, error) {
	var zero T
	if e.mode == ModeCreate {
		return zero, ErrWrongMode
	}

	item, err := e.api.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	e.selected = id
	e.put(item, false)
	if e.mode == ModeEdit {
		e.form = e.schema.FormOf(item)
		e.revision++
	}
	return item, nil
}

// Submit creates or updates depending on the mode. A successful create
// resets the form; a successful update returns to create mode. Any failure
// invalidates the local cache.
func (e *Editor[T, F]) Submit(ctx context.Context) (T, error) {
	var zero T
	switch e.mode {
	case ModeCreate:
		item, err := e.api.Create(ctx, e.form)
		if err != nil {
			e.stale = true
			return zero, err
		}
		e.put(item, true)
		e.form = e.schema.Blank(e.list())
		return item, nil

	case ModeEdit:
		if e.selected == "" {
			return zero, ErrNothingSelected
		}
		item, err := e.api.Update(ctx, e.selected, e.form)
		if err != nil {
			e.stale = true
			return zero, err
		}
		e.put(item, false)
		e.SetMode(ModeCreate)
		return item, nil

	default:
		return zero, ErrWrongMode
	}
}

// ConfirmDelete deletes the selected entity.
func (e *Editor[T, F]) ConfirmDelete(ctx context.Context) error {
	if e.mode != ModeDelete {
		return ErrWrongMode
	}
	if e.selected == "" {
		return ErrNothingSelected
	}
	if err := e.api.Delete(ctx, e.selected); err != nil {
		e.stale = true
		return err
	}
	e.remove(e.selected)
	e.selected = ""
	return nil
}

// put stores item in the cache, prepending new ids when front is set and
// appending them otherwise.
func (e *Editor[T, F]) put(item T, front bool) {
	id := e.schema.ID(item)
	if _, ok := e.items[id]; !ok {
		if front {
			e.order = append([]string{id}, e.order...)
		} else {
			e.order = append(e.order, id)
		}
	}
	e.items[id] = item
}

func (e *Editor[T, F]) remove(id string) {
	delete(e.items, id)
	for i, existing := range e.order {
		if existing == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			return
		}
	}
}
