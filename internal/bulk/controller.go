package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownAction indicates the action is not in the registry
	ErrUnknownAction = errors.New("unknown bulk action")

	// ErrNothingSelected indicates an action was invoked with an empty selection
	ErrNothingSelected = errors.New("no items selected")

	// ErrInFlight indicates a batch is already being submitted
	ErrInFlight = errors.New("bulk action already in progress")

	// ErrNoPending indicates Confirm was called without an action awaiting confirmation
	ErrNoPending = errors.New("no action awaiting confirmation")
)

// Handler performs an action over a batch of item IDs. It is called once per
// confirmed batch.
type Handler func(ctx context.Context, actionID string, items []string) error

// Controller tracks a selection of item IDs and runs actions over it.
// Actions that require confirmation are parked until Confirm or Cancel.
type Controller struct {
	registry *Registry
	onAction Handler
	log      zerolog.Logger

	mu       sync.Mutex
	selected map[string]struct{}
	order    []string
	pending  *Action
	inFlight bool
}

// NewController creates a controller over the registry's actions
func NewController(registry *Registry, onAction Handler, log zerolog.Logger) *Controller {
	return &Controller{
		registry: registry,
		onAction: onAction,
		log:      log.With().Str("component", "bulk").Logger(),
		selected: make(map[string]struct{}),
	}
}

// Select adds ids to the selection, preserving first-selection order
func (c *Controller) Select(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if _, ok := c.selected[id]; ok {
			continue
		}
		c.selected[id] = struct{}{}
		c.order = append(c.order, id)
	}
}

// Deselect removes ids from the selection
func (c *Controller) Deselect(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.selected, id)
	}
	c.compact()
}

// Toggle flips the selection state of id
func (c *Controller) Toggle(id string) {
	c.mu.Lock()
	_, ok := c.selected[id]
	c.mu.Unlock()
	if ok {
		c.Deselect(id)
		return
	}
	c.Select(id)
}

// Clear empties the selection
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]struct{})
	c.order = nil
}

// Selected returns the selected ids in selection order
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// IsSelected reports whether id is selected
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// Pending returns the action awaiting confirmation, if any
func (c *Controller) Pending() (Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Action{}, false
	}
	return *c.pending, true
}

// Invoke starts actionID over the current selection. Actions flagged
// RequiresConfirmation are parked and Invoke returns false without calling
// the handler; otherwise the handler runs immediately and Invoke returns true.
func (c *Controller) Invoke(ctx context.Context, actionID string) (bool, error) {
	action, ok := c.registry.Get(actionID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}

	c.mu.Lock()
	if len(c.order) == 0 {
		c.mu.Unlock()
		return false, ErrNothingSelected
	}
	if c.inFlight {
		c.mu.Unlock()
		return false, ErrInFlight
	}
	if action.RequiresConfirmation {
		c.pending = &action
		c.mu.Unlock()
		return false, nil
	}
	c.mu.Unlock()

	return true, c.run(ctx, action)
}

// Confirm runs the pending action
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return ErrNoPending
	}
	action := *c.pending
	c.pending = nil
	c.mu.Unlock()

	return c.run(ctx, action)
}

// Cancel drops the pending action. The selection is left untouched.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// run submits the selection once. On failure the selection stays intact so
// the user can retry; on success it is cleared.
func (c *Controller) run(ctx context.Context, action Action) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight
	}
	if len(c.order) == 0 {
		c.mu.Unlock()
		return ErrNothingSelected
	}
	c.inFlight = true
	items := make([]string, len(c.order))
	copy(items, c.order)
	c.mu.Unlock()

	err := c.onAction(ctx, action.ID, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.log.Error().Err(err).Str("action", action.ID).Int("items", len(items)).Msg("Bulk action failed")
		return err
	}

	c.log.Info().Str("action", action.ID).Int("items", len(items)).Msg("Bulk action completed")
	c.selected = make(map[string]struct{})
	c.order = nil
	return nil
}

func (c *Controller) compact() {
	kept := c.order[:0]
	for _, id := range c.order {
		if _, ok := c.selected[id]; ok {
			kept = append(kept, id)
		}
	}
	c.order = kept
}
