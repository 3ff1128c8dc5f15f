// Package bulk defines the configurable bulk-action list and the selection
// controller that gates confirmed actions over a batch of entries.
package bulk

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in action identifiers understood by the entry bulk endpoint
const (
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
	ActionArchive   = "archive"
	ActionDelete    = "delete"
)

// Action is one entry of the bulk-action list
type Action struct {
	ID                   string `json:"id" yaml:"id"`
	Label                string `json:"label" yaml:"label"`
	RequiresConfirmation bool   `json:"requires_confirmation" yaml:"requires_confirmation"`
	ConfirmationText     string `json:"confirmation_text,omitempty" yaml:"confirmation_text"`
}

// DefaultActions is used when no action file is configured
func DefaultActions() []Action {
	return []Action{
		{ID: ActionPublish, Label: "Publish"},
		{ID: ActionUnpublish, Label: "Move to draft"},
		{
			ID:                   ActionArchive,
			Label:                "Archive",
			RequiresConfirmation: true,
			ConfirmationText:     "Archived entries are hidden from the public site. Continue?",
		},
		{
			ID:                   ActionDelete,
			Label:                "Delete",
			RequiresConfirmation: true,
			ConfirmationText:     "This permanently deletes the selected entries. Continue?",
		},
	}
}

// Registry is an ordered, immutable set of actions
type Registry struct {
	actions []Action
	byID    map[string]Action
}

// NewRegistry validates and indexes actions
func NewRegistry(actions []Action) (*Registry, error) {
	if len(actions) == 0 {
		return nil, errors.New("at least one bulk action is required")
	}

	r := &Registry{
		actions: make([]Action, 0, len(actions)),
		byID:    make(map[string]Action, len(actions)),
	}
	for _, a := range actions {
		if a.ID == "" {
			return nil, errors.New("bulk action id is required")
		}
		if _, dup := r.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate bulk action id %q", a.ID)
		}
		if a.Label == "" {
			a.Label = a.ID
		}
		r.actions = append(r.actions, a)
		r.byID[a.ID] = a
	}
	return r, nil
}

// LoadRegistry reads a YAML action list from path, or returns the defaults when path is empty
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(DefaultActions())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bulk actions file: %w", err)
	}

	var doc struct {
		Actions []Action `yaml:"actions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bulk actions file: %w", err)
	}
	return NewRegistry(doc.Actions)
}

// Actions returns the actions in configured order
func (r *Registry) Actions() []Action {
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Get looks up an action by ID
func (r *Registry) Get(id string) (Action, bool) {
	a, ok := r.byID[id]
	return a, ok
}
