package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/validation"
	"github.com/rs/zerolog"
)

// BulkRequest selects entries and an action to run over them
type BulkRequest struct {
	Action    string   `json:"action"`
	IDs       []string `json:"ids"`
	Confirmed bool     `json:"confirmed"`
}

// BulkResult reports how far a bulk action got. Items are processed in
// order and processing stops at the first failure without undoing earlier items.
type BulkResult struct {
	Action    string   `json:"action"`
	Requested int      `json:"requested"`
	Processed []string `json:"processed"`
	FailedID  string   `json:"failed_id,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type entryAction func(ctx context.Context, entry *models.ContentEntry) error

// bulkService is the concrete implementation of BulkService
type bulkService struct {
	types    repository.ContentTypeRepository
	entries  repository.ContentEntryRepository
	registry *bulk.Registry
	appliers map[string]entryAction
	log      zerolog.Logger
}

func newBulkService(repos *repository.Repositories, registry *bulk.Registry, log zerolog.Logger) *bulkService {
	s := &bulkService{
		types:    repos.ContentType,
		entries:  repos.ContentEntry,
		registry: registry,
		log:      log.With().Str("service", "bulk").Logger(),
	}
	s.appliers = map[string]entryAction{
		bulk.ActionPublish:   s.setStatus(models.EntryStatusPublished),
		bulk.ActionUnpublish: s.setStatus(models.EntryStatusDraft),
		bulk.ActionArchive:   s.setStatus(models.EntryStatusArchived),
		bulk.ActionDelete:    s.delete,
	}
	return s
}

// Actions returns the configured actions the entry endpoint can run
func (s *bulkService) Actions() []bulk.Action {
	all := s.registry.Actions()
	out := make([]bulk.Action, 0, len(all))
	for _, a := range all {
		if _, ok := s.appliers[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Execute runs req.Action over req.IDs, all of which must belong to typeID.
// Actions that require confirmation fail with a ConfirmationError until
// req.Confirmed is set.
func (s *bulkService) Execute(ctx context.Context, typeID string, req *BulkRequest) (*BulkResult, error) {
	var errs []validation.ValidationError
	if req.Action == "" {
		errs = append(errs, validation.ValidationError{Field: "action", Message: "action is required"})
	}
	if len(req.IDs) == 0 {
		errs = append(errs, validation.ValidationError{Field: "ids", Message: "at least one id is required"})
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	action, ok := s.registry.Get(req.Action)
	if _, supported := s.appliers[req.Action]; !ok || !supported {
		return nil, invalidf("action", "unknown bulk action %q", req.Action)
	}
	if !isUUID(typeID) {
		return nil, ErrContentTypeNotFound
	}
	ct, err := s.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return nil, ErrContentTypeNotFound
	}

	result := &BulkResult{Action: action.ID, Processed: []string{}}
	apply := s.appliers[action.ID]

	ctrl := bulk.NewController(s.registry, func(ctx context.Context, actionID string, items []string) error {
		for _, id := range items {
			if err := s.applyOne(ctx, typeID, id, apply); err != nil {
				result.FailedID = id
				result.Error = err.Error()
				return err
			}
			result.Processed = append(result.Processed, id)
		}
		return nil
	}, s.log)

	ctrl.Select(req.IDs...)
	result.Requested = len(ctrl.Selected())

	var ran bool
	ran, err = ctrl.Invoke(ctx, action.ID)
	if err == nil && !ran {
		if !req.Confirmed {
			ctrl.Cancel()
			return nil, &ConfirmationError{Action: action}
		}
		err = ctrl.Confirm(ctx)
	}

	if err != nil && result.FailedID == "" {
		return nil, fmt.Errorf("bulk %s failed: %w", action.ID, err)
	}
	return result, nil
}

func (s *bulkService) applyOne(ctx context.Context, typeID, id string, apply entryAction) error {
	if !isUUID(id) {
		return ErrEntryNotFound
	}
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil || entry.ContentTypeID != typeID {
		return ErrEntryNotFound
	}
	return apply(ctx, entry)
}

func (s *bulkService) setStatus(status models.EntryStatus) entryAction {
	return func(ctx context.Context, entry *models.ContentEntry) error {
		var publishedAt *time.Time
		if status == models.EntryStatusPublished && entry.PublishedAt == nil {
			now := time.Now().UTC()
			publishedAt = &now
		}
		ok, err := s.entries.UpdateStatus(ctx, entry.ID, status, publishedAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrEntryNotFound
		}
		return nil
	}
}

func (s *bulkService) delete(ctx context.Context, entry *models.ContentEntry) error {
	deleted, err := s.entries.Delete(ctx, entry.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}
