package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/content-modeling-api/internal/slug"
)

// Verify interface compliance
var (
	_ repository.ContentTypeRepository  = (*MockContentTypeRepository)(nil)
	_ repository.ContentFieldRepository = (*MockContentFieldRepository)(nil)
	_ repository.ContentEntryRepository = (*MockContentEntryRepository)(nil)
	_ repository.TagRepository          = (*MockTagRepository)(nil)
	_ repository.MediaRepository        = (*MockMediaRepository)(nil)
)

// MockRepositories bundles map-backed repositories that share one lock and
// honour the cascade and uniqueness rules of the SQL schema
type MockRepositories struct {
	Types   *MockContentTypeRepository
	Fields  *MockContentFieldRepository
	Entries *MockContentEntryRepository
	Tags    *MockTagRepository
	Media   *MockMediaRepository
}

// NewMockRepositories creates an empty set of wired mock repositories
func NewMockRepositories() *MockRepositories {
	mu := &sync.Mutex{}
	m := &MockRepositories{
		Types:   &MockContentTypeRepository{mu: mu, Types: make(map[string]*models.ContentType)},
		Fields:  &MockContentFieldRepository{mu: mu, Fields: make(map[string]*models.ContentField)},
		Entries: &MockContentEntryRepository{mu: mu, Entries: make(map[string]*models.ContentEntry), seq: make(map[string]int)},
		Tags:    &MockTagRepository{mu: mu, Tags: make(map[string]*models.Tag), EntryTags: make(map[string][]string)},
		Media:   &MockMediaRepository{mu: mu, Items: make(map[string]*models.Media)},
	}
	m.Types.root = m
	m.Fields.root = m
	m.Entries.root = m
	return m
}

// Repositories exposes the mocks through the repository interfaces
func (m *MockRepositories) Repositories() *repository.Repositories {
	return &repository.Repositories{
		ContentType:  m.Types,
		ContentField: m.Fields,
		ContentEntry: m.Entries,
		Tag:          m.Tags,
		Media:        m.Media,
	}
}

// MockContentTypeRepository is a mock implementation of ContentTypeRepository
type MockContentTypeRepository struct {
	mu   *sync.Mutex
	root *MockRepositories

	Types map[string]*models.ContentType
	// CreateHook runs before every Create; a non-nil error aborts it
	CreateHook  func(ctx context.Context, ct *models.ContentType) error
	CreateCalls int
	// UpdateHook runs before every Update; a non-nil error aborts it
	UpdateHook func(ctx context.Context, ct *models.ContentType) error
}

func (m *MockContentTypeRepository) Create(ctx context.Context, ct *models.ContentType) error {
	m.mu.Lock()
	m.CreateCalls++
	hook := m.CreateHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, ct); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(ct.Slug, "") {
		return fmt.Errorf("%w: content_types_slug_key", slug.ErrConflict)
	}
	stored := *ct
	stored.Fields = nil
	m.Types[ct.ID] = &stored
	for i := range ct.Fields {
		f := ct.Fields[i]
		m.root.Fields.Fields[f.ID] = &f
	}
	return nil
}

func (m *MockContentTypeRepository) Update(ctx context.Context, ct *models.ContentType, renamed []models.ContentField) (bool, error) {
	m.mu.Lock()
	hook := m.UpdateHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, ct); err != nil {
			return false, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Types[ct.ID]
	if !ok {
		return false, nil
	}
	if m.slugTaken(ct.Slug, ct.ID) {
		return false, fmt.Errorf("%w: content_types_slug_key", slug.ErrConflict)
	}

	// Check the renamed field set as a whole so nothing is written on failure
	final := make(map[string]*models.ContentField)
	for id, f := range m.root.Fields.Fields {
		if f.ContentTypeID == ct.ID {
			c := *f
			final[id] = &c
		}
	}
	for i := range renamed {
		if f, ok := final[renamed[i].ID]; ok {
			f.Name = renamed[i].Name
			f.DisplayName = renamed[i].DisplayName
		}
	}
	seen := make(map[string]bool, len(final))
	for _, f := range final {
		name := strings.ToLower(f.Name)
		if seen[name] {
			return false, fmt.Errorf("%w: %s", repository.ErrFieldNameConflict, f.Name)
		}
		seen[name] = true
	}

	existing.Name = ct.Name
	existing.DisplayName = ct.DisplayName
	existing.Slug = ct.Slug
	existing.Description = ct.Description
	existing.UpdatedAt = time.Now()
	for id, f := range final {
		m.root.Fields.Fields[id] = f
	}
	return true, nil
}

func (m *MockContentTypeRepository) GetByID(ctx context.Context, id string) (*models.ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ct, ok := m.Types[id]
	if !ok {
		return nil, nil
	}
	return m.withFields(ct), nil
}

func (m *MockContentTypeRepository) GetBySlug(ctx context.Context, s string) (*models.ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ct := range m.Types {
		if ct.Slug == s {
			return m.withFields(ct), nil
		}
	}
	return nil, nil
}

func (m *MockContentTypeRepository) List(ctx context.Context) ([]*models.ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.ContentType, 0, len(m.Types))
	for _, ct := range m.Types {
		c := *ct
		c.Fields = []models.ContentField{}
		for _, e := range m.root.Entries.Entries {
			if e.ContentTypeID == ct.ID {
				c.EntryCount++
			}
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockContentTypeRepository) SlugExists(ctx context.Context, s, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTaken(s, excludeID), nil
}

func (m *MockContentTypeRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Types[id]; !ok {
		return false, nil
	}
	delete(m.Types, id)
	for fid, f := range m.root.Fields.Fields {
		if f.ContentTypeID == id {
			delete(m.root.Fields.Fields, fid)
		}
	}
	for eid, e := range m.root.Entries.Entries {
		if e.ContentTypeID == id {
			m.root.Entries.remove(eid)
		}
	}
	return true, nil
}

func (m *MockContentTypeRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Types), nil
}

func (m *MockContentTypeRepository) slugTaken(s, excludeID string) bool {
	for id, ct := range m.Types {
		if ct.Slug == s && id != excludeID {
			return true
		}
	}
	return false
}

func (m *MockContentTypeRepository) withFields(ct *models.ContentType) *models.ContentType {
	c := *ct
	c.Fields = m.root.Fields.byType(ct.ID)
	return &c
}

// MockContentFieldRepository is a mock implementation of ContentFieldRepository
type MockContentFieldRepository struct {
	mu   *sync.Mutex
	root *MockRepositories

	Fields      map[string]*models.ContentField
	UpdateError error
}

func (m *MockContentFieldRepository) Create(ctx context.Context, field *models.ContentField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(field) {
		return fmt.Errorf("%w: %s", repository.ErrFieldNameConflict, field.Name)
	}
	f := *field
	m.Fields[field.ID] = &f
	return nil
}

func (m *MockContentFieldRepository) Update(ctx context.Context, field *models.ContentField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if m.nameTaken(field) {
		return fmt.Errorf("%w: %s", repository.ErrFieldNameConflict, field.Name)
	}
	if _, ok := m.Fields[field.ID]; ok {
		f := *field
		m.Fields[field.ID] = &f
	}
	return nil
}

func (m *MockContentFieldRepository) GetByID(ctx context.Context, id string) (*models.ContentField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.Fields[id]
	if !ok {
		return nil, nil
	}
	c := *f
	return &c, nil
}

func (m *MockContentFieldRepository) ListByType(ctx context.Context, contentTypeID string) ([]models.ContentField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byType(contentTypeID), nil
}

func (m *MockContentFieldRepository) CountByType(ctx context.Context, contentTypeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byType(contentTypeID)), nil
}

func (m *MockContentFieldRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Fields[id]; !ok {
		return false, nil
	}
	delete(m.Fields, id)
	for _, e := range m.root.Entries.Entries {
		kept := e.FieldValues[:0]
		for _, v := range e.FieldValues {
			if v.FieldID != id {
				kept = append(kept, v)
			}
		}
		e.FieldValues = kept
	}
	return true, nil
}

func (m *MockContentFieldRepository) nameTaken(field *models.ContentField) bool {
	for id, f := range m.Fields {
		if id != field.ID && f.ContentTypeID == field.ContentTypeID && strings.EqualFold(f.Name, field.Name) {
			return true
		}
	}
	return false
}

func (m *MockContentFieldRepository) byType(contentTypeID string) []models.ContentField {
	out := make([]models.ContentField, 0)
	for _, f := range m.Fields {
		if f.ContentTypeID == contentTypeID {
			out = append(out, *f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MockContentEntryRepository is a mock implementation of ContentEntryRepository
type MockContentEntryRepository struct {
	mu   *sync.Mutex
	root *MockRepositories

	Entries map[string]*models.ContentEntry
	seq     map[string]int
	next    int

	CreateError error
	UpdateError error
	// StatusError, when set, fails UpdateStatus and PublishScheduled for the listed entry IDs
	StatusError map[string]error
	UpdateCalls int
	// AfterListDue runs after ListDueScheduled returns its batch
	AfterListDue func(due []*models.ContentEntry)
}

func (m *MockContentEntryRepository) Create(ctx context.Context, entry *models.ContentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if m.slugTaken(entry.ContentTypeID, entry.Slug, "") {
		return fmt.Errorf("%w: content_entries_type_slug_key", slug.ErrConflict)
	}
	m.next++
	m.seq[entry.ID] = m.next
	m.Entries[entry.ID] = cloneEntry(entry, true)
	return nil
}

func (m *MockContentEntryRepository) Update(ctx context.Context, entry *models.ContentEntry, replaceValues bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Entries[entry.ID]
	if !ok {
		return nil
	}
	if m.slugTaken(entry.ContentTypeID, entry.Slug, entry.ID) {
		return fmt.Errorf("%w: content_entries_type_slug_key", slug.ErrConflict)
	}

	stored := cloneEntry(entry, replaceValues)
	if !replaceValues {
		stored.FieldValues = existing.FieldValues
	}
	m.Entries[entry.ID] = stored
	return nil
}

func (m *MockContentEntryRepository) GetByID(ctx context.Context, id string) (*models.ContentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Entries[id]
	if !ok {
		return nil, nil
	}
	return cloneEntry(e, true), nil
}

func (m *MockContentEntryRepository) GetBySlug(ctx context.Context, contentTypeID, s string) (*models.ContentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ContentTypeID == contentTypeID && e.Slug != nil && *e.Slug == s {
			return cloneEntry(e, true), nil
		}
	}
	return nil, nil
}

func (m *MockContentEntryRepository) SlugExists(ctx context.Context, contentTypeID, s, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTaken(contentTypeID, &s, excludeID), nil
}

func (m *MockContentEntryRepository) List(ctx context.Context, contentTypeID string, status models.EntryStatus, limit, offset int) ([]*models.ContentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filter(contentTypeID, status)
	// Newest first
	sort.SliceStable(all, func(i, j int) bool { return m.seq[all[i].ID] > m.seq[all[j].ID] })

	if offset >= len(all) {
		return []*models.ContentEntry{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockContentEntryRepository) Count(ctx context.Context, contentTypeID string, status models.EntryStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filter(contentTypeID, status)), nil
}

func (m *MockContentEntryRepository) CountAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries), nil
}

func (m *MockContentEntryRepository) GetFieldValues(ctx context.Context, entryID string) ([]models.ContentFieldValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Entries[entryID]
	if !ok {
		return []models.ContentFieldValue{}, nil
	}
	return cloneEntry(e, true).FieldValues, nil
}

func (m *MockContentEntryRepository) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, publishedAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.StatusError[id]; err != nil {
		return false, err
	}
	e, ok := m.Entries[id]
	if !ok {
		return false, nil
	}
	e.Status = status
	if publishedAt != nil {
		t := *publishedAt
		e.PublishedAt = &t
	}
	e.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockContentEntryRepository) PublishScheduled(ctx context.Context, id string, publishedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.StatusError[id]; err != nil {
		return false, err
	}
	e, ok := m.Entries[id]
	if !ok || e.Status != models.EntryStatusScheduled {
		return false, nil
	}
	e.Status = models.EntryStatusPublished
	e.PublishedAt = &publishedAt
	e.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockContentEntryRepository) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]*models.ContentEntry, error) {
	m.mu.Lock()
	due := make([]*models.ContentEntry, 0)
	for _, e := range m.Entries {
		if e.Status == models.EntryStatusScheduled && e.ScheduledAt != nil && !e.ScheduledAt.After(now) {
			due = append(due, cloneEntry(e, false))
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledAt.Before(*due[j].ScheduledAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	hook := m.AfterListDue
	m.mu.Unlock()

	if hook != nil {
		hook(due)
	}
	return due, nil
}

func (m *MockContentEntryRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Entries[id]; !ok {
		return false, nil
	}
	m.remove(id)
	return true, nil
}

func (m *MockContentEntryRepository) StreamByType(ctx context.Context, contentTypeID string, callback func(*models.ContentEntry) error) error {
	m.mu.Lock()
	all := m.filter(contentTypeID, "")
	sort.SliceStable(all, func(i, j int) bool { return m.seq[all[i].ID] < m.seq[all[j].ID] })
	m.mu.Unlock()

	for _, e := range all {
		if err := callback(e); err != nil {
			return err
		}
	}
	return nil
}

// filter returns copies of the matching entries with values in field order
func (m *MockContentEntryRepository) filter(contentTypeID string, status models.EntryStatus) []*models.ContentEntry {
	out := make([]*models.ContentEntry, 0)
	for _, e := range m.Entries {
		if e.ContentTypeID != contentTypeID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, cloneEntry(e, true))
	}
	return out
}

func (m *MockContentEntryRepository) slugTaken(contentTypeID string, s *string, excludeID string) bool {
	if s == nil {
		return false
	}
	for id, e := range m.Entries {
		if id != excludeID && e.ContentTypeID == contentTypeID && e.Slug != nil && *e.Slug == *s {
			return true
		}
	}
	return false
}

// remove deletes an entry and its tag links; the caller holds the lock
func (m *MockContentEntryRepository) remove(id string) {
	delete(m.Entries, id)
	delete(m.seq, id)
	delete(m.root.Tags.EntryTags, id)
}

func cloneEntry(e *models.ContentEntry, withValues bool) *models.ContentEntry {
	c := *e
	c.ContentType = nil
	c.Tags = nil
	c.FieldValues = []models.ContentFieldValue{}
	if withValues {
		for _, v := range e.FieldValues {
			v.Field = nil
			if v.EntryID == "" {
				v.EntryID = e.ID
			}
			c.FieldValues = append(c.FieldValues, v)
		}
	}
	return &c
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mu *sync.Mutex

	Tags      map[string]*models.Tag
	EntryTags map[string][]string
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tags {
		if t.Slug == tag.Slug {
			return fmt.Errorf("%w: tags_slug_key", slug.ErrConflict)
		}
	}
	t := *tag
	m.Tags[tag.ID] = &t
	return nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tags[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (m *MockTagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Tag, 0, len(m.Tags))
	for _, t := range m.Tags {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockTagRepository) SlugExists(ctx context.Context, s string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tags {
		if t.Slug == s {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tags[id]; !ok {
		return false, nil
	}
	delete(m.Tags, id)
	for entryID, ids := range m.EntryTags {
		kept := ids[:0]
		for _, tid := range ids {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		m.EntryTags[entryID] = kept
	}
	return true, nil
}

func (m *MockTagRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tags), nil
}

func (m *MockTagRepository) SetEntryTags(ctx context.Context, entryID string, tagIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := m.Tags[id]; ok {
			ids = append(ids, id)
		}
	}
	m.EntryTags[entryID] = ids
	return nil
}

func (m *MockTagRepository) ListByEntry(ctx context.Context, entryID string) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Tag, 0)
	for _, id := range m.EntryTags[entryID] {
		if t, ok := m.Tags[id]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MockMediaRepository is a mock implementation of MediaRepository
type MockMediaRepository struct {
	mu *sync.Mutex

	Items       map[string]*models.Media
	CreateError error
}

func (m *MockMediaRepository) Create(ctx context.Context, media *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	c := *media
	m.Items[media.ID] = &c
	return nil
}

func (m *MockMediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok {
		return nil, nil
	}
	c := *item
	return &c, nil
}

func (m *MockMediaRepository) List(ctx context.Context, limit, offset int) ([]*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*models.Media, 0, len(m.Items))
	for _, item := range m.Items {
		c := *item
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []*models.Media{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockMediaRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Items), nil
}

func (m *MockMediaRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return false, nil
	}
	delete(m.Items, id)
	return true, nil
}
