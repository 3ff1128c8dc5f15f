package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/content-modeling-api/internal/codec"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/repository"
	"github.com/rs/zerolog"
)

// Export formats accepted by StreamEntries
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// ErrUnsupportedFormat is returned for unknown export formats
var ErrUnsupportedFormat = errors.New("unsupported export format")

// exportRecord is the exported form of one entry
type exportRecord struct {
	ID          string                 `json:"id"`
	Slug        *string                `json:"slug,omitempty"`
	Status      models.EntryStatus     `json:"status"`
	PublishedAt *time.Time             `json:"published_at,omitempty"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamEntries streams every entry of a content type in the given format.
// Lookup and format errors are returned before anything is written.
func (s *exportService) StreamEntries(ctx context.Context, w http.ResponseWriter, typeID, format string) error {
	if format != FormatNDJSON && format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if !isUUID(typeID) {
		return ErrContentTypeNotFound
	}
	ct, err := s.repos.ContentType.GetByID(ctx, typeID)
	if err != nil {
		return fmt.Errorf("failed to get content type: %w", err)
	}
	if ct == nil {
		return ErrContentTypeNotFound
	}

	s.log.Info().Str("content_type", ct.Slug).Str("format", format).Msg("Starting entries export")

	switch format {
	case FormatNDJSON:
		return s.streamNDJSON(ctx, w, ct)
	case FormatJSON:
		return s.streamJSON(ctx, w, ct)
	default:
		return s.streamCSV(ctx, w, ct)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter, ct *models.ContentType) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename="+ct.Slug+".ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.ContentEntry.StreamByType(ctx, ct.ID, func(entry *models.ContentEntry) error {
		data, err := json.Marshal(toRecord(ct, entry))
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Str("content_type", ct.Slug).Msg("Entries export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter, ct *models.ContentType) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+ct.Slug+".json")

	w.Write([]byte("["))
	first := true

	err := s.repos.ContentEntry.StreamByType(ctx, ct.ID, func(entry *models.ContentEntry) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(toRecord(ct, entry))
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

// streamCSV writes one column per field holding the stored text
func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter, ct *models.ContentType) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+ct.Slug+".csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "slug", "status", "published_at", "created_at", "updated_at"}
	for _, f := range ct.Fields {
		header = append(header, f.Name)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	return s.repos.ContentEntry.StreamByType(ctx, ct.ID, func(entry *models.ContentEntry) error {
		raw := make(map[string]string, len(entry.FieldValues))
		for _, v := range entry.FieldValues {
			raw[v.FieldID] = v.Value
		}

		row := []string{
			entry.ID,
			deref(entry.Slug),
			string(entry.Status),
			formatTime(entry.PublishedAt),
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.UpdatedAt.UTC().Format(time.RFC3339),
		}
		for _, f := range ct.Fields {
			row = append(row, raw[f.ID])
		}
		return writer.Write(row)
	})
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "content_types":
		return s.repos.ContentType.Count(ctx)
	case "entries":
		return s.repos.ContentEntry.CountAll(ctx)
	case "media":
		return s.repos.Media.Count(ctx)
	case "tags":
		return s.repos.Tag.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}

func toRecord(ct *models.ContentType, entry *models.ContentEntry) exportRecord {
	return exportRecord{
		ID:          entry.ID,
		Slug:        entry.Slug,
		Status:      entry.Status,
		PublishedAt: entry.PublishedAt,
		Fields:      codec.DecodeValues(ct, entry.FieldValues),
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
