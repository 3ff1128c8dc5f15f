package benchmark

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/codec"
	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/format"
	"github.com/content-modeling-api/internal/mocks"
	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/content-modeling-api/internal/slug"
	"github.com/rs/zerolog"
)

func newServices(b *testing.B) *service.Services {
	b.Helper()
	registry, err := bulk.NewRegistry(bulk.DefaultActions())
	if err != nil {
		b.Fatal(err)
	}
	cfg := &config.Config{
		Content: config.ContentConfig{DefaultPageSize: 20, MaxPageSize: 100, SlugMaxAttempts: 5},
		Media:   config.MediaConfig{URLPrefix: "/v1/media/"},
	}
	repos := mocks.NewMockRepositories()
	return service.NewServices(repos.Repositories(), mocks.NewMockBlobStore(), registry, cfg, zerolog.Nop())
}

// seedArticles creates a type with n entries
func seedArticles(b *testing.B, svc *service.Services, n int) *models.ContentType {
	b.Helper()
	ctx := context.Background()

	ct, err := svc.ContentType.Create(ctx, &models.CreateContentTypeRequest{
		Name: "article",
		Fields: []models.CreateContentFieldRequest{
			{Name: "title", FieldType: models.FieldTypeText, Required: true},
			{Name: "views", FieldType: models.FieldTypeNumber},
			{Name: "published_on", FieldType: models.FieldTypeDate},
		},
	})
	if err != nil {
		b.Fatal(err)
	}

	for i := 0; i < n; i++ {
		_, err := svc.Entry.Create(ctx, ct.ID, &models.CreateEntryRequest{
			FieldValues: []models.FieldValueInput{
				{FieldID: ct.Fields[0].ID, Value: fmt.Sprintf("Article %d", i)},
				{FieldID: ct.Fields[1].ID, Value: float64(i)},
				{FieldID: ct.Fields[2].ID, Value: "2024-01-01T00:00:00Z"},
			},
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return ct
}

// BenchmarkSlugify benchmarks slug generation from display names
func BenchmarkSlugify(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		slug.Slugify("Crème Brûlée: A Field Guide to Caramelised Sugar")
	}
}

// BenchmarkSlugResolveCollisions benchmarks suffix probing against taken slugs
func BenchmarkSlugResolveCollisions(b *testing.B) {
	taken := map[string]bool{"post": true}
	for i := 1; i < 50; i++ {
		taken[slug.Candidate("post", i)] = true
	}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := slug.Resolve(context.Background(), "post", exists); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCodecRoundTrip benchmarks value encoding and typed decoding
func BenchmarkCodecRoundTrip(b *testing.B) {
	values := []struct {
		v  interface{}
		ft models.FieldType
	}{
		{"hello world", models.FieldTypeText},
		{42.5, models.FieldTypeNumber},
		{true, models.FieldTypeBoolean},
		{[]interface{}{"a", "b", "c"}, models.FieldTypeJSON},
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, tv := range values {
			raw, err := codec.Encode(tv.v)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := codec.Decode(raw, tv.ft); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkEntryCreate benchmarks entry creation with value validation and encoding
func BenchmarkEntryCreate(b *testing.B) {
	svc := newServices(b)
	ct := seedArticles(b, svc, 0)
	req := &models.CreateEntryRequest{
		FieldValues: []models.FieldValueInput{
			{FieldID: ct.Fields[0].ID, Value: "Benchmark"},
			{FieldID: ct.Fields[1].ID, Value: float64(7)},
		},
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Entry.Create(context.Background(), ct.ID, req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEntryList benchmarks paginated listing
func BenchmarkEntryList(b *testing.B) {
	svc := newServices(b)
	ct := seedArticles(b, svc, 1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		page, err := svc.Entry.List(context.Background(), ct.ID, models.ListEntriesRequest{Page: i%50 + 1, PageSize: 20})
		if err != nil {
			b.Fatal(err)
		}
		if page.Total != 1000 {
			b.Fatalf("total = %d", page.Total)
		}
	}
}

// BenchmarkStreamExport benchmarks streaming export per format
func BenchmarkStreamExport(b *testing.B) {
	svc := newServices(b)
	ct := seedArticles(b, svc, 1000)

	for _, f := range []string{"ndjson", "json", "csv"} {
		b.Run(f, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				rec := httptest.NewRecorder()
				if err := svc.Export.StreamEntries(context.Background(), rec, ct.ID, f); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
		})
	}
}

// BenchmarkFormatEntry benchmarks display formatting of a full entry
func BenchmarkFormatEntry(b *testing.B) {
	svc := newServices(b)
	ct := seedArticles(b, svc, 1)
	ct, err := svc.ContentType.Get(context.Background(), ct.ID)
	if err != nil {
		b.Fatal(err)
	}
	page, err := svc.Entry.List(context.Background(), ct.ID, models.ListEntriesRequest{})
	if err != nil {
		b.Fatal(err)
	}
	entry := page.Entries[0]
	f := format.New("/v1/media/")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		f.FormatEntry(ct, entry)
	}
}

// BenchmarkSelectionParallel benchmarks concurrent toggles on the bulk controller
func BenchmarkSelectionParallel(b *testing.B) {
	registry, _ := bulk.NewRegistry(bulk.DefaultActions())
	ctrl := bulk.NewController(registry, func(context.Context, string, []string) error { return nil }, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			ctrl.Toggle(fmt.Sprintf("entry-%d", i%64))
			i++
		}
	})
}

