package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"docsum/internal/domain/entity"
	pg "docsum/internal/infra/adapter/persistence/postgres"
)

func summaryRow(s *entity.Summary, insightsJSON string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"doc_id", "filename", "summary", "insights", "template",
		"file_size", "processing_time_ms", "chunks_count", "created_at",
	}).AddRow(
		s.DocID, s.Filename, s.Summary, []byte(insightsJSON), s.Template,
		s.FileSize, s.ProcessingTime.Milliseconds(), s.ChunksCount, s.CreatedAt,
	)
}

func testSummary(now time.Time) *entity.Summary {
	return &entity.Summary{
		DocID:          "8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c",
		Filename:       "report.txt",
		Summary:        "the report covers quarterly revenue",
		Insights:       []string{"revenue grew", "costs flat"},
		Template:       "general",
		FileSize:       2048,
		ProcessingTime: 1500 * time.Millisecond,
		ChunksCount:    3,
		CreatedAt:      now,
	}
}

func TestSummaryRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := testSummary(now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO summaries")).
		WithArgs(s.DocID, s.Filename, s.Summary, []byte(`["revenue grew","costs flat"]`),
			s.Template, s.FileSize, int64(1500), s.ChunksCount, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := pg.NewSummaryRepo(db)
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSummaryRepo_Create_InvalidEntity(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	repo := pg.NewSummaryRepo(db)
	err := repo.Create(context.Background(), &entity.Summary{DocID: "", Filename: "f", Summary: "s"})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestSummaryRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	want := testSummary(now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc_id")).
		WithArgs(want.DocID).
		WillReturnRows(summaryRow(want, `["revenue grew","costs flat"]`))

	repo := pg.NewSummaryRepo(db)
	got, err := repo.Get(context.Background(), want.DocID)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc_id")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"doc_id", "filename", "summary", "insights", "template",
			"file_size", "processing_time_ms", "chunks_count", "created_at",
		}))

	repo := pg.NewSummaryRepo(db)
	got, err := repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing row, got %+v", got)
	}
}

func TestSummaryRepo_ListPaginated(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery("FROM summaries").
		WithArgs(10, 0).
		WillReturnRows(summaryRow(testSummary(now), `["revenue grew","costs flat"]`))

	repo := pg.NewSummaryRepo(db)
	got, err := repo.ListPaginated(context.Background(), 0, 10)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListPaginated err=%v len=%d", err, len(got))
	}
}

func TestSummaryRepo_Count(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM summaries")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	repo := pg.NewSummaryRepo(db)
	count, err := repo.Count(context.Background())
	if err != nil || count != 42 {
		t.Fatalf("Count err=%v count=%d", err, count)
	}
}

func TestSummaryRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM summaries WHERE doc_id")).
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewSummaryRepo(db)
	if err := repo.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
}

func TestSummaryRepo_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM summaries WHERE doc_id")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewSummaryRepo(db)
	err := repo.Delete(context.Background(), "missing")
	if err != entity.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummaryRepo_DeleteOlderThan(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM summaries WHERE created_at")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	repo := pg.NewSummaryRepo(db)
	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)
	if err != nil || deleted != 7 {
		t.Fatalf("DeleteOlderThan err=%v deleted=%d", err, deleted)
	}
}

func TestSummaryRepo_DeleteOldestBeyond(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM summaries")).
		WithArgs(50).
		WillReturnResult(sqlmock.NewResult(0, 12))

	repo := pg.NewSummaryRepo(db)
	deleted, err := repo.DeleteOldestBeyond(context.Background(), 50)
	if err != nil || deleted != 12 {
		t.Fatalf("DeleteOldestBeyond err=%v deleted=%d", err, deleted)
	}
}

func TestSummaryRepo_Stats(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "week", "sum", "avg"}).
			AddRow(int64(10), int64(4), int64(20480), float64(1200)))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY template")).
		WillReturnRows(sqlmock.NewRows([]string{"template", "count"}).
			AddRow("general", int64(7)).
			AddRow("contract_analysis", int64(3)))

	repo := pg.NewSummaryRepo(db)
	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err=%v", err)
	}
	if stats.TotalSummaries != 10 || stats.SummariesThisWeek != 4 || stats.TotalBytes != 20480 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.AvgProcessingTime != 1200*time.Millisecond {
		t.Fatalf("unexpected avg: %v", stats.AvgProcessingTime)
	}
	if stats.TemplateCounts["general"] != 7 || stats.TemplateCounts["contract_analysis"] != 3 {
		t.Fatalf("unexpected template counts: %+v", stats.TemplateCounts)
	}
	if stats.MostUsedTemplate != "general" {
		t.Fatalf("unexpected most used template: %q", stats.MostUsedTemplate)
	}
}
