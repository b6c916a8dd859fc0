package analytics

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hooklog/internal/engine/requests"
	"hooklog/internal/platform/config"
	"hooklog/internal/platform/database"
)

// setupFileDB uses an on-disk database so several connections can share it.
func setupFileDB(t *testing.T, maxConns int) (*database.DB, int64) {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		URL:            "file:" + filepath.Join(t.TempDir(), "stats.db"),
		MaxConnections: maxConns,
		BusyTimeoutMS:  10000,
	})
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	res, err := db.Exec(`INSERT INTO webhooks (name, endpoint, is_active, created_at, updated_at) VALUES ('stats', 'ep', 1, 0, 0)`)
	if err != nil {
		t.Fatalf("Failed to seed webhook: %v", err)
	}
	id, _ := res.LastInsertId()
	return db, id
}

func TestRepository_IncrementDaily(t *testing.T) {
	db, webhookID := setupFileDB(t, 1)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.IncrementDaily(ctx, webhookID, "2026-03-01"); err != nil {
			t.Fatalf("IncrementDaily() error = %v", err)
		}
	}
	if err := repo.IncrementDaily(ctx, webhookID, "2026-03-02"); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.GetDailyStats(ctx, webhookID, "2026-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected one row per date, got %d", len(stats))
	}
	if stats[0].Date != "2026-03-02" || stats[0].TotalRequests != 1 {
		t.Errorf("Expected newest date first, got %+v", stats[0])
	}
	if stats[1].TotalRequests != 3 || stats[1].SuccessRequests != 3 {
		t.Errorf("Expected 3/3 for 2026-03-01, got %+v", stats[1])
	}

	since, _ := repo.GetDailyStats(ctx, webhookID, "2026-03-02")
	if len(since) != 1 {
		t.Errorf("Expected window to exclude older dates, got %d rows", len(since))
	}

	unknown, err := repo.GetDailyStats(ctx, 9999, "2026-01-01")
	if err != nil || unknown == nil || len(unknown) != 0 {
		t.Errorf("Expected empty slice for unknown webhook, got %#v, %v", unknown, err)
	}
}

func TestRepository_IncrementDaily_Concurrent(t *testing.T) {
	db, webhookID := setupFileDB(t, 8)
	repo := NewRepository(db)
	ctx := context.Background()

	const n = 50
	date := DateKey(time.Now())

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.IncrementDaily(ctx, webhookID, date); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("IncrementDaily() error = %v", err)
	}

	var rows, total, success int64
	err := db.QueryRow(`SELECT COUNT(*), SUM(total_requests), SUM(success_requests) FROM webhook_stats WHERE webhook_id = ? AND date = ?`,
		webhookID, date).Scan(&rows, &total, &success)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 1 || total != n || success != n {
		t.Errorf("Expected 1 row with %d/%d, got rows=%d total=%d success=%d", n, n, rows, total, success)
	}
}

func TestRepository_DeleteBefore(t *testing.T) {
	db, webhookID := setupFileDB(t, 1)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, d := range []string{"2026-01-01", "2026-01-02", "2026-01-03"} {
		if err := repo.IncrementDaily(ctx, webhookID, d); err != nil {
			t.Fatal(err)
		}
	}

	n, err := repo.DeleteBefore(ctx, "2026-01-03")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 pruned rows, got %d", n)
	}
}

func TestService_GetStatsOverview(t *testing.T) {
	db, webhookID := setupFileDB(t, 1)
	repo := NewRepository(db)
	svc := NewService(repo, requests.NewRepository(db))
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for offset := 0; offset < 10; offset++ {
		if err := repo.IncrementDaily(ctx, webhookID, DateKey(now.AddDate(0, 0, -offset))); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		days  int
		want  int
		first string
	}{
		{1, 1, "2026-05-10"},
		{7, 7, "2026-05-10"},
		{30, 10, "2026-05-10"},
	}

	for _, tt := range tests {
		stats, err := svc.GetStatsOverview(ctx, webhookID, tt.days)
		if err != nil {
			t.Fatal(err)
		}
		if len(stats) != tt.want {
			t.Errorf("days=%d: expected %d rows, got %d", tt.days, tt.want, len(stats))
			continue
		}
		if stats[0].Date != tt.first {
			t.Errorf("days=%d: expected newest %s, got %s", tt.days, tt.first, stats[0].Date)
		}
	}
}
