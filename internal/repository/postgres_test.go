package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"mediascope/internal/database"
	"mediascope/internal/models"
)

const otherUser = "9a0d7c3e-2b61-4f0e-8c55-3e7a1d2f4b90"

// postgresTestStore connects to TEST_DATABASE_URL and clears the test users.
// Skipped unless TEST_DATABASE_URL is set.
func postgresTestStore(t *testing.T) LogStore {
	t.Helper()
	url := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	purge := func() {
		if _, err := pool.Exec(ctx, `DELETE FROM profiles WHERE id = ANY($1::uuid[])`, []string{testUser, otherUser}); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	}
	purge()
	t.Cleanup(purge)
	return NewPostgresStore(pool)
}

func TestPostgresUpsertKeepsUnsetFields(t *testing.T) {
	s := postgresTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertLog(ctx, testUser, models.LogInput{
		MediaType: models.MediaMovie, ExternalID: "603",
		Rating: intPtr(8), Review: strPtr("great"), WatchedDate: strPtr("2024-03-01"),
	}); err != nil {
		t.Fatalf("UpsertLog failed: %v", err)
	}

	l, err := s.UpsertLog(ctx, testUser, models.LogInput{
		MediaType: models.MediaMovie, ExternalID: "603", Liked: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpsertLog failed: %v", err)
	}
	if l.Rating == nil || *l.Rating != 8 {
		t.Errorf("rating should be kept, got %v", l.Rating)
	}
	if l.Review == nil || *l.Review != "great" {
		t.Errorf("review should be kept, got %v", l.Review)
	}
	if l.WatchedDate == nil || *l.WatchedDate != "2024-03-01" {
		t.Errorf("watched date should be kept, got %v", l.WatchedDate)
	}
	if l.Liked == nil || !*l.Liked {
		t.Errorf("liked should be set, got %v", l.Liked)
	}

	if p, _ := s.GetProfile(ctx, testUser); p == nil {
		t.Error("logging should create the profile")
	}
}

func TestPostgresListFiltersByTypeAndUser(t *testing.T) {
	s := postgresTestStore(t)
	ctx := context.Background()

	s.UpsertLog(ctx, testUser, models.LogInput{MediaType: models.MediaMovie, ExternalID: "1"})
	s.UpsertLog(ctx, testUser, models.LogInput{MediaType: models.MediaBook, ExternalID: "OL1W"})
	s.UpsertLog(ctx, otherUser, models.LogInput{MediaType: models.MediaMovie, ExternalID: "2"})
	if err := s.UpsertMediaSnapshot(ctx, models.MediaMovie, "1", models.MediaSnapshot{Title: "Heat"}); err != nil {
		t.Fatalf("UpsertMediaSnapshot failed: %v", err)
	}

	all, err := s.ListLogs(ctx, testUser, "")
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("empty filter should list every type, got %d", len(all))
	}

	movies, _ := s.ListLogs(ctx, testUser, models.MediaMovie)
	if len(movies) != 1 || movies[0].ExternalID != "1" {
		t.Fatalf("expected only movie 1, got %+v", movies)
	}
	if movies[0].Media == nil || movies[0].Media.Title != "Heat" {
		t.Errorf("expected joined snapshot, got %+v", movies[0].Media)
	}

	if ok, _ := s.DeleteLog(ctx, testUser, models.MediaMovie, "1"); !ok {
		t.Error("expected delete to report a removed row")
	}
	if ok, _ := s.DeleteLog(ctx, testUser, models.MediaMovie, "1"); ok {
		t.Error("second delete should report nothing removed")
	}
}

func TestPostgresToggleBacklog(t *testing.T) {
	s := postgresTestStore(t)
	ctx := context.Background()

	added, err := s.ToggleBacklog(ctx, testUser, models.MediaGame, "730")
	if err != nil || !added {
		t.Fatalf("first toggle should add, got %v %v", added, err)
	}
	if in, _ := s.IsInBacklog(ctx, testUser, models.MediaGame, "730"); !in {
		t.Error("expected item in backlog")
	}
	counts, _ := s.CountBacklog(ctx, testUser)
	if counts[models.MediaGame] != 1 {
		t.Errorf("expected 1 game in backlog, got %v", counts)
	}

	added, err = s.ToggleBacklog(ctx, testUser, models.MediaGame, "730")
	if err != nil || added {
		t.Fatalf("second toggle should remove, got %v %v", added, err)
	}
	if in, _ := s.IsInBacklog(ctx, testUser, models.MediaGame, "730"); in {
		t.Error("expected item removed from backlog")
	}
}
