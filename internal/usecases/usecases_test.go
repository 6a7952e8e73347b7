package usecases

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
	"mediascope/internal/repository"
	"mediascope/internal/services"
)

const testUser = "5f1c2b8e-8f7a-4d2b-9a43-0c6f0b9d1e21"

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

// fakePort records whether it was reached and answers from its fields.
type fakePort struct {
	MediaPort
	calls   int
	details models.Result[*models.MediaItem]
	remove  models.Result[bool]
	logged  models.LogInput
}

func (f *fakePort) GetMediaDetails(context.Context, models.MediaType, string) models.Result[*models.MediaItem] {
	f.calls++
	return f.details
}

func (f *fakePort) SearchMedia(_ context.Context, _ string, page int, mt models.MediaType) models.Result[*models.SearchResponse] {
	f.calls++
	res := models.EmptySearch(page)
	if mt == "" {
		res.Warning = "all"
	}
	return models.Ok(res)
}

func (f *fakePort) ToggleBacklog(context.Context, string, models.MediaType, string) models.Result[bool] {
	f.calls++
	return models.Ok(true)
}

func (f *fakePort) LogItem(_ context.Context, userID string, in models.LogInput) models.Result[*models.UserMediaLog] {
	f.calls++
	f.logged = in
	return models.Ok(&models.UserMediaLog{UserID: userID, MediaType: in.MediaType, ExternalID: in.ExternalID, Rating: in.Rating})
}

func (f *fakePort) RemoveLog(context.Context, string, models.MediaType, string) models.Result[bool] {
	f.calls++
	return f.remove
}

func TestValidationHappensBeforeIO(t *testing.T) {
	port := &fakePort{}
	uc := New(port, nil)
	ctx := context.Background()

	_, err := uc.ToggleBacklog.Execute(ctx, testUser, "", "  ")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["media_type"] == "" || verr.Fields["external_id"] == "" {
		t.Errorf("message should name both fields, got %v", verr.Fields)
	}
	if !strings.Contains(err.Error(), "external_id is required") {
		t.Errorf("unexpected message %q", err.Error())
	}

	_, err = uc.ToggleBacklog.Execute(ctx, "not-a-uuid", "movie", "603")
	if !errors.As(err, &verr) || verr.Fields["user_id"] == "" {
		t.Errorf("expected user_id validation error, got %v", err)
	}

	_, err = uc.GetMediaDetails.Execute(ctx, "podcast", "1")
	if !errors.As(err, &verr) || !strings.Contains(verr.Fields["media_type"], "movie, tv, book, game, manga") {
		t.Errorf("expected media_type validation error, got %v", err)
	}

	if port.calls != 0 {
		t.Errorf("port reached %d times on invalid input", port.calls)
	}
}

func TestLogItemValidation(t *testing.T) {
	port := &fakePort{}
	uc := New(port, nil)
	ctx := context.Background()

	_, err := uc.LogItem.Execute(ctx, testUser, models.LogInput{
		MediaType:   models.MediaMovie,
		ExternalID:  "603",
		Rating:      intPtr(11),
		WatchedDate: strPtr("yesterday"),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["rating"]; !ok {
		t.Errorf("expected rating error, got %v", verr.Fields)
	}
	if _, ok := verr.Fields["watched_date"]; !ok {
		t.Errorf("expected watched_date error, got %v", verr.Fields)
	}

	l, err := uc.LogItem.Execute(ctx, testUser, models.LogInput{
		MediaType:   "MOVIE ",
		ExternalID:  " 603",
		Rating:      intPtr(7),
		WatchedDate: strPtr("2024-02-29"),
		Review:      strPtr("  fine  "),
	})
	if err != nil {
		t.Fatalf("LogItem failed: %v", err)
	}
	if l.MediaType != models.MediaMovie || l.ExternalID != "603" || *port.logged.Review != "fine" {
		t.Errorf("input was not normalized: %+v / %+v", l, port.logged)
	}
}

func TestResponseErrorBecomesOperationError(t *testing.T) {
	port := &fakePort{details: models.Fail[*models.MediaItem]("TMDB movie unavailable (status 503)")}
	uc := New(port, nil)

	_, err := uc.GetMediaDetails.Execute(context.Background(), "movie", "603")
	var oerr *OperationError
	if !errors.As(err, &oerr) || oerr.Message != "TMDB movie unavailable (status 503)" {
		t.Fatalf("expected OperationError carrying the message, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("source failure must not match ErrNotFound")
	}
}

func TestMissingItemIsNotFound(t *testing.T) {
	port := &fakePort{details: models.Ok[*models.MediaItem](nil)}
	uc := New(port, nil)

	_, err := uc.GetMediaDetails.Execute(context.Background(), "tv", "1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	port.remove = models.FailNotFound[bool]("No log found for tv 1")
	err = uc.RemoveLog.Execute(context.Background(), testUser, "tv", "1")
	if !errors.Is(err, ErrNotFound) || err.Error() != "No log found for tv 1" {
		t.Errorf("expected not-found OperationError, got %v", err)
	}
}

func TestSearchAllTakesDegradedPath(t *testing.T) {
	uc := New(&fakePort{}, nil)

	res, err := uc.SearchMedia.Execute(context.Background(), "dune", 1, "all")
	if err != nil {
		t.Fatalf("SearchMedia failed: %v", err)
	}
	if res.Warning == "" {
		t.Error("expected the all-types path")
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestStreamLogs(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3"} {
		store.UpsertLog(ctx, testUser, models.LogInput{MediaType: models.MediaGame, ExternalID: id, Rating: intPtr(5)})
	}
	details := services.NewCatalog(services.Sources{}, quietLogger())
	engine := services.NewEngine(details, store, 2, quietLogger())
	uc := New(&fakePort{}, engine)

	var first *models.DisplayPage
	rows := 0
	err := uc.StreamLogs.Execute(ctx, testUser, LogQueryInput{MediaType: "game"},
		func(p *models.DisplayPage) { first = p },
		func(int, models.DisplayRecord) { rows++ })
	if err != nil {
		t.Fatalf("StreamLogs failed: %v", err)
	}

	if first == nil || len(first.Items) != 3 || !first.Items[0].IsLoading || first.TotalResults != 3 {
		t.Fatalf("unexpected first event %+v", first)
	}
	if rows != 3 {
		t.Errorf("expected 3 row events, got %d", rows)
	}
}

func TestListLogsRejectsUnknownSort(t *testing.T) {
	uc := New(&fakePort{}, nil)

	_, err := uc.ListLogs.Execute(context.Background(), testUser, LogQueryInput{Sort: "popularity"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["sort"] == "" {
		t.Errorf("expected sort validation error, got %v", err)
	}
}

func TestValidationReportsUserAndBodyTogether(t *testing.T) {
	port := &fakePort{}
	uc := New(port, nil)
	ctx := context.Background()

	_, err := uc.LogItem.Execute(ctx, "not-a-uuid", models.LogInput{ExternalID: "603", Rating: intPtr(0)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"user_id", "media_type", "rating"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected %s in %v", field, verr.Fields)
		}
	}

	_, err = uc.UpdateProfile.Execute(ctx, "", models.ProfileInput{Username: strPtr(" x ")})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["user_id"] == "" || verr.Fields["username"] == "" {
		t.Errorf("expected user_id and username errors, got %v", verr.Fields)
	}

	if port.calls != 0 {
		t.Errorf("invalid input must not reach the port, got %d calls", port.calls)
	}
}
