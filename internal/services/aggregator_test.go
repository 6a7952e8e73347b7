package services

import (
	"context"
	"testing"

	"mediascope/internal/models"
	"mediascope/internal/repository"
)

func newTestAggregator() (*Aggregator, *repository.MemoryStore) {
	catalog, _ := newTestCatalog()
	store := repository.NewMemoryStore()
	return NewAggregator(catalog, nil, store, quietLogger()), store
}

func TestAggregatorLogItemStoresSnapshot(t *testing.T) {
	a, store := newTestAggregator()
	ctx := context.Background()

	res := a.LogItem(ctx, testUser, models.LogInput{MediaType: models.MediaMovie, ExternalID: "603", Rating: intPtr(9)})
	if res.Failed() {
		t.Fatalf("LogItem failed: %v", res.Err)
	}

	logs, _ := store.ListLogs(ctx, testUser, models.MediaMovie)
	if len(logs) != 1 || logs[0].Media == nil || logs[0].Media.Title != "The Matrix" {
		t.Errorf("expected snapshot joined to the log, got %+v", logs)
	}
}

func TestAggregatorLogItemWithoutDetails(t *testing.T) {
	a, store := newTestAggregator()
	ctx := context.Background()

	res := a.LogItem(ctx, testUser, models.LogInput{MediaType: models.MediaTV, ExternalID: "404", Liked: boolPtr(true)})
	if res.Failed() {
		t.Fatalf("a missing snapshot must not fail the write: %v", res.Err)
	}
	l, _ := store.GetLog(ctx, testUser, models.MediaTV, "404")
	if l == nil || l.Media != nil {
		t.Errorf("expected log without snapshot, got %+v", l)
	}
}

func TestAggregatorRemoveLog(t *testing.T) {
	a, _ := newTestAggregator()
	ctx := context.Background()

	res := a.RemoveLog(ctx, testUser, models.MediaMovie, "603")
	if !res.Failed() || !res.Err.NotFound {
		t.Errorf("removing a missing log should be a not-found failure, got %+v", res)
	}

	a.LogItem(ctx, testUser, models.LogInput{MediaType: models.MediaMovie, ExternalID: "603"})
	res = a.RemoveLog(ctx, testUser, models.MediaMovie, "603")
	if res.Failed() || !res.Data {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestAggregatorBacklog(t *testing.T) {
	a, _ := newTestAggregator()
	ctx := context.Background()

	if res := a.ToggleBacklog(ctx, testUser, models.MediaManga, "30013"); res.Failed() || !res.Data {
		t.Fatalf("expected item added, got %+v", res)
	}
	if res := a.GetBacklogStatus(ctx, testUser, models.MediaManga, "30013"); !res.Data {
		t.Error("expected item in backlog")
	}

	list := a.ListBacklog(ctx, testUser, "")
	if len(list.Data) != 1 || list.Data[0].Media == nil || list.Data[0].Media.Title != "One Piece" {
		t.Errorf("unexpected backlog %+v", list.Data)
	}
}

func TestAggregatorUsesDetailsGetter(t *testing.T) {
	catalog, _ := newTestCatalog()
	calls := 0
	cached := detailsFunc(func(_ context.Context, mt models.MediaType, id string) models.Result[*models.MediaItem] {
		calls++
		return models.Ok(item(mt, id, "cached"))
	})
	a := NewAggregator(catalog, cached, repository.NewMemoryStore(), quietLogger())

	res := a.GetMediaDetails(context.Background(), models.MediaMovie, "603")
	if calls != 1 || res.Data.Title != "cached" {
		t.Errorf("details should go through the injected getter, got %d calls, %+v", calls, res.Data)
	}
}
