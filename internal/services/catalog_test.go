package services

import (
	"context"
	"strings"
	"testing"

	"mediascope/internal/models"
	"mediascope/internal/sources"
)

func newTestCatalog() (*Catalog, Sources) {
	src := Sources{
		Movies: &rankedSource{fakeSource{name: "movies", items: map[string]*models.MediaItem{"603": item(models.MediaMovie, "603", "The Matrix")}}},
		TV:     &rankedSource{fakeSource{name: "tv", items: map[string]*models.MediaItem{}}},
		Books:  &fakeSource{name: "books", items: map[string]*models.MediaItem{"OL27448W": item(models.MediaBook, "OL27448W", "The Lord of the Rings")}},
		Games:  &rankedSource{fakeSource{name: "games", items: map[string]*models.MediaItem{}}},
		Manga:  &rankedSource{fakeSource{name: "manga", items: map[string]*models.MediaItem{"30013": item(models.MediaManga, "30013", "One Piece")}}},
	}
	return NewCatalog(src, quietLogger()), src
}

func TestCatalogDispatch(t *testing.T) {
	c, src := newTestCatalog()
	ctx := context.Background()

	res := c.GetMediaDetails(ctx, models.MediaMovie, "603")
	if res.Failed() || res.Data == nil || res.Data.Title != "The Matrix" {
		t.Fatalf("unexpected movie result %+v", res)
	}

	res = c.GetMediaDetails(ctx, models.MediaManga, "30013")
	if res.Failed() || res.Data == nil || res.Data.Title != "One Piece" {
		t.Fatalf("numeric manga id should go to the manga source, got %+v", res)
	}

	c.GetMediaDetails(ctx, models.MediaManga, "OL27448W")
	books := src.Books.(*fakeSource)
	if len(books.asked) != 1 || books.asked[0] != "OL27448W" {
		t.Errorf("work id manga should go to the book source, asked %v", books.asked)
	}
}

func TestCatalogNotFoundIsNotAnError(t *testing.T) {
	c, _ := newTestCatalog()

	res := c.GetMediaDetails(context.Background(), models.MediaTV, "999")
	if res.Failed() {
		t.Fatalf("not found must not fail, got %v", res.Err)
	}
	if res.Data != nil {
		t.Errorf("expected nil item, got %+v", res.Data)
	}
}

func TestCatalogUnsupportedType(t *testing.T) {
	c, _ := newTestCatalog()

	res := c.GetMediaDetails(context.Background(), models.MediaType("podcast"), "1")
	if !res.Failed() || res.Err.Message != "Unsupported media type: podcast" {
		t.Errorf("unexpected result %+v", res)
	}

	search := c.SearchMedia(context.Background(), "x", 1, models.MediaType("podcast"))
	if !search.Failed() {
		t.Error("expected search to fail for unsupported type")
	}
}

func TestCatalogSourceErrorBecomesResponseError(t *testing.T) {
	broken := &fakeSource{name: "games", err: &sources.UnavailableError{Source: "SteamSpy", StatusCode: 503, Message: "unexpected status"}}
	c := NewCatalog(Sources{Games: broken}, quietLogger())

	res := c.GetMediaDetails(context.Background(), models.MediaGame, "570")
	if !res.Failed() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Err.Message, "SteamSpy") {
		t.Errorf("message should name the source, got %q", res.Err.Message)
	}
}

func TestCatalogSearchAllIsDegraded(t *testing.T) {
	c, _ := newTestCatalog()

	res := c.SearchMedia(context.Background(), "matrix", 2, "")
	if res.Failed() {
		t.Fatalf("unexpected failure %v", res.Err)
	}
	if len(res.Data.Results) != 0 || res.Data.Warning == "" || res.Data.Page != 2 {
		t.Errorf("expected empty page with warning, got %+v", res.Data)
	}
}

func TestCatalogTopRated(t *testing.T) {
	c, _ := newTestCatalog()
	ctx := context.Background()

	res := c.TopRated(ctx, models.MediaMovie, 1)
	if res.Failed() || len(res.Data.Results) != 1 {
		t.Errorf("unexpected movie top rated %+v", res)
	}

	res = c.TopRated(ctx, models.MediaBook, 1)
	if !res.Failed() || res.Err.Message != "Top rated not available for book" {
		t.Errorf("unexpected book top rated %+v", res)
	}
}
