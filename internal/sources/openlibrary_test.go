package sources

import (
	"context"
	"testing"

	"mediascope/internal/models"
)

const olSearchBody = `{
  "numFound": 45,
  "docs": [
    {"key": "/works/OL27448W", "title": "The Lord of the Rings", "author_name": ["J.R.R. Tolkien"],
     "first_publish_year": 1954, "cover_i": 9255566, "subject": ["Fantasy", "Fiction"],
     "number_of_pages_median": 1193, "ratings_average": 4.5, "ratings_count": 300},
    {"key": "/books/OL1M", "title": "Edition without a work key"},
    {"key": "/works/OL82563W", "title": "Watchmen", "subject": ["Superheroes", "Graphic novels"]},
    {"key": "/works/OL1X", "title": "Malformed key"}
  ]
}`

func newTestOpenLibrary(t *testing.T, routes map[string]string) *OpenLibrary {
	srv, _ := newRouteServer(t, routes)
	return NewOpenLibrary(OpenLibraryConfig{BaseURL: srv.URL, Client: testClientConfig()})
}

func TestOpenLibrarySearch(t *testing.T) {
	ol := newTestOpenLibrary(t, map[string]string{"/search.json": olSearchBody})

	res, err := ol.Search(context.Background(), "rings", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("expected docs without work keys to be dropped, got %d results", len(res.Results))
	}
	if res.TotalPages != 3 {
		t.Errorf("expected 3 pages for 45 results, got %d", res.TotalPages)
	}

	lotr := res.Results[0]
	if lotr.ID != "book-OL27448W" || lotr.MediaType != models.MediaBook {
		t.Errorf("unexpected identity %s / %s", lotr.ID, lotr.MediaType)
	}
	if lotr.PosterURL == nil || *lotr.PosterURL != "https://covers.openlibrary.org/b/id/9255566-L.jpg" {
		t.Errorf("unexpected cover %v", lotr.PosterURL)
	}
	if lotr.ReleaseDate == nil || *lotr.ReleaseDate != "1954-01-01" {
		t.Errorf("unexpected release date %v", lotr.ReleaseDate)
	}
	if lotr.AverageScore == nil || *lotr.AverageScore != 9 {
		t.Errorf("expected 4.5/5 to normalize to 9, got %v", lotr.AverageScore)
	}
	if lotr.PageCount == nil || *lotr.PageCount != 1193 {
		t.Errorf("unexpected page count %v", lotr.PageCount)
	}
	assertScoreInRange(t, "openlibrary", lotr.AverageScore)

	watchmen := res.Results[1]
	if watchmen.MediaType != models.MediaManga || watchmen.ID != "manga-OL82563W" {
		t.Errorf("graphic novel should classify as manga, got %s", watchmen.ID)
	}
	if watchmen.PosterURL != nil {
		t.Errorf("missing cover id should give nil poster, got %s", *watchmen.PosterURL)
	}
	if watchmen.AverageScore != nil {
		t.Errorf("no ratings should give nil score, got %v", *watchmen.AverageScore)
	}
}

func TestClassifySubjects(t *testing.T) {
	if got := classifySubjects([]string{"History", "Graphic novels"}); got != models.MediaManga {
		t.Errorf("expected manga, got %s", got)
	}
	if got := classifySubjects([]string{"Comics & Graphic Novels, Manga"}); got != models.MediaManga {
		t.Errorf("expected manga, got %s", got)
	}
	if got := classifySubjects([]string{"Fantasy", "Fiction"}); got != models.MediaBook {
		t.Errorf("expected book, got %s", got)
	}
	if got := classifySubjects(nil); got != models.MediaBook {
		t.Errorf("expected book for no subjects, got %s", got)
	}
}

func TestOpenLibraryDetails(t *testing.T) {
	ol := newTestOpenLibrary(t, map[string]string{
		"/works/OL27448W.json": `{
		  "key": "/works/OL27448W",
		  "title": "The Lord of the Rings",
		  "description": {"type": "/type/text", "value": "An epic."},
		  "covers": [9255566],
		  "subjects": ["Fantasy"],
		  "first_publish_date": "October 20, 1955",
		  "authors": [{"author": {"key": "/authors/OL26320A"}}, {"author": {"key": "/authors/OL0A"}}]
		}`,
		"/authors/OL26320A.json":       `{"name": "J.R.R. Tolkien"}`,
		"/works/OL27448W/ratings.json": `{"summary": {"average": 4.25, "count": 120}}`,
	})

	item, err := ol.GetDetails(context.Background(), "OL27448W")
	if err != nil {
		t.Fatalf("GetDetails failed: %v", err)
	}
	if item == nil {
		t.Fatal("expected an item")
	}
	if item.Description == nil || *item.Description != "An epic." {
		t.Errorf("unexpected description %v", item.Description)
	}
	if item.ReleaseDate == nil || *item.ReleaseDate != "1955-10-20" {
		t.Errorf("unexpected release date %v", item.ReleaseDate)
	}
	if len(item.Authors) != 1 || item.Authors[0] != "J.R.R. Tolkien" {
		t.Errorf("missing author should be skipped, got %#v", item.Authors)
	}
	if item.AverageScore == nil || *item.AverageScore != 8.5 {
		t.Errorf("expected 8.5, got %v", item.AverageScore)
	}
}

func TestOpenLibraryDetailsFollowsRedirect(t *testing.T) {
	ol := newTestOpenLibrary(t, map[string]string{
		"/works/OL1W.json": `{"key": "/works/OL1W", "type": {"key": "/type/redirect"}, "location": "/works/OL2W"}`,
		"/works/OL2W.json": `{"key": "/works/OL2W", "title": "Merged Work", "description": "plain"}`,
	})

	item, err := ol.GetDetails(context.Background(), "OL1W")
	if err != nil {
		t.Fatalf("GetDetails failed: %v", err)
	}
	if item == nil || item.ExternalID != "OL2W" || item.Title != "Merged Work" {
		t.Errorf("expected redirect target, got %+v", item)
	}
	if item.AverageScore != nil {
		t.Error("missing ratings should leave score nil")
	}
}

func TestOpenLibraryNotFound(t *testing.T) {
	ol := newTestOpenLibrary(t, map[string]string{})

	item, err := ol.GetDetails(context.Background(), "OL404W")
	if err != nil || item != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", item, err)
	}

	item, err = ol.GetDetails(context.Background(), "12345")
	if err != nil || item != nil {
		t.Errorf("invalid work id should be not found, got (%v, %v)", item, err)
	}
}
