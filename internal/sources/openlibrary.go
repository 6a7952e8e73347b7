package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"mediascope/internal/models"
)

const (
	openLibraryAPIURL      = "https://openlibrary.org"
	openLibraryCoverURL    = "https://covers.openlibrary.org/b/id/%d-L.jpg"
	openLibraryScoreSource = "Open Library"
	openLibraryMaxGenres   = 8
	openLibraryMaxAuthors  = 5
	openLibrarySearchField = "key,title,subtitle,author_name,first_publish_year,cover_i,subject,number_of_pages_median,ratings_average,ratings_count"
)

var (
	workKeyRe = regexp.MustCompile(`^/works/(OL\d+W)$`)
	workIDRe  = regexp.MustCompile(`^OL\d+W$`)
)

// IsWorkID reports whether id has the Open Library work form OL123W.
func IsWorkID(id string) bool { return workIDRe.MatchString(id) }

type OpenLibraryConfig struct {
	BaseURL string
	Client  ClientConfig
}

// OpenLibrary serves books, and manga-like works detected from subjects.
type OpenLibrary struct {
	baseURL string
	client  *httpClient
	logger  *logrus.Logger
}

func NewOpenLibrary(cfg OpenLibraryConfig) *OpenLibrary {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openLibraryAPIURL
	}
	client := newHTTPClient("Open Library", cfg.Client)
	return &OpenLibrary{baseURL: strings.TrimRight(cfg.BaseURL, "/"), client: client, logger: client.logger}
}

func (o *OpenLibrary) Name() string { return "Open Library" }

type olSearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
	Subject          []string `json:"subject"`
	PagesMedian      int      `json:"number_of_pages_median"`
	RatingsAverage   float64  `json:"ratings_average"`
	RatingsCount     int      `json:"ratings_count"`
}

func (o *OpenLibrary) Search(ctx context.Context, query string, page int) (*models.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return models.EmptySearch(page), nil
	}
	if page < 1 {
		page = 1
	}
	o.logger.WithField("query", query).Info("Searching Open Library...")

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("fields", openLibrarySearchField)

	var res struct {
		NumFound int           `json:"numFound"`
		Docs     []olSearchDoc `json:"docs"`
	}
	if err := o.client.getJSON(ctx, o.baseURL+"/search.json?"+params.Encode(), nil, &res); err != nil {
		return nil, err
	}

	out := &models.SearchResponse{
		Page:         page,
		Results:      make([]models.MediaItem, 0, len(res.Docs)),
		TotalPages:   totalPages(res.NumFound, pageSize),
		TotalResults: res.NumFound,
	}
	for _, doc := range res.Docs {
		item, ok := normalizeOLSearchDoc(doc)
		if !ok {
			continue
		}
		out.Results = append(out.Results, item)
	}
	return out, nil
}

// normalizeOLSearchDoc drops docs without a /works/OL...W key.
func normalizeOLSearchDoc(doc olSearchDoc) (models.MediaItem, bool) {
	m := workKeyRe.FindStringSubmatch(doc.Key)
	if m == nil {
		return models.MediaItem{}, false
	}

	item := models.NewMediaItem(classifySubjects(doc.Subject), m[1], firstNonEmpty(doc.Title, unknownTitle))
	item.OriginalTitle = item.Title
	if doc.Subtitle != "" {
		item.Description = models.OptionalString(doc.Subtitle)
	}
	item.PosterURL = coverURL(doc.CoverID)
	if doc.FirstPublishYear > 0 {
		item.ReleaseDate = yearDate(doc.FirstPublishYear)
	}
	item.Genres = subjectGenres(doc.Subject)
	item.ScoreSource = openLibraryScoreSource
	if doc.RatingsCount > 0 {
		item.AverageScore = score(doc.RatingsAverage * 2)
		votes := doc.RatingsCount
		item.VoteCount = &votes
	}
	item.PageCount = models.OptionalInt(doc.PagesMedian)
	item.Authors = nonNil(doc.AuthorName)
	return item, true
}

type olWork struct {
	Key              string          `json:"key"`
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle"`
	Description      json.RawMessage `json:"description"`
	Covers           []int           `json:"covers"`
	Subjects         []string        `json:"subjects"`
	FirstPublishDate string          `json:"first_publish_date"`
	Type             struct {
		Key string `json:"key"`
	} `json:"type"`
	Location string `json:"location"`
	Authors  []struct {
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
}

func (o *OpenLibrary) GetDetails(ctx context.Context, externalID string) (*models.MediaItem, error) {
	if !IsWorkID(externalID) {
		return nil, nil
	}

	work, err := o.fetchWork(ctx, externalID)
	if err != nil || work == nil {
		return nil, err
	}

	// Merged works answer with a redirect record; follow it once.
	if work.Type.Key == "/type/redirect" {
		m := workKeyRe.FindStringSubmatch(work.Location)
		if m == nil {
			return nil, nil
		}
		work, err = o.fetchWork(ctx, m[1])
		if err != nil || work == nil {
			return nil, err
		}
	}

	id := externalID
	if m := workKeyRe.FindStringSubmatch(work.Key); m != nil {
		id = m[1]
	}

	item := models.NewMediaItem(classifySubjects(work.Subjects), id, firstNonEmpty(work.Title, unknownTitle))
	item.OriginalTitle = item.Title
	item.Description = models.OptionalString(olDescription(work.Description))
	if len(work.Covers) > 0 {
		item.PosterURL = coverURL(work.Covers[0])
	}
	item.ReleaseDate = parseDate(work.FirstPublishDate)
	item.Genres = subjectGenres(work.Subjects)
	item.ScoreSource = openLibraryScoreSource

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	authorKeys := make([]string, 0, len(work.Authors))
	for _, a := range work.Authors {
		if a.Author.Key != "" && len(authorKeys) < openLibraryMaxAuthors {
			authorKeys = append(authorKeys, a.Author.Key)
		}
	}
	names := make([]string, len(authorKeys))
	for i, key := range authorKeys {
		g.Go(func() error {
			names[i] = o.fetchAuthorName(gctx, key)
			return nil
		})
	}

	var ratings struct {
		Summary struct {
			Average *float64 `json:"average"`
			Count   int      `json:"count"`
		} `json:"summary"`
	}
	g.Go(func() error {
		if err := o.client.getJSON(gctx, fmt.Sprintf("%s/works/%s/ratings.json", o.baseURL, id), nil, &ratings); err != nil {
			o.logger.WithError(err).WithField("work", id).Warn("Failed to fetch Open Library ratings")
		}
		return nil
	})
	_ = g.Wait()

	item.Authors = []string{}
	for _, n := range names {
		if n != "" {
			item.Authors = append(item.Authors, n)
		}
	}
	if ratings.Summary.Average != nil && ratings.Summary.Count > 0 {
		item.AverageScore = score(*ratings.Summary.Average * 2)
		votes := ratings.Summary.Count
		item.VoteCount = &votes
	}
	return &item, nil
}

func (o *OpenLibrary) fetchWork(ctx context.Context, id string) (*olWork, error) {
	var work olWork
	err := o.client.getJSON(ctx, fmt.Sprintf("%s/works/%s.json", o.baseURL, id), nil, &work)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &work, nil
}

// fetchAuthorName returns "" when the author record is unavailable.
func (o *OpenLibrary) fetchAuthorName(ctx context.Context, key string) string {
	var author struct {
		Name string `json:"name"`
	}
	if err := o.client.getJSON(ctx, o.baseURL+key+".json", nil, &author); err != nil {
		o.logger.WithError(err).WithField("author", key).Warn("Failed to fetch Open Library author")
		return ""
	}
	return strings.TrimSpace(author.Name)
}

// classifySubjects marks comics and graphic novels as manga.
func classifySubjects(subjects []string) models.MediaType {
	for _, s := range subjects {
		s = strings.ToLower(s)
		if strings.Contains(s, "comics") || strings.Contains(s, "graphic novels") {
			return models.MediaManga
		}
	}
	return models.MediaBook
}

func subjectGenres(subjects []string) []string {
	out := []string{}
	for _, s := range subjects {
		if len(out) >= openLibraryMaxGenres {
			break
		}
		if s = strings.TrimSpace(s); s != "" {
			out = appendUnique(out, s)
		}
	}
	return out
}

func coverURL(id int) *string {
	if id <= 0 {
		return nil
	}
	u := fmt.Sprintf(openLibraryCoverURL, id)
	return &u
}

// olDescription accepts both a plain string and {"type": ..., "value": ...}.
func olDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed.Value
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
