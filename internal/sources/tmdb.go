package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
)

const (
	tmdbAPIURL       = "https://api.themoviedb.org/3"
	tmdbPosterBase   = "https://image.tmdb.org/t/p/w500"
	tmdbBackdropBase = "https://image.tmdb.org/t/p/w1280"
	tmdbScoreSource  = "TMDB"
	tmdbCastLimit    = 10
)

type TMDBConfig struct {
	BaseURL   string
	APIKey    string
	ReadToken string
	Client    ClientConfig
}

// TMDB talks to The Movie Database. Movies and TV return per-type views
// that share one client and rate limiter.
type TMDB struct {
	baseURL   string
	apiKey    string
	readToken string
	client    *httpClient
	logger    *logrus.Logger
}

func NewTMDB(cfg TMDBConfig) *TMDB {
	if cfg.BaseURL == "" {
		cfg.BaseURL = tmdbAPIURL
	}
	client := newHTTPClient("TMDB", cfg.Client)
	return &TMDB{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		readToken: cfg.ReadToken,
		client:    client,
		logger:    client.logger,
	}
}

func (t *TMDB) Movies() *TMDBSource { return &TMDBSource{tmdb: t, kind: models.MediaMovie} }

func (t *TMDB) TV() *TMDBSource { return &TMDBSource{tmdb: t, kind: models.MediaTV} }

// TMDBSource is a TMDB view bound to either movie or tv.
type TMDBSource struct {
	tmdb *TMDB
	kind models.MediaType
}

func (s *TMDBSource) Name() string { return "TMDB " + string(s.kind) }

func (s *TMDBSource) Search(ctx context.Context, query string, page int) (*models.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return models.EmptySearch(page), nil
	}
	if page < 1 {
		page = 1
	}

	s.tmdb.logger.WithFields(logrus.Fields{
		"query": query,
		"type":  s.kind,
	}).Info("Searching TMDB...")

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var res tmdbPage
	if err := s.tmdb.get(ctx, "/search/"+string(s.kind), params, &res); err != nil {
		return nil, err
	}
	return s.normalizePage(res), nil
}

func (s *TMDBSource) TopRated(ctx context.Context, page int) (*models.SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var res tmdbPage
	if err := s.tmdb.get(ctx, "/"+string(s.kind)+"/top_rated", params, &res); err != nil {
		return nil, err
	}
	return s.normalizePage(res), nil
}

func (s *TMDBSource) GetDetails(ctx context.Context, externalID string) (*models.MediaItem, error) {
	if _, err := strconv.Atoi(externalID); err != nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	var res tmdbDetails
	err := s.tmdb.get(ctx, fmt.Sprintf("/%s/%s", s.kind, externalID), params, &res)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if res.ID == 0 {
		return nil, nil
	}

	item := normalizeTMDBDetails(s.kind, res)
	return &item, nil
}

func (s *TMDBSource) normalizePage(res tmdbPage) *models.SearchResponse {
	out := &models.SearchResponse{
		Page:         max(res.Page, 1),
		Results:      make([]models.MediaItem, 0, len(res.Results)),
		TotalPages:   res.TotalPages,
		TotalResults: res.TotalResults,
	}
	for _, r := range res.Results {
		if r.ID == 0 {
			continue
		}
		out.Results = append(out.Results, normalizeTMDBListItem(s.kind, r))
	}
	return out
}

func (t *TMDB) get(ctx context.Context, path string, params url.Values, out any) error {
	header := http.Header{}
	if t.readToken != "" {
		header.Set("Authorization", "Bearer "+t.readToken)
	} else if t.apiKey != "" {
		params.Set("api_key", t.apiKey)
	}
	params.Set("language", "en-US")
	return t.client.getJSON(ctx, t.baseURL+path+"?"+params.Encode(), header, out)
}

type tmdbListItem struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Name          string  `json:"name"`
	OriginalName  string  `json:"original_name"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	FirstAirDate  string  `json:"first_air_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	GenreIDs      []int   `json:"genre_ids"`
}

type tmdbPage struct {
	Page         int            `json:"page"`
	Results      []tmdbListItem `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type tmdbDetails struct {
	tmdbListItem
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Runtime        *int  `json:"runtime"`
	EpisodeRunTime []int `json:"episode_run_time"`
	CreatedBy      []struct {
		Name string `json:"name"`
	} `json:"created_by"`
	Credits *struct {
		Cast []struct {
			Name      string `json:"name"`
			Character string `json:"character"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	Videos *struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"results"`
	} `json:"videos"`
}

// normalizeTMDBListItem handles list endpoints, which carry genre ids only
// and no credits, videos or runtime.
func normalizeTMDBListItem(kind models.MediaType, r tmdbListItem) models.MediaItem {
	title, original, date := r.Title, r.OriginalTitle, r.ReleaseDate
	if kind == models.MediaTV {
		title, original, date = r.Name, r.OriginalName, r.FirstAirDate
	}

	item := models.NewMediaItem(kind, strconv.Itoa(r.ID), firstNonEmpty(title, original, unknownTitle))
	item.OriginalTitle = firstNonEmpty(original, item.Title)
	item.Description = models.OptionalString(r.Overview)
	item.ReleaseDate = parseDate(date)
	if r.PosterPath != "" {
		item.PosterURL = models.OptionalString(tmdbPosterBase + r.PosterPath)
	}
	if r.BackdropPath != "" {
		item.BackdropURL = models.OptionalString(tmdbBackdropBase + r.BackdropPath)
	}
	item.ScoreSource = tmdbScoreSource
	votes := r.VoteCount
	item.VoteCount = &votes
	if votes > 0 {
		item.AverageScore = score(r.VoteAverage)
	}
	return item
}

func normalizeTMDBDetails(kind models.MediaType, r tmdbDetails) models.MediaItem {
	item := normalizeTMDBListItem(kind, r.tmdbListItem)

	for _, g := range r.Genres {
		if g.Name != "" {
			item.Genres = append(item.Genres, g.Name)
		}
	}

	switch kind {
	case models.MediaTV:
		if len(r.EpisodeRunTime) > 0 {
			item.Runtime = models.OptionalInt(r.EpisodeRunTime[0])
		}
	default:
		if r.Runtime != nil {
			item.Runtime = models.OptionalInt(*r.Runtime)
		}
	}

	credits := &models.Credits{
		Directors: []string{},
		Creators:  []string{},
		Cast:      []models.CastMember{},
	}
	for _, c := range r.CreatedBy {
		credits.Creators = append(credits.Creators, c.Name)
	}
	if r.Credits != nil {
		for _, c := range r.Credits.Crew {
			if c.Job == "Director" {
				credits.Directors = append(credits.Directors, c.Name)
			}
		}
		for i, c := range r.Credits.Cast {
			if i >= tmdbCastLimit {
				break
			}
			credits.Cast = append(credits.Cast, models.CastMember{Name: c.Name, Character: c.Character})
		}
	}
	item.Credits = credits

	item.Videos = []models.Video{}
	if r.Videos != nil {
		for _, v := range r.Videos.Results {
			item.Videos = append(item.Videos, models.Video{Key: v.Key, Site: v.Site, Type: v.Type, Name: v.Name})
		}
	}
	return item
}
