package sources

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"mediascope/internal/models"
)

const (
	steamSpyAPIURL        = "https://steamspy.com/api.php"
	steamSpyHeaderURL     = "https://cdn.akamai.steamstatic.com/steam/apps/%d/header.jpg"
	steamSpyHeroURL       = "https://cdn.akamai.steamstatic.com/steam/apps/%d/library_hero.jpg"
	steamSpyScoreSource   = "Steam User Votes"
	steamSpyMinVotes      = 10
	steamSpyCatalogTTL    = time.Hour
	steamSpyCatalogPages  = 1
	steamSpyCatalogKey    = "all"
	steamSpyTopRatedKey   = "top100forever"
	steamSpyDefaultPerSec = time.Second
	steamSpyFetchTimeout  = 2 * time.Minute
)

type SteamSpyConfig struct {
	BaseURL    string
	CatalogTTL time.Duration
	Client     ClientConfig
}

// SteamSpy serves games. SteamSpy has no search endpoint, so Search scans
// the bulk catalog, which is cached in process for CatalogTTL.
type SteamSpy struct {
	baseURL    string
	client     *httpClient
	logger     *logrus.Logger
	catalogTTL time.Duration

	mu       sync.Mutex
	catalogs map[string]steamSpyCatalog
	group    singleflight.Group
}

type steamSpyCatalog struct {
	apps      []steamSpyApp
	fetchedAt time.Time
}

func NewSteamSpy(cfg SteamSpyConfig) *SteamSpy {
	if cfg.BaseURL == "" {
		cfg.BaseURL = steamSpyAPIURL
	}
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = steamSpyCatalogTTL
	}
	if cfg.Client.RateLimit == 0 {
		cfg.Client.RateLimit = steamSpyDefaultPerSec
	}
	client := newHTTPClient("SteamSpy", cfg.Client)
	return &SteamSpy{
		baseURL:    cfg.BaseURL,
		client:     client,
		logger:     client.logger,
		catalogTTL: cfg.CatalogTTL,
		catalogs:   make(map[string]steamSpyCatalog),
	}
}

func (s *SteamSpy) Name() string { return "SteamSpy" }

type steamSpyApp struct {
	AppID          int    `json:"appid"`
	Name           string `json:"name"`
	Developer      string `json:"developer"`
	Publisher      string `json:"publisher"`
	Positive       int    `json:"positive"`
	Negative       int    `json:"negative"`
	AverageForever int    `json:"average_forever"`
	Genre          string `json:"genre"`
	ReleaseDate    string `json:"release_date"`
}

func (s *SteamSpy) GetDetails(ctx context.Context, externalID string) (*models.MediaItem, error) {
	appID, err := strconv.Atoi(externalID)
	if err != nil || appID <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("request", "appdetails")
	params.Set("appid", strconv.Itoa(appID))

	var app steamSpyApp
	err = s.client.getJSON(ctx, s.baseURL+"?"+params.Encode(), nil, &app)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Unknown app ids come back as a record with an empty name.
	if strings.TrimSpace(app.Name) == "" {
		return nil, nil
	}
	if app.AppID == 0 {
		app.AppID = appID
	}

	item := normalizeSteamSpy(app)
	return &item, nil
}

func (s *SteamSpy) Search(ctx context.Context, query string, page int) (*models.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.EmptySearch(page), nil
	}
	s.logger.WithField("query", query).Info("Searching SteamSpy catalog...")

	apps, err := s.catalog(ctx, steamSpyCatalogKey)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]steamSpyApp, 0)
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), needle) {
			matches = append(matches, app)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		vi, vj := matches[i].Positive+matches[i].Negative, matches[j].Positive+matches[j].Negative
		if vi != vj {
			return vi > vj
		}
		return matches[i].AppID < matches[j].AppID
	})
	return paginateApps(matches, page), nil
}

func (s *SteamSpy) TopRated(ctx context.Context, page int) (*models.SearchResponse, error) {
	apps, err := s.catalog(ctx, steamSpyTopRatedKey)
	if err != nil {
		return nil, err
	}

	ranked := append([]steamSpyApp(nil), apps...)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := steamScore(ranked[i]), steamScore(ranked[j])
		switch {
		case si == nil && sj != nil:
			return false
		case si != nil && sj == nil:
			return true
		case si != nil && sj != nil && *si != *sj:
			return *si > *sj
		}
		return ranked[i].AppID < ranked[j].AppID
	})
	return paginateApps(ranked, page), nil
}

// catalog returns a bulk listing, refetching it once the TTL has passed.
// Concurrent callers share one fetch, which runs detached from any single
// caller's cancellation; each caller still stops waiting when its own ctx ends.
func (s *SteamSpy) catalog(ctx context.Context, request string) ([]steamSpyApp, error) {
	s.mu.Lock()
	cached, ok := s.catalogs[request]
	s.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < s.catalogTTL {
		return cached.apps, nil
	}

	ch := s.group.DoChan(request, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), steamSpyFetchTimeout)
		defer cancel()

		apps, err := s.fetchCatalog(fetchCtx, request)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.catalogs[request] = steamSpyCatalog{apps: apps, fetchedAt: time.Now()}
		s.mu.Unlock()

		s.logger.WithFields(logrus.Fields{
			"request": request,
			"apps":    len(apps),
		}).Info("SteamSpy catalog refreshed")
		return apps, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]steamSpyApp), nil
	case <-ctx.Done():
		return nil, unavailable(s.Name(), "request cancelled", ctx.Err())
	}
}

func (s *SteamSpy) fetchCatalog(ctx context.Context, request string) ([]steamSpyApp, error) {
	pages := 1
	if request == steamSpyCatalogKey {
		pages = steamSpyCatalogPages
	}

	var apps []steamSpyApp
	for p := 0; p < pages; p++ {
		params := url.Values{}
		params.Set("request", request)
		if request == steamSpyCatalogKey {
			params.Set("page", strconv.Itoa(p))
		}

		var listing map[string]steamSpyApp
		if err := s.client.getJSON(ctx, s.baseURL+"?"+params.Encode(), nil, &listing); err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", request, p, err)
		}
		for key, app := range listing {
			if app.AppID == 0 {
				app.AppID, _ = strconv.Atoi(key)
			}
			if app.AppID == 0 || strings.TrimSpace(app.Name) == "" {
				continue
			}
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func paginateApps(apps []steamSpyApp, page int) *models.SearchResponse {
	if page < 1 {
		page = 1
	}
	out := &models.SearchResponse{
		Page:         page,
		Results:      []models.MediaItem{},
		TotalPages:   totalPages(len(apps), pageSize),
		TotalResults: len(apps),
	}
	start := (page - 1) * pageSize
	if start >= len(apps) {
		return out
	}
	end := min(start+pageSize, len(apps))
	for _, app := range apps[start:end] {
		out.Results = append(out.Results, normalizeSteamSpy(app))
	}
	return out
}

// steamScore derives a 0-10 score from the vote ratio when more than
// steamSpyMinVotes votes exist.
func steamScore(app steamSpyApp) *float64 {
	total := app.Positive + app.Negative
	if total <= steamSpyMinVotes {
		return nil
	}
	return score(float64(app.Positive) / float64(total) * 10)
}

func normalizeSteamSpy(app steamSpyApp) models.MediaItem {
	item := models.NewMediaItem(models.MediaGame, strconv.Itoa(app.AppID), firstNonEmpty(app.Name, unknownTitle))
	item.OriginalTitle = item.Title
	item.PosterURL = models.OptionalString(fmt.Sprintf(steamSpyHeaderURL, app.AppID))
	item.BackdropURL = models.OptionalString(fmt.Sprintf(steamSpyHeroURL, app.AppID))
	item.ReleaseDate = parseDate(app.ReleaseDate)
	item.Genres = splitList(app.Genre)
	item.Developers = splitList(app.Developer)
	item.Publishers = splitList(app.Publisher)

	item.ScoreSource = steamSpyScoreSource
	item.AverageScore = steamScore(app)
	if votes := app.Positive + app.Negative; votes > 0 {
		item.VoteCount = &votes
	}
	if app.AverageForever > 0 {
		hours := int(math.Round(float64(app.AverageForever) / 60))
		item.PlaytimeHours = &hours
	}
	return item
}
