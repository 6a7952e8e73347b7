package sources

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
)

const (
	aniListAPIURL      = "https://graphql.anilist.co"
	aniListScoreSource = "AniList"
)

const aniListMediaFields = `
  id
  title { romaji english native }
  description(asHtml: false)
  coverImage { extraLarge large }
  bannerImage
  startDate { year month day }
  genres
  averageScore
  chapters
  volumes`

const aniListDetailsQuery = `query ($id: Int) {
  Media(id: $id, type: MANGA) {` + aniListMediaFields + `
    staff(perPage: 25) { edges { role node { name { full } } } }
    stats { scoreDistribution { score amount } }
  }
}`

const aniListPageQuery = `query ($search: String, $page: Int, $perPage: Int, $sort: [MediaSort]) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { total currentPage lastPage }
    media(search: $search, type: MANGA, sort: $sort, isAdult: false) {` + aniListMediaFields + `
    }
  }
}`

type AniListConfig struct {
	URL    string
	Client ClientConfig
}

// AniList serves manga through the AniList GraphQL API.
type AniList struct {
	url    string
	client *httpClient
	logger *logrus.Logger
}

func NewAniList(cfg AniListConfig) *AniList {
	if cfg.URL == "" {
		cfg.URL = aniListAPIURL
	}
	client := newHTTPClient("AniList", cfg.Client)
	return &AniList{url: cfg.URL, client: client, logger: client.logger}
}

func (a *AniList) Name() string { return "AniList" }

func (a *AniList) Search(ctx context.Context, query string, page int) (*models.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return models.EmptySearch(page), nil
	}
	a.logger.WithField("query", query).Info("Searching AniList...")

	return a.page(ctx, map[string]any{
		"search": query,
		"sort":   []string{"SEARCH_MATCH"},
	}, page)
}

func (a *AniList) TopRated(ctx context.Context, page int) (*models.SearchResponse, error) {
	return a.page(ctx, map[string]any{"sort": []string{"SCORE_DESC"}}, page)
}

func (a *AniList) page(ctx context.Context, vars map[string]any, page int) (*models.SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	vars["page"] = page
	vars["perPage"] = pageSize

	var res struct {
		Data struct {
			Page struct {
				PageInfo struct {
					Total       int `json:"total"`
					CurrentPage int `json:"currentPage"`
					LastPage    int `json:"lastPage"`
				} `json:"pageInfo"`
				Media []aniListMedia `json:"media"`
			} `json:"Page"`
		} `json:"data"`
		Errors []aniListError `json:"errors"`
	}
	if err := a.query(ctx, aniListPageQuery, vars, &res); err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, &UnavailableError{Source: "AniList", StatusCode: res.Errors[0].Status, Message: res.Errors[0].Message}
	}

	p := res.Data.Page
	out := &models.SearchResponse{
		Page:         max(p.PageInfo.CurrentPage, page),
		Results:      make([]models.MediaItem, 0, len(p.Media)),
		TotalPages:   p.PageInfo.LastPage,
		TotalResults: p.PageInfo.Total,
	}
	for _, m := range p.Media {
		if m.ID == 0 {
			continue
		}
		out.Results = append(out.Results, normalizeAniList(m))
	}
	return out, nil
}

func (a *AniList) GetDetails(ctx context.Context, externalID string) (*models.MediaItem, error) {
	id, err := strconv.Atoi(externalID)
	if err != nil || id <= 0 {
		return nil, nil
	}

	var res struct {
		Data struct {
			Media *aniListMedia `json:"Media"`
		} `json:"data"`
		Errors []aniListError `json:"errors"`
	}
	err = a.query(ctx, aniListDetailsQuery, map[string]any{"id": id}, &res)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if res.Data.Media == nil {
		for _, e := range res.Errors {
			if e.Status != 0 && e.Status != 404 {
				return nil, &UnavailableError{Source: "AniList", StatusCode: e.Status, Message: e.Message}
			}
		}
		return nil, nil
	}

	item := normalizeAniList(*res.Data.Media)
	return &item, nil
}

func (a *AniList) query(ctx context.Context, query string, vars map[string]any, out any) error {
	payload := map[string]any{"query": query, "variables": vars}
	return a.client.postJSON(ctx, a.url, payload, nil, out)
}

type aniListError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type aniListMedia struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	Description string `json:"description"`
	CoverImage  struct {
		ExtraLarge string `json:"extraLarge"`
		Large      string `json:"large"`
	} `json:"coverImage"`
	BannerImage string `json:"bannerImage"`
	StartDate   struct {
		Year  *int `json:"year"`
		Month *int `json:"month"`
		Day   *int `json:"day"`
	} `json:"startDate"`
	Genres       []string `json:"genres"`
	AverageScore *int     `json:"averageScore"`
	Chapters     *int     `json:"chapters"`
	Volumes      *int     `json:"volumes"`
	Staff        *struct {
		Edges []struct {
			Role string `json:"role"`
			Node struct {
				Name struct {
					Full string `json:"full"`
				} `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"staff"`
	Stats *struct {
		ScoreDistribution []struct {
			Score  int `json:"score"`
			Amount int `json:"amount"`
		} `json:"scoreDistribution"`
	} `json:"stats"`
}

func normalizeAniList(m aniListMedia) models.MediaItem {
	title := firstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native, unknownTitle)
	item := models.NewMediaItem(models.MediaManga, strconv.Itoa(m.ID), title)
	item.OriginalTitle = firstNonEmpty(m.Title.Native, m.Title.Romaji, title)
	item.Description = models.OptionalString(stripHTML(m.Description))
	item.PosterURL = models.OptionalString(firstNonEmpty(m.CoverImage.ExtraLarge, m.CoverImage.Large))
	item.BackdropURL = models.OptionalString(m.BannerImage)
	item.ReleaseDate = synthesizeDate(m.StartDate.Year, m.StartDate.Month, m.StartDate.Day)
	for _, g := range m.Genres {
		if g != "" {
			item.Genres = append(item.Genres, g)
		}
	}

	item.ScoreSource = aniListScoreSource
	if m.AverageScore != nil {
		item.AverageScore = score(float64(*m.AverageScore) / 10)
	}
	if m.Stats != nil {
		votes := 0
		for _, d := range m.Stats.ScoreDistribution {
			votes += d.Amount
		}
		item.VoteCount = &votes
	}

	if m.Chapters != nil {
		item.Chapters = models.OptionalInt(*m.Chapters)
	}
	if m.Volumes != nil {
		item.Volumes = models.OptionalInt(*m.Volumes)
	}

	if m.Staff != nil {
		item.Authors = []string{}
		item.Artists = []string{}
		for _, e := range m.Staff.Edges {
			name := strings.TrimSpace(e.Node.Name.Full)
			if name == "" {
				continue
			}
			role := strings.TrimSpace(e.Role)
			switch {
			case strings.Contains(role, "Story"):
				item.Authors = appendUnique(item.Authors, name)
			case role == "Art":
				item.Artists = appendUnique(item.Artists, name)
			}
		}
	}
	return item
}

func appendUnique(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}
