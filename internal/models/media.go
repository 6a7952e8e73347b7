package models

import (
	"fmt"
	"strings"
)

type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
	MediaBook  MediaType = "book"
	MediaGame  MediaType = "game"
	MediaManga MediaType = "manga"
)

var mediaTypes = [...]MediaType{MediaMovie, MediaTV, MediaBook, MediaGame, MediaManga}

// NumMediaTypes is a compile-time constant. Dispatch sites pin it with an
// array-length guard so that adding a type breaks their build until handled.
const NumMediaTypes = len(mediaTypes)

func AllMediaTypes() []MediaType {
	out := mediaTypes
	return out[:]
}

func ParseMediaType(s string) (MediaType, bool) {
	t := MediaType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t MediaType) Valid() bool {
	for _, m := range mediaTypes {
		if m == t {
			return true
		}
	}
	return false
}

func (t MediaType) String() string { return string(t) }

// MediaItem is the source-agnostic shape every adapter normalizes into.
// Fields that do not apply to MediaType stay nil.
type MediaItem struct {
	ID            string    `json:"id"`
	ExternalID    string    `json:"externalId"`
	MediaType     MediaType `json:"mediaType"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle"`
	PosterURL     *string   `json:"posterUrl"`
	BackdropURL   *string   `json:"backdropUrl"`
	Description   *string   `json:"description"`
	ReleaseDate   *string   `json:"releaseDate"`
	Genres        []string  `json:"genres"`
	AverageScore  *float64  `json:"averageScore"`
	ScoreSource   string    `json:"scoreSource"`
	VoteCount     *int      `json:"voteCount"`

	// movie / tv
	Runtime *int     `json:"runtime"`
	Credits *Credits `json:"credits"`
	Videos  []Video  `json:"videos"`

	// book / manga
	PageCount *int     `json:"pageCount"`
	Chapters  *int     `json:"chapters"`
	Volumes   *int     `json:"volumes"`
	Authors   []string `json:"authors"`
	Artists   []string `json:"artists"`

	// game
	Platforms     []string `json:"platforms"`
	Developers    []string `json:"developers"`
	Publishers    []string `json:"publishers"`
	PlaytimeHours *int     `json:"playtimeHours"`
}

type Credits struct {
	Directors []string     `json:"directors"`
	Creators  []string     `json:"creators"`
	Cast      []CastMember `json:"cast"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// ComposeID builds the stable item id "{mediaType}-{externalId}".
func ComposeID(t MediaType, externalID string) string {
	return fmt.Sprintf("%s-%s", t, externalID)
}

// NewMediaItem returns an item with identity fields set and an empty,
// non-nil genre list.
func NewMediaItem(t MediaType, externalID, title string) MediaItem {
	return MediaItem{
		ID:         ComposeID(t, externalID),
		ExternalID: externalID,
		MediaType:  t,
		Title:      title,
		Genres:     []string{},
	}
}

// OptionalString returns nil for blank input so absent text and images are
// never represented as "".
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func OptionalInt(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

type SearchResponse struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
	Warning      string      `json:"warning,omitempty"`
}

func EmptySearch(page int) *SearchResponse {
	if page < 1 {
		page = 1
	}
	return &SearchResponse{Page: page, Results: []MediaItem{}}
}
