package models

type SortKey string

const (
	SortWatchedDesc SortKey = "watched_date_desc"
	SortWatchedAsc  SortKey = "watched_date_asc"
	SortReleaseDesc SortKey = "release_date_desc"
	SortReleaseAsc  SortKey = "release_date_asc"
	SortTitleAsc    SortKey = "title_asc"
	SortTitleDesc   SortKey = "title_desc"
	SortScoreDesc   SortKey = "score_desc"
	SortScoreAsc    SortKey = "score_asc"
	SortRatingDesc  SortKey = "rating_desc"
	SortRatingAsc   SortKey = "rating_asc"
)

const DefaultSort = SortWatchedDesc

func (k SortKey) Valid() bool {
	switch k {
	case SortWatchedDesc, SortWatchedAsc, SortReleaseDesc, SortReleaseAsc,
		SortTitleAsc, SortTitleDesc, SortScoreDesc, SortScoreAsc,
		SortRatingDesc, SortRatingAsc:
		return true
	}
	return false
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LogQuery selects one page of a user's logs. An empty MediaType means all types.
type LogQuery struct {
	MediaType MediaType `json:"media_type"`
	Sort      SortKey   `json:"sort"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
}

// Normalize fills defaults and clamps paging values.
func (q LogQuery) Normalize() LogQuery {
	if !q.Sort.Valid() {
		q.Sort = DefaultSort
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// LogStats describe the whole filtered result set, not just one page.
type LogStats struct {
	TotalResults  int      `json:"total_results"`
	TotalLiked    int      `json:"total_liked"`
	OverallLiked  float64  `json:"overall_liked"`
	AverageRating *float64 `json:"average_rating"`
}

type LogPage struct {
	LogStats
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Sort       SortKey        `json:"sort"`
	Logs       []UserMediaLog `json:"logs"`
}

// DisplayRecord is a MediaItem overlaid with the owning log's fields.
type DisplayRecord struct {
	MediaItem
	UserRating  *int    `json:"userRating"`
	UserLiked   *bool   `json:"userLiked"`
	WatchedDate *string `json:"watchedDate"`
	UserReview  *string `json:"userReview"`
	IsLoading   bool    `json:"isLoading"`
	IsError     bool    `json:"isError"`
	Error       string  `json:"error,omitempty"`
}

type DisplayPage struct {
	LogStats
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Sort       SortKey         `json:"sort"`
	Items      []DisplayRecord `json:"items"`
}

type TypeStats struct {
	LogStats
	Backlog int `json:"backlog"`
}

type ProfileStats struct {
	Overall TypeStats               `json:"overall"`
	ByType  map[MediaType]TypeStats `json:"by_type"`
}

const LoadingTitle = "Loading..."

// PlaceholderRecord is the loading row for a log whose details are still
// being fetched, filled from the stored snapshot where one exists.
func PlaceholderRecord(l UserMediaLog) DisplayRecord {
	item := NewMediaItem(l.MediaType, l.ExternalID, LoadingTitle)
	if l.Media != nil {
		if l.Media.Title != "" {
			item.Title = l.Media.Title
		}
		item.PosterURL = l.Media.PosterURL
		item.ReleaseDate = l.Media.ReleaseDate
		item.AverageScore = l.Media.AverageScore
	}
	rec := DisplayRecord{MediaItem: item, IsLoading: true}
	rec.OverlayLog(l)
	return rec
}

func Placeholders(logs []UserMediaLog) []DisplayRecord {
	out := make([]DisplayRecord, len(logs))
	for i, l := range logs {
		out[i] = PlaceholderRecord(l)
	}
	return out
}

// OverlayLog copies the log-owned fields onto the record. Applied last, so
// they win over anything an adapter supplied.
func (r *DisplayRecord) OverlayLog(l UserMediaLog) {
	r.UserRating = l.Rating
	r.UserLiked = l.Liked
	r.WatchedDate = l.WatchedDate
	r.UserReview = l.Review
}
