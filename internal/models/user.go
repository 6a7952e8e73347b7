package models

import "time"

type Profile struct {
	ID        string    `json:"id" db:"id"`
	Username  *string   `json:"username" db:"username"`
	Bio       *string   `json:"bio" db:"bio"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MediaSnapshot is the subset of a MediaItem persisted next to logs so that
// list queries can sort by catalog fields without refetching every item.
type MediaSnapshot struct {
	Title        string   `json:"title" db:"title"`
	PosterURL    *string  `json:"poster_url" db:"poster_url"`
	ReleaseDate  *string  `json:"release_date" db:"release_date"`
	AverageScore *float64 `json:"average_score" db:"average_score"`
}

func SnapshotOf(item *MediaItem) MediaSnapshot {
	return MediaSnapshot{
		Title:        item.Title,
		PosterURL:    item.PosterURL,
		ReleaseDate:  item.ReleaseDate,
		AverageScore: item.AverageScore,
	}
}

// UserMediaLog is unique per (UserID, MediaType, ExternalID).
type UserMediaLog struct {
	UserID      string         `json:"user_id" db:"user_id"`
	MediaType   MediaType      `json:"media_type" db:"media_type"`
	ExternalID  string         `json:"external_id" db:"external_id"`
	Rating      *int           `json:"rating" db:"rating"`
	Liked       *bool          `json:"liked" db:"liked"`
	WatchedDate *string        `json:"watched_date" db:"watched_date"`
	Review      *string        `json:"review" db:"review"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
	Media       *MediaSnapshot `json:"media,omitempty"`
}

// LogInput is a partial update: nil fields keep their stored value.
type LogInput struct {
	MediaType   MediaType `json:"media_type" validate:"required,media_type"`
	ExternalID  string    `json:"external_id" validate:"required,max=64"`
	Rating      *int      `json:"rating" validate:"omitempty,min=1,max=10"`
	Liked       *bool     `json:"liked"`
	WatchedDate *string   `json:"watched_date" validate:"omitempty,datetime=2006-01-02"`
	Review      *string   `json:"review" validate:"omitempty,max=5000"`
}

type BacklogEntry struct {
	UserID     string         `json:"user_id" db:"user_id"`
	MediaType  MediaType      `json:"media_type" db:"media_type"`
	ExternalID string         `json:"external_id" db:"external_id"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	Media      *MediaSnapshot `json:"media,omitempty"`
}

// ProfileInput is a partial update of the caller's own profile.
type ProfileInput struct {
	Username *string `json:"username" validate:"omitempty,min=2,max=50"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}
