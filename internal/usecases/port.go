// Package usecases holds one type per user intent. Each validates its input
// before any I/O, delegates to the media port or the log engine and turns
// ResponseError values into returned errors.
package usecases

import (
	"context"

	"mediascope/internal/models"
)

// MediaPort is implemented by services.Aggregator.
type MediaPort interface {
	GetMediaDetails(ctx context.Context, mediaType models.MediaType, externalID string) models.Result[*models.MediaItem]
	SearchMedia(ctx context.Context, query string, page int, mediaType models.MediaType) models.Result[*models.SearchResponse]
	TopRated(ctx context.Context, mediaType models.MediaType, page int) models.Result[*models.SearchResponse]

	GetBacklogStatus(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[bool]
	ToggleBacklog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[bool]
	ListBacklog(ctx context.Context, userID string, mediaType models.MediaType) models.Result[[]models.BacklogEntry]

	GetLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[*models.UserMediaLog]
	LogItem(ctx context.Context, userID string, in models.LogInput) models.Result[*models.UserMediaLog]
	RemoveLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[bool]

	GetProfile(ctx context.Context, userID string) models.Result[*models.Profile]
	UpdateProfile(ctx context.Context, userID string, in models.ProfileInput) models.Result[*models.Profile]
}

// LogEngine is implemented by services.Engine.
type LogEngine interface {
	Page(ctx context.Context, userID string, q models.LogQuery) (*models.LogPage, error)
	Enrich(ctx context.Context, logs []models.UserMediaLog, onUpdate func(index int, rec models.DisplayRecord)) ([]models.DisplayRecord, error)
	DisplayPage(ctx context.Context, userID string, q models.LogQuery) (*models.DisplayPage, error)
	ProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error)
}

// UseCases bundles every intent for the HTTP layer.
type UseCases struct {
	SearchMedia      *SearchMedia
	GetMediaDetails  *GetMediaDetails
	TopRated         *TopRated
	GetBacklogStatus *GetBacklogStatus
	ToggleBacklog    *ToggleBacklog
	ListBacklog      *ListBacklog
	GetLog           *GetLog
	LogItem          *LogItem
	RemoveLog        *RemoveLog
	ListLogs         *ListLogs
	StreamLogs       *StreamLogs
	GetProfileStats  *GetProfileStats
	GetProfile       *GetProfile
	UpdateProfile    *UpdateProfile
}

func New(port MediaPort, engine LogEngine) *UseCases {
	return &UseCases{
		SearchMedia:      &SearchMedia{port: port},
		GetMediaDetails:  &GetMediaDetails{port: port},
		TopRated:         &TopRated{port: port},
		GetBacklogStatus: &GetBacklogStatus{port: port},
		ToggleBacklog:    &ToggleBacklog{port: port},
		ListBacklog:      &ListBacklog{port: port},
		GetLog:           &GetLog{port: port},
		LogItem:          &LogItem{port: port},
		RemoveLog:        &RemoveLog{port: port},
		ListLogs:         &ListLogs{engine: engine},
		StreamLogs:       &StreamLogs{engine: engine},
		GetProfileStats:  &GetProfileStats{engine: engine},
		GetProfile:       &GetProfile{port: port},
		UpdateProfile:    &UpdateProfile{port: port},
	}
}
