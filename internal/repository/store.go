// Package repository is the persistence boundary for user logs, backlog
// membership, profiles and media snapshots.
package repository

import (
	"context"

	"mediascope/internal/models"
)

type LogStore interface {
	GetLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (*models.UserMediaLog, error)
	// UpsertLog creates or updates a log. Nil input fields keep the stored value.
	UpsertLog(ctx context.Context, userID string, in models.LogInput) (*models.UserMediaLog, error)
	DeleteLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error)
	// ListLogs returns every log of the user, joined with its media snapshot.
	// An empty mediaType lists all types.
	ListLogs(ctx context.Context, userID string, mediaType models.MediaType) ([]models.UserMediaLog, error)

	IsInBacklog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error)
	// ToggleBacklog flips membership and returns the new state.
	ToggleBacklog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error)
	ListBacklog(ctx context.Context, userID string, mediaType models.MediaType) ([]models.BacklogEntry, error)
	CountBacklog(ctx context.Context, userID string) (map[models.MediaType]int, error)

	UpsertMediaSnapshot(ctx context.Context, mediaType models.MediaType, externalID string, snap models.MediaSnapshot) error

	EnsureProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.Profile, error)
}
