package usecases

import (
	"context"
	"strings"

	"mediascope/internal/models"
)

type GetBacklogStatus struct {
	port MediaPort
}

func (uc *GetBacklogStatus) Execute(ctx context.Context, userID, mediaType, externalID string) (bool, error) {
	ref, err := checkUserItem(userID, mediaType, externalID)
	if err != nil {
		return false, err
	}
	return unwrap(uc.port.GetBacklogStatus(ctx, userID, ref.mediaType(), ref.ExternalID))
}

type ToggleBacklog struct {
	port MediaPort
}

// Execute returns the new membership.
func (uc *ToggleBacklog) Execute(ctx context.Context, userID, mediaType, externalID string) (bool, error) {
	ref, err := checkUserItem(userID, mediaType, externalID)
	if err != nil {
		return false, err
	}
	return unwrap(uc.port.ToggleBacklog(ctx, userID, ref.mediaType(), ref.ExternalID))
}

type ListBacklog struct {
	port MediaPort
}

func (uc *ListBacklog) Execute(ctx context.Context, userID, mediaType string) ([]models.BacklogEntry, error) {
	in := struct {
		UserID    string `json:"user_id" validate:"required,uuid"`
		MediaType string `json:"media_type" validate:"omitempty,media_type"`
	}{userID, strings.ToLower(strings.TrimSpace(mediaType))}
	if err := check(in); err != nil {
		return nil, err
	}
	return unwrap(uc.port.ListBacklog(ctx, userID, models.MediaType(in.MediaType)))
}
