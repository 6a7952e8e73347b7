package usecases

import (
	"context"
	"strings"

	"mediascope/internal/models"
)

type GetProfile struct {
	port MediaPort
}

// Execute returns the caller's profile, creating an empty one on first use.
func (uc *GetProfile) Execute(ctx context.Context, userID string) (*models.Profile, error) {
	if err := check(userRef{UserID: userID}); err != nil {
		return nil, err
	}
	return unwrap(uc.port.GetProfile(ctx, userID))
}

type UpdateProfile struct {
	port MediaPort
}

func (uc *UpdateProfile) Execute(ctx context.Context, userID string, in models.ProfileInput) (*models.Profile, error) {
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		in.Username = &username
	}
	if err := check(userRef{UserID: userID}, in); err != nil {
		return nil, err
	}
	return unwrap(uc.port.UpdateProfile(ctx, userID, in))
}

type GetProfileStats struct {
	engine LogEngine
}

func (uc *GetProfileStats) Execute(ctx context.Context, userID string) (*models.ProfileStats, error) {
	if err := check(userRef{UserID: userID}); err != nil {
		return nil, err
	}
	stats, err := uc.engine.ProfileStats(ctx, userID)
	if err != nil {
		return nil, operationFailed("Failed to load statistics", err)
	}
	return stats, nil
}
