package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
	"mediascope/internal/repository"
)

// Aggregator is the single port the use cases talk to. Catalog reads go
// through the Catalog (details via the read-through cache), persistence
// goes to the LogStore. Every failure comes back as a ResponseError value.
type Aggregator struct {
	catalog *Catalog
	details DetailsGetter
	store   repository.LogStore
	logger  *logrus.Logger
}

// NewAggregator wires the port. A nil details getter falls back to the
// uncached catalog.
func NewAggregator(catalog *Catalog, details DetailsGetter, store repository.LogStore, logger *logrus.Logger) *Aggregator {
	if details == nil {
		details = catalog
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Aggregator{catalog: catalog, details: details, store: store, logger: logger}
}

func (a *Aggregator) GetMediaDetails(ctx context.Context, mediaType models.MediaType, externalID string) models.Result[*models.MediaItem] {
	return a.details.GetMediaDetails(ctx, mediaType, externalID)
}

func (a *Aggregator) SearchMedia(ctx context.Context, query string, page int, mediaType models.MediaType) models.Result[*models.SearchResponse] {
	return a.catalog.SearchMedia(ctx, query, page, mediaType)
}

func (a *Aggregator) TopRated(ctx context.Context, mediaType models.MediaType, page int) models.Result[*models.SearchResponse] {
	return a.catalog.TopRated(ctx, mediaType, page)
}

func (a *Aggregator) storeFailed(err error, op string, fields logrus.Fields) *models.ResponseError {
	a.logger.WithFields(fields).WithError(err).Errorf("Failed to %s", op)
	return &models.ResponseError{Message: "Failed to " + op}
}

func logFields(userID string, mediaType models.MediaType, externalID string) logrus.Fields {
	return logrus.Fields{"user_id": userID, "media_type": mediaType, "external_id": externalID}
}

// snapshot stores the catalog fields used for server-side sorting. It never
// fails the caller's write.
func (a *Aggregator) snapshot(ctx context.Context, mediaType models.MediaType, externalID string) {
	res := a.details.GetMediaDetails(ctx, mediaType, externalID)
	if res.Failed() || res.Data == nil {
		a.logger.WithFields(logrus.Fields{
			"media_type":  mediaType,
			"external_id": externalID,
		}).Warn("Skipping media snapshot, details unavailable")
		return
	}
	if err := a.store.UpsertMediaSnapshot(ctx, mediaType, externalID, models.SnapshotOf(res.Data)); err != nil {
		a.logger.WithError(err).Warn("Failed to store media snapshot")
	}
}

func (a *Aggregator) GetBacklogStatus(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[bool] {
	in, err := a.store.IsInBacklog(ctx, userID, mediaType, externalID)
	if err != nil {
		return models.Result[bool]{Err: a.storeFailed(err, "read backlog status", logFields(userID, mediaType, externalID))}
	}
	return models.Ok(in)
}

func (a *Aggregator) ToggleBacklog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[bool] {
	in, err := a.store.ToggleBacklog(ctx, userID, mediaType, externalID)
	if err != nil {
		return models.Result[bool]{Err: a.storeFailed(err, "toggle backlog", logFields(userID, mediaType, externalID))}
	}
	if in {
		a.snapshot(ctx, mediaType, externalID)
	}
	a.logger.WithFields(logFields(userID, mediaType, externalID)).WithField("in_backlog", in).Info("Backlog toggled")
	return models.Ok(in)
}

func (a *Aggregator) ListBacklog(ctx context.Context, userID string, mediaType models.MediaType) models.Result[[]models.BacklogEntry] {
	entries, err := a.store.ListBacklog(ctx, userID, mediaType)
	if err != nil {
		return models.Result[[]models.BacklogEntry]{Err: a.storeFailed(err, "list backlog", logrus.Fields{
			"user_id":    userID,
			"media_type": mediaType,
		})}
	}
	return models.Ok(entries)
}

// GetLog answers Ok(nil) when the user has not logged the item.
func (a *Aggregator) GetLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[*models.UserMediaLog] {
	l, err := a.store.GetLog(ctx, userID, mediaType, externalID)
	if err != nil {
		return models.Result[*models.UserMediaLog]{Err: a.storeFailed(err, "read log", logFields(userID, mediaType, externalID))}
	}
	return models.Ok(l)
}

func (a *Aggregator) LogItem(ctx context.Context, userID string, in models.LogInput) models.Result[*models.UserMediaLog] {
	a.snapshot(ctx, in.MediaType, in.ExternalID)

	l, err := a.store.UpsertLog(ctx, userID, in)
	if err != nil {
		return models.Result[*models.UserMediaLog]{Err: a.storeFailed(err, "save log", logFields(userID, in.MediaType, in.ExternalID))}
	}
	a.logger.WithFields(logFields(userID, in.MediaType, in.ExternalID)).Info("Log saved")
	return models.Ok(l)
}

func (a *Aggregator) RemoveLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) models.Result[bool] {
	removed, err := a.store.DeleteLog(ctx, userID, mediaType, externalID)
	if err != nil {
		return models.Result[bool]{Err: a.storeFailed(err, "remove log", logFields(userID, mediaType, externalID))}
	}
	if !removed {
		return models.FailNotFound[bool]("No log found for %s %s", mediaType, externalID)
	}
	a.logger.WithFields(logFields(userID, mediaType, externalID)).Info("Log removed")
	return models.Ok(true)
}

func (a *Aggregator) GetProfile(ctx context.Context, userID string) models.Result[*models.Profile] {
	p, err := a.store.EnsureProfile(ctx, userID)
	if err != nil {
		return models.Result[*models.Profile]{Err: a.storeFailed(err, "load profile", logrus.Fields{"user_id": userID})}
	}
	return models.Ok(p)
}

func (a *Aggregator) UpdateProfile(ctx context.Context, userID string, in models.ProfileInput) models.Result[*models.Profile] {
	p, err := a.store.UpdateProfile(ctx, userID, in)
	if err != nil {
		return models.Result[*models.Profile]{Err: a.storeFailed(err, "update profile", logrus.Fields{"user_id": userID})}
	}
	return models.Ok(p)
}
