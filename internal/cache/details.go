// Package cache provides the read-through cache for normalized catalog items.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"mediascope/internal/models"
)

const (
	detailsCachePrefix = "media:details:"
	DefaultDetailsTTL  = time.Hour

	// sharedLoadTimeout bounds a load that outlives the caller that started it.
	sharedLoadTimeout = 30 * time.Second
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Loader fetches an item on a cache miss.
type Loader interface {
	GetMediaDetails(ctx context.Context, mediaType models.MediaType, externalID string) models.Result[*models.MediaItem]
}

// Details caches successful detail lookups keyed by (mediaType, externalID).
// Entries are only ever added here; expiry is left to the store's TTL.
// Failures and not-found answers are never cached.
type Details struct {
	store  Store
	loader Loader
	ttl    time.Duration
	logger *logrus.Logger
	group  singleflight.Group
}

func NewDetails(store Store, loader Loader, ttl time.Duration, logger *logrus.Logger) *Details {
	if ttl <= 0 {
		ttl = DefaultDetailsTTL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Details{store: store, loader: loader, ttl: ttl, logger: logger}
}

func detailsKey(mediaType models.MediaType, externalID string) string {
	return fmt.Sprintf("%s%s:%s", detailsCachePrefix, mediaType, externalID)
}

func (d *Details) GetMediaDetails(ctx context.Context, mediaType models.MediaType, externalID string) models.Result[*models.MediaItem] {
	key := detailsKey(mediaType, externalID)

	if item, ok := d.lookup(ctx, key); ok {
		return models.Ok(item)
	}

	// The load is shared by every caller waiting on key, so it must not
	// inherit any single caller's cancellation.
	ch := d.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		res := d.loader.GetMediaDetails(loadCtx, mediaType, externalID)
		if !res.Failed() && res.Data != nil {
			d.save(loadCtx, key, res.Data)
		}
		return res, nil
	})

	select {
	case r := <-ch:
		return r.Val.(models.Result[*models.MediaItem])
	case <-ctx.Done():
		return models.Fail[*models.MediaItem]("Request cancelled: %v", ctx.Err())
	}
}

func (d *Details) lookup(ctx context.Context, key string) (*models.MediaItem, bool) {
	raw, ok, err := d.store.Get(ctx, key)
	if err != nil {
		d.logger.WithError(err).WithField("key", key).Warn("Failed to read from cache")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var item models.MediaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		d.logger.WithError(err).WithField("key", key).Warn("Failed to unmarshal cached details")
		return nil, false
	}
	d.logger.WithField("key", key).Debug("Retrieved details from cache")
	return &item, true
}

func (d *Details) save(ctx context.Context, key string, item *models.MediaItem) {
	raw, err := json.Marshal(item)
	if err != nil {
		d.logger.WithError(err).Warn("Failed to marshal details for caching")
		return
	}
	if err := d.store.Set(ctx, key, raw, d.ttl); err != nil {
		d.logger.WithError(err).WithField("key", key).Warn("Failed to write details to cache")
		return
	}
	d.logger.WithField("key", key).Debug("Details cached successfully")
}
