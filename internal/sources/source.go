// Package sources holds one adapter per external catalog. Every adapter
// normalizes its own schema into models.MediaItem.
package sources

import (
	"context"

	"mediascope/internal/models"
)

// Source is implemented by each external catalog adapter.
//
// Search returns an empty page, not an error, for a blank query. GetDetails
// returns (nil, nil) when the catalog confirms the item does not exist.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, page int) (*models.SearchResponse, error)
	GetDetails(ctx context.Context, externalID string) (*models.MediaItem, error)
}

// TopRatedSource is implemented by catalogs that can rank their items.
type TopRatedSource interface {
	TopRated(ctx context.Context, page int) (*models.SearchResponse, error)
}

const (
	unknownTitle = "Unknown Title"
	pageSize     = 20
)
