package usecases

import (
	"context"
	"fmt"
	"strings"

	"mediascope/internal/models"
)

type SearchMedia struct {
	port MediaPort
}

// Execute searches one catalog. An empty or "all" mediaType takes the
// degraded all-types path, which answers an empty page with a warning.
func (uc *SearchMedia) Execute(ctx context.Context, query string, page int, mediaType string) (*models.SearchResponse, error) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "all" {
		mediaType = ""
	}
	if mediaType != "" {
		if err := check(struct {
			MediaType string `json:"media_type" validate:"media_type"`
		}{mediaType}); err != nil {
			return nil, err
		}
	}
	return unwrap(uc.port.SearchMedia(ctx, strings.TrimSpace(query), page, models.MediaType(mediaType)))
}

type GetMediaDetails struct {
	port MediaPort
}

func (uc *GetMediaDetails) Execute(ctx context.Context, mediaType, externalID string) (*models.MediaItem, error) {
	ref := newItemRef(mediaType, externalID)
	if err := check(ref); err != nil {
		return nil, err
	}

	item, err := unwrap(uc.port.GetMediaDetails(ctx, ref.mediaType(), ref.ExternalID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &OperationError{
			Message:  fmt.Sprintf("No %s found with id %s", ref.MediaType, ref.ExternalID),
			NotFound: true,
		}
	}
	return item, nil
}

type TopRated struct {
	port MediaPort
}

func (uc *TopRated) Execute(ctx context.Context, mediaType string, page int) (*models.SearchResponse, error) {
	ref := struct {
		MediaType string `json:"media_type" validate:"required,media_type"`
	}{strings.ToLower(strings.TrimSpace(mediaType))}
	if err := check(ref); err != nil {
		return nil, err
	}
	return unwrap(uc.port.TopRated(ctx, models.MediaType(ref.MediaType), page))
}
