package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
	"mediascope/internal/sources"
)

// Adding a media type changes NumMediaTypes and breaks these two lines
// until sourceFor handles it.
var (
	_ [5 - models.NumMediaTypes]struct{}
	_ [models.NumMediaTypes - 5]struct{}
)

const searchAllWarning = "Searching across all media types is not supported; choose a media type"

// DetailsGetter is satisfied by Catalog and by the read-through cache that wraps it.
type DetailsGetter interface {
	GetMediaDetails(ctx context.Context, mediaType models.MediaType, externalID string) models.Result[*models.MediaItem]
}

// Sources lists the adapter serving each media type.
type Sources struct {
	Movies sources.Source
	TV     sources.Source
	Books  sources.Source
	Games  sources.Source
	Manga  sources.Source
}

// Catalog dispatches catalog reads to the adapter for a media type and
// turns every adapter failure into a ResponseError value.
type Catalog struct {
	sources Sources
	logger  *logrus.Logger
}

func NewCatalog(src Sources, logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.New()
	}
	return &Catalog{sources: src, logger: logger}
}

func (c *Catalog) sourceFor(mediaType models.MediaType, externalID string) (sources.Source, bool) {
	var src sources.Source
	switch mediaType {
	case models.MediaMovie:
		src = c.sources.Movies
	case models.MediaTV:
		src = c.sources.TV
	case models.MediaBook:
		src = c.sources.Books
	case models.MediaGame:
		src = c.sources.Games
	case models.MediaManga:
		// Open Library works can be classified as manga.
		if sources.IsWorkID(externalID) {
			src = c.sources.Books
		} else {
			src = c.sources.Manga
		}
	default:
		return nil, false
	}
	return src, src != nil
}

func unsupported[T any](mediaType models.MediaType) models.Result[T] {
	return models.Fail[T]("Unsupported media type: %s", mediaType)
}

func (c *Catalog) fail(err error, op string, fields logrus.Fields) *models.ResponseError {
	entry := c.logger.WithFields(fields).WithError(err)
	var ue *sources.UnavailableError
	if errors.As(err, &ue) {
		entry = entry.WithFields(logrus.Fields{"source": ue.Source, "status": ue.StatusCode})
	}
	entry.Errorf("Failed to %s", op)
	return &models.ResponseError{Message: err.Error()}
}

func (c *Catalog) GetMediaDetails(ctx context.Context, mediaType models.MediaType, externalID string) models.Result[*models.MediaItem] {
	src, ok := c.sourceFor(mediaType, externalID)
	if !ok {
		return unsupported[*models.MediaItem](mediaType)
	}

	item, err := src.GetDetails(ctx, externalID)
	if err != nil {
		return models.Result[*models.MediaItem]{Err: c.fail(err, "fetch media details", logrus.Fields{
			"media_type":  mediaType,
			"external_id": externalID,
		})}
	}
	if item == nil {
		c.logger.WithFields(logrus.Fields{
			"media_type":  mediaType,
			"external_id": externalID,
		}).Debug("Media item not found")
	}
	return models.Ok(item)
}

// SearchMedia searches one catalog. An empty mediaType means "all", which
// is not implemented and answers an empty page carrying a warning.
func (c *Catalog) SearchMedia(ctx context.Context, query string, page int, mediaType models.MediaType) models.Result[*models.SearchResponse] {
	if page < 1 {
		page = 1
	}
	if mediaType == "" {
		res := models.EmptySearch(page)
		res.Warning = searchAllWarning
		return models.Ok(res)
	}

	src, ok := c.sourceFor(mediaType, "")
	if !ok {
		return unsupported[*models.SearchResponse](mediaType)
	}

	res, err := src.Search(ctx, query, page)
	if err != nil {
		return models.Result[*models.SearchResponse]{Err: c.fail(err, "search media", logrus.Fields{
			"media_type": mediaType,
			"query":      query,
			"page":       page,
		})}
	}
	return models.Ok(res)
}

func (c *Catalog) TopRated(ctx context.Context, mediaType models.MediaType, page int) models.Result[*models.SearchResponse] {
	if page < 1 {
		page = 1
	}
	src, ok := c.sourceFor(mediaType, "")
	if !ok {
		return unsupported[*models.SearchResponse](mediaType)
	}
	ranked, ok := src.(sources.TopRatedSource)
	if !ok {
		return models.Fail[*models.SearchResponse]("Top rated not available for %s", mediaType)
	}

	res, err := ranked.TopRated(ctx, page)
	if err != nil {
		return models.Result[*models.SearchResponse]{Err: c.fail(err, "fetch top rated", logrus.Fields{
			"media_type": mediaType,
			"page":       page,
		})}
	}
	return models.Ok(res)
}
