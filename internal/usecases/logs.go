package usecases

import (
	"context"
	"strings"

	"mediascope/internal/models"
)

type GetLog struct {
	port MediaPort
}

// Execute returns nil when the user has not logged the item.
func (uc *GetLog) Execute(ctx context.Context, userID, mediaType, externalID string) (*models.UserMediaLog, error) {
	ref, err := checkUserItem(userID, mediaType, externalID)
	if err != nil {
		return nil, err
	}
	return unwrap(uc.port.GetLog(ctx, userID, ref.mediaType(), ref.ExternalID))
}

type LogItem struct {
	port MediaPort
}

// Execute creates or updates the log. Fields left nil keep their stored value.
func (uc *LogItem) Execute(ctx context.Context, userID string, in models.LogInput) (*models.UserMediaLog, error) {
	ref := newItemRef(string(in.MediaType), in.ExternalID)
	in.MediaType, in.ExternalID = ref.mediaType(), ref.ExternalID
	if in.Review != nil {
		review := strings.TrimSpace(*in.Review)
		in.Review = &review
	}

	if err := check(userRef{UserID: userID}, in); err != nil {
		return nil, err
	}
	return unwrap(uc.port.LogItem(ctx, userID, in))
}

type RemoveLog struct {
	port MediaPort
}

func (uc *RemoveLog) Execute(ctx context.Context, userID, mediaType, externalID string) error {
	ref, err := checkUserItem(userID, mediaType, externalID)
	if err != nil {
		return err
	}
	_, err = unwrap(uc.port.RemoveLog(ctx, userID, ref.mediaType(), ref.ExternalID))
	return err
}

// LogQueryInput is the raw list request. Zero values take defaults.
type LogQueryInput struct {
	MediaType string `json:"type" validate:"omitempty,media_type"`
	Sort      string `json:"sort" validate:"omitempty,sort_key"`
	Page      int    `json:"page" validate:"min=0"`
	PageSize  int    `json:"page_size" validate:"min=0,max=100"`
}

func checkLogQuery(userID string, in LogQueryInput) (models.LogQuery, error) {
	in.MediaType = strings.ToLower(strings.TrimSpace(in.MediaType))
	in.Sort = strings.ToLower(strings.TrimSpace(in.Sort))
	if in.MediaType == "all" {
		in.MediaType = ""
	}

	if err := check(userRef{UserID: userID}, in); err != nil {
		return models.LogQuery{}, err
	}
	return models.LogQuery{
		MediaType: models.MediaType(in.MediaType),
		Sort:      models.SortKey(in.Sort),
		Page:      in.Page,
		PageSize:  in.PageSize,
	}.Normalize(), nil
}

type ListLogs struct {
	engine LogEngine
}

// Execute returns one fully enriched page plus statistics over the whole
// filtered set.
func (uc *ListLogs) Execute(ctx context.Context, userID string, in LogQueryInput) (*models.DisplayPage, error) {
	q, err := checkLogQuery(userID, in)
	if err != nil {
		return nil, err
	}
	page, err := uc.engine.DisplayPage(ctx, userID, q)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, operationFailed("Failed to load logs", err)
	}
	return page, nil
}

type StreamLogs struct {
	engine LogEngine
}

// Execute hands the page with loading placeholders to onRows, then reports
// each enriched row to onRow as it completes. When ctx ends early the
// remaining rows are dropped and ctx.Err() is returned.
func (uc *StreamLogs) Execute(ctx context.Context, userID string, in LogQueryInput,
	onRows func(*models.DisplayPage), onRow func(index int, rec models.DisplayRecord)) error {
	q, err := checkLogQuery(userID, in)
	if err != nil {
		return err
	}

	page, err := uc.engine.Page(ctx, userID, q)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return operationFailed("Failed to load logs", err)
	}

	onRows(&models.DisplayPage{
		LogStats:   page.LogStats,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Sort:       page.Sort,
		Items:      models.Placeholders(page.Logs),
	})

	_, err = uc.engine.Enrich(ctx, page.Logs, onRow)
	return err
}
