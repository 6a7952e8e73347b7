package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"mediascope/internal/models"
)

const (
	DefaultEnrichConcurrency = 6
	notFoundMessage          = "Item not found"
)

// LogReader is the part of the LogStore the engine reads.
type LogReader interface {
	ListLogs(ctx context.Context, userID string, mediaType models.MediaType) ([]models.UserMediaLog, error)
	CountBacklog(ctx context.Context, userID string) (map[models.MediaType]int, error)
}

// Engine joins a user's logs with catalog details and computes statistics.
type Engine struct {
	details     DetailsGetter
	logs        LogReader
	concurrency int
	logger      *logrus.Logger
}

func NewEngine(details DetailsGetter, logs LogReader, concurrency int, logger *logrus.Logger) *Engine {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{details: details, logs: logs, concurrency: concurrency, logger: logger}
}

// Page sorts the full filtered set, computes its statistics and then slices
// the requested page.
func (e *Engine) Page(ctx context.Context, userID string, q models.LogQuery) (*models.LogPage, error) {
	q = q.Normalize()

	logs, err := e.logs.ListLogs(ctx, userID, q.MediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	SortLogs(logs, q.Sort)

	page := &models.LogPage{
		LogStats: ComputeStats(logs),
		Page:     q.Page,
		PageSize: q.PageSize,
		Sort:     q.Sort,
		Logs:     []models.UserMediaLog{},
	}
	page.TotalPages = (len(logs) + q.PageSize - 1) / q.PageSize

	start := (q.Page - 1) * q.PageSize
	if start < len(logs) {
		end := min(start+q.PageSize, len(logs))
		page.Logs = logs[start:end]
	}
	return page, nil
}

func mergeRecord(l models.UserMediaLog, res models.Result[*models.MediaItem]) models.DisplayRecord {
	rec := models.PlaceholderRecord(l)
	rec.IsLoading = false

	switch {
	case res.Failed():
		rec.IsError = true
		rec.Error = res.Err.Message
	case res.Data == nil:
		rec.IsError = true
		rec.Error = notFoundMessage
	default:
		rec.MediaItem = *res.Data
		// identity follows the log, even if an adapter reclassified the item
		rec.ID = models.ComposeID(l.MediaType, l.ExternalID)
		rec.MediaType = l.MediaType
		rec.ExternalID = l.ExternalID
	}
	rec.OverlayLog(l)
	return rec
}

// Enrich fetches details for every log concurrently. A failed fetch marks
// only its own row. onUpdate, if set, sees each row once in completion
// order and is never called after ctx ends; in that case the partial rows
// are discarded and ctx.Err() is returned.
func (e *Engine) Enrich(ctx context.Context, logs []models.UserMediaLog, onUpdate func(index int, rec models.DisplayRecord)) ([]models.DisplayRecord, error) {
	records := models.Placeholders(logs)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, l := range logs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := e.details.GetMediaDetails(gctx, l.MediaType, l.ExternalID)
			rec := mergeRecord(l, res)

			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() != nil {
				return nil
			}
			if rec.IsError {
				e.logger.WithFields(logrus.Fields{
					"media_type":  l.MediaType,
					"external_id": l.ExternalID,
					"error":       rec.Error,
				}).Warn("Row enrichment failed")
			}
			records[i] = rec
			if onUpdate != nil {
				onUpdate(i, rec)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DisplayPage builds one fully enriched page.
func (e *Engine) DisplayPage(ctx context.Context, userID string, q models.LogQuery) (*models.DisplayPage, error) {
	page, err := e.Page(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	items, err := e.Enrich(ctx, page.Logs, nil)
	if err != nil {
		return nil, err
	}
	return &models.DisplayPage{
		LogStats:   page.LogStats,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Sort:       page.Sort,
		Items:      items,
	}, nil
}

// ProfileStats aggregates every log of the user, overall and per media type.
func (e *Engine) ProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	logs, err := e.logs.ListLogs(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	backlog, err := e.logs.CountBacklog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count backlog: %w", err)
	}

	byType := make(map[models.MediaType][]models.UserMediaLog)
	for _, l := range logs {
		byType[l.MediaType] = append(byType[l.MediaType], l)
	}

	out := &models.ProfileStats{
		Overall: models.TypeStats{LogStats: ComputeStats(logs)},
		ByType:  make(map[models.MediaType]models.TypeStats, models.NumMediaTypes),
	}
	for _, t := range models.AllMediaTypes() {
		out.ByType[t] = models.TypeStats{LogStats: ComputeStats(byType[t]), Backlog: backlog[t]}
		out.Overall.Backlog += backlog[t]
	}
	return out, nil
}
