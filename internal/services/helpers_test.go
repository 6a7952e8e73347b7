package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
)

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string { return &v }
func floatPtr(v float64) *float64 { return &v }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type detailsFunc func(ctx context.Context, t models.MediaType, id string) models.Result[*models.MediaItem]

func (f detailsFunc) GetMediaDetails(ctx context.Context, t models.MediaType, id string) models.Result[*models.MediaItem] {
	return f(ctx, t, id)
}

// fakeSource serves items from a map and records the ids it was asked for.
type fakeSource struct {
	name  string
	items map[string]*models.MediaItem
	err   error

	mu    sync.Mutex
	asked []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, query string, page int) (*models.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := models.EmptySearch(page)
	for _, item := range f.items {
		res.Results = append(res.Results, *item)
	}
	res.TotalResults = len(res.Results)
	return res, nil
}

func (f *fakeSource) GetDetails(_ context.Context, id string) (*models.MediaItem, error) {
	f.mu.Lock()
	f.asked = append(f.asked, id)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.items[id], nil
}

type rankedSource struct {
	fakeSource
}

func (r *rankedSource) TopRated(ctx context.Context, page int) (*models.SearchResponse, error) {
	return r.Search(ctx, "", page)
}

func item(t models.MediaType, id, title string) *models.MediaItem {
	it := models.NewMediaItem(t, id, title)
	return &it
}
