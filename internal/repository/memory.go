package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"mediascope/internal/models"
)

type logKey struct {
	userID     string
	mediaType  models.MediaType
	externalID string
}

type mediaKey struct {
	mediaType  models.MediaType
	externalID string
}

// MemoryStore is a LogStore kept in process memory. It backs the server
// when no database is configured and is used as a fake in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	logs     map[logKey]models.UserMediaLog
	backlog  map[logKey]time.Time
	media    map[mediaKey]models.MediaSnapshot
	profiles map[string]models.Profile
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:     make(map[logKey]models.UserMediaLog),
		backlog:  make(map[logKey]time.Time),
		media:    make(map[mediaKey]models.MediaSnapshot),
		profiles: make(map[string]models.Profile),
		now:      time.Now,
	}
}

func (s *MemoryStore) snapshotLocked(t models.MediaType, id string) *models.MediaSnapshot {
	snap, ok := s.media[mediaKey{t, id}]
	if !ok {
		return nil
	}
	return &snap
}

func (s *MemoryStore) ensureProfileLocked(userID string) models.Profile {
	p, ok := s.profiles[userID]
	if !ok {
		now := s.now()
		p = models.Profile{ID: userID, CreatedAt: now, UpdatedAt: now}
		s.profiles[userID] = p
	}
	return p
}

func (s *MemoryStore) GetLog(_ context.Context, userID string, mediaType models.MediaType, externalID string) (*models.UserMediaLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[logKey{userID, mediaType, externalID}]
	if !ok {
		return nil, nil
	}
	l.Media = s.snapshotLocked(mediaType, externalID)
	return &l, nil
}

func (s *MemoryStore) UpsertLog(_ context.Context, userID string, in models.LogInput) (*models.UserMediaLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureProfileLocked(userID)
	key := logKey{userID, in.MediaType, in.ExternalID}
	now := s.now()

	l, ok := s.logs[key]
	if !ok {
		l = models.UserMediaLog{
			UserID:     userID,
			MediaType:  in.MediaType,
			ExternalID: in.ExternalID,
			CreatedAt:  now,
		}
	}
	if in.Rating != nil {
		l.Rating = in.Rating
	}
	if in.Liked != nil {
		l.Liked = in.Liked
	}
	if in.WatchedDate != nil {
		l.WatchedDate = in.WatchedDate
	}
	if in.Review != nil {
		l.Review = in.Review
	}
	l.UpdatedAt = now
	s.logs[key] = l
	return &l, nil
}

func (s *MemoryStore) DeleteLog(_ context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := logKey{userID, mediaType, externalID}
	if _, ok := s.logs[key]; !ok {
		return false, nil
	}
	delete(s.logs, key)
	return true, nil
}

func (s *MemoryStore) ListLogs(_ context.Context, userID string, mediaType models.MediaType) ([]models.UserMediaLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.UserMediaLog, 0)
	for k, l := range s.logs {
		if k.userID != userID || (mediaType != "" && k.mediaType != mediaType) {
			continue
		}
		l.Media = s.snapshotLocked(k.mediaType, k.externalID)
		out = append(out, l)
	}
	// map order is random; callers sort, but keep the raw listing stable
	sort.Slice(out, func(i, j int) bool {
		if out[i].MediaType != out[j].MediaType {
			return out[i].MediaType < out[j].MediaType
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (s *MemoryStore) IsInBacklog(_ context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.backlog[logKey{userID, mediaType, externalID}]
	return ok, nil
}

func (s *MemoryStore) ToggleBacklog(_ context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := logKey{userID, mediaType, externalID}
	if _, ok := s.backlog[key]; ok {
		delete(s.backlog, key)
		return false, nil
	}
	s.ensureProfileLocked(userID)
	s.backlog[key] = s.now()
	return true, nil
}

func (s *MemoryStore) ListBacklog(_ context.Context, userID string, mediaType models.MediaType) ([]models.BacklogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BacklogEntry, 0)
	for k, at := range s.backlog {
		if k.userID != userID || (mediaType != "" && k.mediaType != mediaType) {
			continue
		}
		out = append(out, models.BacklogEntry{
			UserID:     userID,
			MediaType:  k.mediaType,
			ExternalID: k.externalID,
			CreatedAt:  at,
			Media:      s.snapshotLocked(k.mediaType, k.externalID),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (s *MemoryStore) CountBacklog(_ context.Context, userID string) (map[models.MediaType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.MediaType]int)
	for k := range s.backlog {
		if k.userID == userID {
			counts[k.mediaType]++
		}
	}
	return counts, nil
}

func (s *MemoryStore) UpsertMediaSnapshot(_ context.Context, mediaType models.MediaType, externalID string, snap models.MediaSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.media[mediaKey{mediaType, externalID}] = snap
	return nil
}

func (s *MemoryStore) EnsureProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureProfileLocked(userID)
	return &p, nil
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, userID string, in models.ProfileInput) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureProfileLocked(userID)
	if in.Username != nil {
		p.Username = in.Username
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
	p.UpdatedAt = s.now()
	s.profiles[userID] = p
	return &p, nil
}
