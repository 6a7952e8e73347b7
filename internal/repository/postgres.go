package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediascope/internal/models"
)

type postgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) LogStore {
	return &postgresStore{db: db}
}

const logColumns = `
	l.user_id::text, l.media_type, l.external_id, l.rating, l.liked,
	to_char(l.watched_date, 'YYYY-MM-DD'), l.review, l.created_at, l.updated_at`

const snapshotColumns = `m.title, m.poster_url, m.release_date, m.average_score`

const ensureProfileSQL = `INSERT INTO profiles (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

type nullableSnapshot struct {
	title        *string
	posterURL    *string
	releaseDate  *string
	averageScore *float64
}

func (n nullableSnapshot) snapshot() *models.MediaSnapshot {
	if n.title == nil {
		return nil
	}
	return &models.MediaSnapshot{
		Title:        *n.title,
		PosterURL:    n.posterURL,
		ReleaseDate:  n.releaseDate,
		AverageScore: n.averageScore,
	}
}

func scanLog(row pgx.Row, extra ...any) (*models.UserMediaLog, error) {
	var l models.UserMediaLog
	var rating *int16
	dest := []any{&l.UserID, &l.MediaType, &l.ExternalID, &rating, &l.Liked,
		&l.WatchedDate, &l.Review, &l.CreatedAt, &l.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if rating != nil {
		r := int(*rating)
		l.Rating = &r
	}
	return &l, nil
}

func (s *postgresStore) GetLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (*models.UserMediaLog, error) {
	var snap nullableSnapshot
	row := s.db.QueryRow(ctx, `
		SELECT`+logColumns+`, `+snapshotColumns+`
		FROM user_media_logs l
		LEFT JOIN media m ON m.media_type = l.media_type AND m.external_id = l.external_id
		WHERE l.user_id = $1 AND l.media_type = $2 AND l.external_id = $3
	`, userID, string(mediaType), externalID)

	l, err := scanLog(row, &snap.title, &snap.posterURL, &snap.releaseDate, &snap.averageScore)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	l.Media = snap.snapshot()
	return l, nil
}

func (s *postgresStore) UpsertLog(ctx context.Context, userID string, in models.LogInput) (*models.UserMediaLog, error) {
	var out *models.UserMediaLog
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, ensureProfileSQL, userID); err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO user_media_logs AS l (user_id, media_type, external_id, rating, liked, watched_date, review)
			VALUES ($1, $2, $3, $4, $5, $6::date, $7)
			ON CONFLICT (user_id, media_type, external_id) DO UPDATE SET
				rating       = COALESCE(EXCLUDED.rating, l.rating),
				liked        = COALESCE(EXCLUDED.liked, l.liked),
				watched_date = COALESCE(EXCLUDED.watched_date, l.watched_date),
				review       = COALESCE(EXCLUDED.review, l.review),
				updated_at   = now()
			RETURNING`+logColumns,
			userID, string(in.MediaType), in.ExternalID, in.Rating, in.Liked, in.WatchedDate, in.Review)

		l, err := scanLog(row)
		if err != nil {
			return fmt.Errorf("upsert log: %w", err)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *postgresStore) DeleteLog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM user_media_logs
		WHERE user_id = $1 AND media_type = $2 AND external_id = $3
	`, userID, string(mediaType), externalID)
	if err != nil {
		return false, fmt.Errorf("delete log: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *postgresStore) ListLogs(ctx context.Context, userID string, mediaType models.MediaType) ([]models.UserMediaLog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+logColumns+`, `+snapshotColumns+`
		FROM user_media_logs l
		LEFT JOIN media m ON m.media_type = l.media_type AND m.external_id = l.external_id
		WHERE l.user_id = $1 AND ($2 = '' OR l.media_type = $2)
	`, userID, string(mediaType))
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	out := make([]models.UserMediaLog, 0)
	for rows.Next() {
		var snap nullableSnapshot
		l, err := scanLog(rows, &snap.title, &snap.posterURL, &snap.releaseDate, &snap.averageScore)
		if err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		l.Media = snap.snapshot()
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *postgresStore) IsInBacklog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM backlog WHERE user_id = $1 AND media_type = $2 AND external_id = $3)
	`, userID, string(mediaType), externalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check backlog: %w", err)
	}
	return exists, nil
}

func (s *postgresStore) ToggleBacklog(ctx context.Context, userID string, mediaType models.MediaType, externalID string) (bool, error) {
	var inBacklog bool
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM backlog WHERE user_id = $1 AND media_type = $2 AND external_id = $3
		`, userID, string(mediaType), externalID)
		if err != nil {
			return fmt.Errorf("remove from backlog: %w", err)
		}
		if tag.RowsAffected() > 0 {
			inBacklog = false
			return nil
		}

		if _, err := tx.Exec(ctx, ensureProfileSQL, userID); err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO backlog (user_id, media_type, external_id) VALUES ($1, $2, $3)
		`, userID, string(mediaType), externalID); err != nil {
			return fmt.Errorf("add to backlog: %w", err)
		}
		inBacklog = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return inBacklog, nil
}

func (s *postgresStore) ListBacklog(ctx context.Context, userID string, mediaType models.MediaType) ([]models.BacklogEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT b.user_id::text, b.media_type, b.external_id, b.created_at, `+snapshotColumns+`
		FROM backlog b
		LEFT JOIN media m ON m.media_type = b.media_type AND m.external_id = b.external_id
		WHERE b.user_id = $1 AND ($2 = '' OR b.media_type = $2)
		ORDER BY b.created_at DESC, b.external_id
	`, userID, string(mediaType))
	if err != nil {
		return nil, fmt.Errorf("list backlog: %w", err)
	}
	defer rows.Close()

	out := make([]models.BacklogEntry, 0)
	for rows.Next() {
		var e models.BacklogEntry
		var snap nullableSnapshot
		if err := rows.Scan(&e.UserID, &e.MediaType, &e.ExternalID, &e.CreatedAt,
			&snap.title, &snap.posterURL, &snap.releaseDate, &snap.averageScore); err != nil {
			return nil, fmt.Errorf("scan backlog row: %w", err)
		}
		e.Media = snap.snapshot()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *postgresStore) CountBacklog(ctx context.Context, userID string) (map[models.MediaType]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT media_type, COUNT(*) FROM backlog WHERE user_id = $1 GROUP BY media_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count backlog: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.MediaType]int)
	for rows.Next() {
		var t string
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan backlog count: %w", err)
		}
		counts[models.MediaType(t)] = int(n)
	}
	return counts, rows.Err()
}

func (s *postgresStore) UpsertMediaSnapshot(ctx context.Context, mediaType models.MediaType, externalID string, snap models.MediaSnapshot) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO media (media_type, external_id, title, poster_url, release_date, average_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (media_type, external_id) DO UPDATE SET
			title         = EXCLUDED.title,
			poster_url    = EXCLUDED.poster_url,
			release_date  = EXCLUDED.release_date,
			average_score = EXCLUDED.average_score,
			updated_at    = EXCLUDED.updated_at
	`, string(mediaType), externalID, snap.Title, snap.PosterURL, snap.ReleaseDate, snap.AverageScore, time.Now())
	if err != nil {
		return fmt.Errorf("upsert media snapshot: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Username, &p.Bio, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postgresStore) EnsureProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if _, err := s.db.Exec(ctx, ensureProfileSQL, userID); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("ensure profile: profile %s vanished", userID)
	}
	return p, nil
}

func (s *postgresStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `
		SELECT id::text, username, bio, created_at, updated_at FROM profiles WHERE id = $1
	`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *postgresStore) UpdateProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `
		INSERT INTO profiles AS p (id, username, bio) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			username   = COALESCE(EXCLUDED.username, p.username),
			bio        = COALESCE(EXCLUDED.bio, p.bio),
			updated_at = now()
		RETURNING id::text, username, bio, created_at, updated_at
	`, userID, in.Username, in.Bio))
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
