package sqlite

import (
	"context"
	"fmt"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

// CreateVideo creates a new video
func (s *Storage) CreateVideo(ctx context.Context, v *api.Video) error {
	query := `
		INSERT INTO videos (id, title, url, type, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.Title, v.Video.URL, v.Video.Type, v.CreatedBy, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

// ListVideos returns a page of videos, newest first, and the total count
func (s *Storage) ListVideos(ctx context.Context, offset, limit int) ([]api.Video, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, type, created_by, created_at, updated_at
		FROM videos
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	videos := []api.Video{}
	for rows.Next() {
		var v api.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Video.URL, &v.Video.Type, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}
	return videos, total, nil
}

// DeleteVideo deletes video by ID
func (s *Storage) DeleteVideo(ctx context.Context, videoID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return checkAffected(res, storage.ErrVideoNotFound)
}
