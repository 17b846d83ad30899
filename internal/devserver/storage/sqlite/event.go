package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

const eventColumns = `id, title, description, price, duration, location, thumbnail,
	types, schedule, images, event_details, created_by, created_at, updated_at`

// eventJSON - колонки события, которые хранятся как JSON
type eventJSON struct {
	types, schedule, images, details string
}

func encodeEvent(e *api.Event) (eventJSON, error) {
	var out eventJSON
	fields := []struct {
		dst *string
		v   any
	}{
		{&out.types, nonNil(e.Type)},
		{&out.schedule, nonNil(e.Schedule)},
		{&out.images, nonNil(e.Images)},
		{&out.details, nonNil(e.EventDetails)},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.v)
		if err != nil {
			return eventJSON{}, fmt.Errorf("failed to marshal event field: %w", err)
		}
		*f.dst = string(data)
	}
	return out, nil
}

// nonNil пишет пустой массив вместо null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// CreateEvent creates a new event
func (s *Storage) CreateEvent(ctx context.Context, e *api.Event) error {
	j, err := encodeEvent(e)
	if err != nil {
		return err
	}

	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Price, e.Duration, e.Location, e.Thumbnail,
		j.types, j.schedule, j.images, j.details, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves event by ID
func (s *Storage) GetEvent(ctx context.Context, eventID string) (*api.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListEvents returns all events in creation order
func (s *Storage) ListEvents(ctx context.Context) ([]api.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	events := []api.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return events, nil
}

// UpdateEvent overwrites all editable fields
func (s *Storage) UpdateEvent(ctx context.Context, e *api.Event) error {
	j, err := encodeEvent(e)
	if err != nil {
		return err
	}

	query := `
		UPDATE events SET
			title = ?, description = ?, price = ?, duration = ?, location = ?, thumbnail = ?,
			types = ?, schedule = ?, images = ?, event_details = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		e.Title, e.Description, e.Price, e.Duration, e.Location, e.Thumbnail,
		j.types, j.schedule, j.images, j.details, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffected(res, storage.ErrEventNotFound)
}

// DeleteEvent deletes event by ID
func (s *Storage) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffected(res, storage.ErrEventNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*api.Event, error) {
	var (
		e api.Event
		j eventJSON
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Price, &e.Duration, &e.Location, &e.Thumbnail,
		&j.types, &j.schedule, &j.images, &j.details, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		src string
		dst any
	}{
		{j.types, &e.Type},
		{j.schedule, &e.Schedule},
		{j.images, &e.Images},
		{j.details, &e.EventDetails},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event field: %w", err)
		}
	}
	return &e, nil
}
