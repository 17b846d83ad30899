package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

// бронирование отдается с populate-нутым событием (id и название), как у бэкенда
const bookingSelect = `
	SELECT b.id, b.event_id, b.name, b.email, b.phone, b.payment_status, b.payment_intent_id,
		b.total_amount, b.slots, b.created_at, b.updated_at, e.title, e.price
	FROM bookings b
	LEFT JOIN events e ON e.id = b.event_id
`

// CreateBooking creates a new booking
func (s *Storage) CreateBooking(ctx context.Context, b *api.Booking) error {
	slots, err := json.Marshal(nonNil(b.Slots))
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	query := `
		INSERT INTO bookings (id, event_id, name, email, phone, payment_status, payment_intent_id,
			total_amount, slots, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		b.ID, b.EventID.ID, b.Name, b.Email, b.Phone, b.PaymentStatus, b.PaymentIntentID,
		b.TotalAmount, string(slots), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// GetBooking retrieves booking by ID
func (s *Storage) GetBooking(ctx context.Context, bookingID string) (*api.Booking, error) {
	row := s.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, bookingID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListBookings returns a page of bookings, newest first, and the total count
func (s *Storage) ListBookings(ctx context.Context, offset, limit int) ([]api.Booking, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.queryBookings(ctx,
		bookingSelect+` ORDER BY b.created_at DESC, b.id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// BookingsBetween returns bookings created in [from, to), oldest first
func (s *Storage) BookingsBetween(ctx context.Context, from, to time.Time) ([]api.Booking, error) {
	return s.queryBookings(ctx,
		bookingSelect+` WHERE b.created_at >= ? AND b.created_at < ? ORDER BY b.created_at, b.id`, from, to)
}

// UpdatePaymentStatus sets payment status of a booking
func (s *Storage) UpdatePaymentStatus(ctx context.Context, bookingID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return checkAffected(res, storage.ErrBookingNotFound)
}

func (s *Storage) queryBookings(ctx context.Context, query string, args ...any) ([]api.Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	bookings := []api.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return bookings, nil
}

func scanBooking(row scanner) (*api.Booking, error) {
	var (
		b       api.Booking
		eventID string
		slots   string
		title   sql.NullString
		price   sql.NullFloat64
	)
	err := row.Scan(
		&b.ID, &eventID, &b.Name, &b.Email, &b.Phone, &b.PaymentStatus, &b.PaymentIntentID,
		&b.TotalAmount, &slots, &b.CreatedAt, &b.UpdatedAt, &title, &price,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(slots), &b.Slots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
	}

	// удаленное событие остается ссылкой по id
	b.EventID = api.EventRef{ID: eventID}
	if title.Valid {
		b.EventID.Event = &api.Event{ID: eventID, Title: title.String, Price: price.Float64}
	}
	return &b, nil
}
