package views

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/client/query"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// ErrAlreadyCancelled - повторная отмена бронирования
var ErrAlreadyCancelled = errors.New("booking is already cancelled")

const bookingDateLayout = "01/02/2006 03:04pm"

// BookingsBackend - часть API, нужная экрану бронирований
type BookingsBackend interface {
	BookingSummary(ctx context.Context, params pkgapi.BookingSummaryParams) (*pkgapi.BookingSummaryResponse, error)
	CancelBooking(ctx context.Context, bookingID string) (*pkgapi.MessageResponse, error)
}

// BookingsKey - ключ страницы списка бронирований
func BookingsKey(page int) query.Key {
	return query.NewKey(KeyBookings, page)
}

// BookingsView - постраничный список бронирований с отменой
type BookingsView struct {
	backend  BookingsBackend
	cache    *query.Cache
	cancel   *mutation.Executor[string, *pkgapi.MessageResponse]
	observer *query.Observer
	cfg      Config
	page     int
	mounted  int
}

// NewBookingsView создает экран на первой странице
func NewBookingsView(backend BookingsBackend, cache *query.Cache, cfg Config) *BookingsView {
	cfg = cfg.withDefaults()
	v := &BookingsView{
		backend: backend,
		cache:   cache,
		cfg:     cfg,
		page:    1,
	}
	v.cancel = mutation.New[string, *pkgapi.MessageResponse](cache, backend.CancelBooking, mutation.Options[*pkgapi.MessageResponse]{
		Notifier: cfg.Notifier,
		Logger:   cfg.Logger,
		Success:  "Booking cancelled successfully",
		Failure:  "Failed to cancel booking",
		// отмена меняет и список, и помесячную выручку
		Invalidate: []query.Key{
			query.NewKey(KeyBookings),
			query.NewKey(KeyDashboard),
		},
	})
	return v
}

// Page - текущая страница
func (v *BookingsView) Page() int {
	return v.page
}

// SetPage переключает страницу. Данные других страниц остаются в кэше.
func (v *BookingsView) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.page = page
}

// Key - ключ текущей страницы
func (v *BookingsView) Key() query.Key {
	return BookingsKey(v.page)
}

// Load загружает текущую страницу через кэш
func (v *BookingsView) Load(ctx context.Context) State[*pkgapi.BookingSummary] {
	return load(ctx, v.cache, v.Key(), v.fetchPage(v.page))
}

func (v *BookingsView) fetchPage(page int) func(ctx context.Context) (*pkgapi.BookingSummary, error) {
	return func(ctx context.Context) (*pkgapi.BookingSummary, error) {
		resp, err := v.backend.BookingSummary(ctx, pkgapi.BookingSummaryParams{
			Filter: pkgapi.FilterAll,
			Page:   page,
			Limit:  v.cfg.PageSize,
		})
		if err != nil {
			return nil, err
		}
		return &resp.Message, nil
	}
}

// Mount подписывает экран на текущую страницу, пока он открыт.
// После инвалидации страница перезапрашивается сразу, не дожидаясь Load.
// Смена страницы переносит подписку.
func (v *BookingsView) Mount() {
	if v.observer != nil {
		if v.mounted == v.page {
			return
		}
		v.observer.Close()
	}
	fetch := v.fetchPage(v.page)
	v.observer = v.cache.Observe(v.Key(), func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	v.mounted = v.page
}

// Unmount снимает подписку
func (v *BookingsView) Unmount() {
	if v.observer == nil {
		return
	}
	v.observer.Close()
	v.observer = nil
	v.mounted = 0
}

// Mounted - номер подписанной страницы, 0 - экран не открыт
func (v *BookingsView) Mounted() int {
	return v.mounted
}

// Cancel отменяет бронирование. Уже отмененное на текущей странице не отправляется на сервер.
func (v *BookingsView) Cancel(ctx context.Context, bookingID string) error {
	if b, ok := v.find(bookingID); ok && b.PaymentStatus == pkgapi.PaymentCancelled {
		return ErrAlreadyCancelled
	}
	if _, err := v.cancel.Mutate(ctx, bookingID); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	return nil
}

// Cancelling - идет ли отмена (кнопка неактивна)
func (v *BookingsView) Cancelling() bool {
	return v.cancel.IsPending()
}

func (v *BookingsView) find(bookingID string) (pkgapi.Booking, bool) {
	entry, ok := v.cache.Peek(v.Key())
	if !ok {
		return pkgapi.Booking{}, false
	}
	summary, ok := entry.Data.(*pkgapi.BookingSummary)
	if !ok || summary == nil {
		return pkgapi.Booking{}, false
	}
	for _, b := range summary.Bookings {
		if b.ID == bookingID {
			return b, true
		}
	}
	return pkgapi.Booking{}, false
}

// Render рисует таблицу бронирований
func (v *BookingsView) Render(w io.Writer, s State[*pkgapi.BookingSummary]) error {
	t := newTable("Bookings", "ID", "Event Name", "Customer", "Price", "Email", "Date", "Status", "Action")
	t.Empty = "No bookings found."
	fill(t, s, bookingRows)
	if s.Err == nil && s.Data != nil {
		p := s.Data.Pagination
		if p.TotalPages > 1 {
			t.Footer = fmt.Sprintf("%s (page %d of %d)", PageText(v.page, v.cfg.PageSize, p.TotalData), v.page, p.TotalPages)
		}
	}
	return render(w, t)
}

func bookingRows(s *pkgapi.BookingSummary) [][]string {
	if s == nil {
		return nil
	}
	rows := make([][]string, 0, len(s.Bookings))
	for _, b := range s.Bookings {
		action := "Cancel"
		if b.PaymentStatus == pkgapi.PaymentCancelled {
			action = "Cancelled"
		}
		rows = append(rows, []string{
			b.ID,
			dash(b.EventID.Title()),
			dash(b.Name),
			"£" + b.TotalAmount,
			b.Email,
			b.CreatedAt.UTC().Format(bookingDateLayout),
			b.PaymentStatus,
			action,
		})
	}
	return rows
}
