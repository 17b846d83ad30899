package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

// BookingSummary обрабатывает GET /booking/summary.
// filter=month - помесячные агрегаты за year, иначе страница всех бронирований.
func (h *Handler) BookingSummary(w http.ResponseWriter, r *http.Request) {
	var (
		summary *api.BookingSummary
		err     error
	)
	switch filter := r.URL.Query().Get("filter"); filter {
	case api.FilterMonth:
		year, convErr := strconv.Atoi(r.URL.Query().Get("year"))
		if convErr != nil || year < 1 {
			year = h.now().Year()
		}
		summary, err = h.monthSummary(r, year)
	case "", api.FilterAll:
		summary, err = h.allBookings(r)
	default:
		h.sendError(w, "unknown filter: "+filter, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to build booking summary", err)
		return
	}

	h.sendJSON(w, api.BookingSummaryResponse{Status: "success", Message: *summary}, http.StatusOK)
}

func (h *Handler) allBookings(r *http.Request) (*api.BookingSummary, error) {
	page, limit := pageParams(r)
	bookings, total, err := h.store.ListBookings(r.Context(), (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	var revenue float64
	for _, b := range bookings {
		if b.PaymentStatus == api.PaymentPaid {
			revenue += amount(b)
		}
	}
	return &api.BookingSummary{
		Bookings:      bookings,
		Pagination:    paginate(page, limit, total),
		TotalData:     total,
		TotalBookings: total,
		TotalRevenue:  revenue,
	}, nil
}

// monthSummary: выручка только по оплаченным, количество без отмененных,
// ratio - доля месяца в годовой выручке в процентах
func (h *Handler) monthSummary(r *http.Request, year int) (*api.BookingSummary, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	bookings, err := h.store.BookingsBetween(r.Context(), from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	summary := &api.BookingSummary{Year: year, MonthWise: make([]api.MonthSummary, 12)}
	for i := range summary.MonthWise {
		month := time.Month(i + 1)
		summary.MonthWise[i] = api.MonthSummary{
			Month: month.String(),
			Key:   from.AddDate(0, i, 0).Format("2006-01"),
		}
	}

	for _, b := range bookings {
		if b.PaymentStatus == api.PaymentCancelled {
			continue
		}
		m := &summary.MonthWise[b.CreatedAt.UTC().Month()-1]
		m.BookingsCount++
		m.Bookings = append(m.Bookings, b)
		summary.TotalBookings++
		if b.PaymentStatus == api.PaymentPaid {
			m.Revenue += amount(b)
			summary.TotalRevenue += amount(b)
		}
	}

	if summary.TotalRevenue > 0 {
		for i := range summary.MonthWise {
			m := &summary.MonthWise[i]
			m.Ratio = math.Round(m.Revenue/summary.TotalRevenue*10000) / 100
		}
	}
	return summary, nil
}

// amount: totalAmount приходит строкой
func amount(b api.Booking) float64 {
	v, err := strconv.ParseFloat(b.TotalAmount, 64)
	if err != nil {
		return 0
	}
	return v
}

// CancelBooking обрабатывает DELETE /booking/admin-cancel/{id}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	booking, err := h.store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			h.sendError(w, "Booking not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, "failed to get booking", err)
		return
	}
	if booking.PaymentStatus == api.PaymentCancelled {
		h.sendError(w, "Booking is already cancelled", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdatePaymentStatus(ctx, id, api.PaymentCancelled); err != nil {
		h.internalError(w, r, "failed to cancel booking", err)
		return
	}

	h.logger.InfoContext(ctx, "booking cancelled", "booking_id", id)
	h.sendOK(w, "Booking cancelled successfully")
}
