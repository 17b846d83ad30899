package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// BookingSummary получает помесячную сводку или постраничный список бронирований
func (c *Client) BookingSummary(ctx context.Context, params pkgapi.BookingSummaryParams) (*pkgapi.BookingSummaryResponse, error) {
	var resp pkgapi.BookingSummaryResponse
	err := c.Request(ctx, http.MethodGet, "/booking/summary", RequestOptions{
		Query:    params.Values(),
		Fallback: "Failed to fetch bookings",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("booking summary request failed: %w", err)
	}
	return &resp, nil
}

// CancelBooking отменяет бронирование от имени администратора
func (c *Client) CancelBooking(ctx context.Context, bookingID string) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	path := "/booking/admin-cancel/" + url.PathEscape(bookingID)
	err := c.Request(ctx, http.MethodDelete, path, RequestOptions{
		Fallback: "Failed to cancel booking",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("cancel booking request failed: %w", err)
	}
	if err := checkMessage(&resp, "Failed to cancel booking"); err != nil {
		return nil, fmt.Errorf("cancel booking request failed: %w", err)
	}
	return &resp, nil
}
