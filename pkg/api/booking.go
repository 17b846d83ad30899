package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Фильтры GET /booking/summary
const (
	FilterMonth = "month" // помесячные агрегаты за год
	FilterAll   = "all"   // постраничный список бронирований
)

// Статусы оплаты бронирования
const (
	PaymentPaid      = "paid"
	PaymentUnpaid    = "unpaid"
	PaymentPending   = "pending"
	PaymentCancelled = "cancelled"
)

// Slot - забронированный временной слот
type Slot struct {
	Date      string `json:"date"`      // "2025-07-18"
	StartTime string `json:"startTime"` // "09:15"
	EndTime   string `json:"endTime"`   // "09:30"
}

// EventRef - ссылка на событие из бронирования.
// Бэкенд отдает либо id строкой, либо populate-нутый объект события.
type EventRef struct {
	Event *Event
	ID    string
}

// UnmarshalJSON implements json.Unmarshaler
func (r *EventRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = EventRef{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("event ref: %w", err)
		}
		*r = EventRef{ID: id}
		return nil
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("event ref: %w", err)
	}
	*r = EventRef{ID: ev.ID, Event: &ev}
	return nil
}

// MarshalJSON implements json.Marshaler
func (r EventRef) MarshalJSON() ([]byte, error) {
	if r.Event != nil {
		return json.Marshal(r.Event)
	}
	return json.Marshal(r.ID)
}

// Title возвращает название события, если оно было populate-нуто
func (r EventRef) Title() string {
	if r.Event != nil {
		return r.Event.Title
	}
	return ""
}

// Booking представляет одно бронирование
type Booking struct {
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
	EventID         EventRef  `json:"eventId"`
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	PaymentStatus   string    `json:"paymentStatus"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	TotalAmount     string    `json:"totalAmount"`
	Slots           []Slot    `json:"slots"`
}

// MonthSummary - агрегат по одному месяцу (filter=month)
type MonthSummary struct {
	Month         string    `json:"month"`
	Key           string    `json:"key"` // "2025-07"
	Bookings      []Booking `json:"bookings,omitempty"`
	Revenue       float64   `json:"revenue"`
	Ratio         float64   `json:"ratio"`
	BookingsCount int       `json:"bookingsCount"`
}

// BookingSummary - содержимое поля message ответа /booking/summary.
// Для filter=month заполнены Year и MonthWise, для filter=all - Bookings.
type BookingSummary struct {
	MonthWise     []MonthSummary `json:"monthWise,omitempty"`
	Bookings      []Booking      `json:"bookings,omitempty"`
	Pagination    Pagination     `json:"pagination"`
	TotalRevenue  float64        `json:"totalRevenue"`
	Year          int            `json:"year,omitempty"`
	TotalData     int            `json:"totalData,omitempty"`
	TotalBookings int            `json:"totalBookings"`
}

// BookingSummaryResponse представляет ответ GET /booking/summary
type BookingSummaryResponse struct {
	Status  string         `json:"status"`
	Message BookingSummary `json:"message"`
}

// BookingSummaryParams - параметры запроса /booking/summary
type BookingSummaryParams struct {
	Filter string
	Year   int
	Page   int
	Limit  int
}

// Values кодирует параметры в query string, пропуская нулевые значения
func (p BookingSummaryParams) Values() url.Values {
	v := url.Values{}
	if p.Filter != "" {
		v.Set("filter", p.Filter)
	}
	if p.Year > 0 {
		v.Set("year", strconv.Itoa(p.Year))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}
