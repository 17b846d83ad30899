package views

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/havelockadmin/internal/client/query"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

const barWidth = 20

// SummaryBackend - помесячная сводка бронирований
type SummaryBackend interface {
	BookingSummary(ctx context.Context, params pkgapi.BookingSummaryParams) (*pkgapi.BookingSummaryResponse, error)
}

// DashboardKey - ключ помесячной сводки за год
func DashboardKey(year int) query.Key {
	return query.NewKey(KeyDashboard, year)
}

// loadSummary общий для дашборда и экрана выручки: один ключ на год
func loadSummary(ctx context.Context, c *query.Cache, backend SummaryBackend, year int) State[*pkgapi.BookingSummary] {
	return load(ctx, c, DashboardKey(year), func(ctx context.Context) (*pkgapi.BookingSummary, error) {
		resp, err := backend.BookingSummary(ctx, pkgapi.BookingSummaryParams{
			Filter: pkgapi.FilterMonth,
			Year:   year,
		})
		if err != nil {
			return nil, err
		}
		return &resp.Message, nil
	})
}

// DashboardState - сводка за выбранный и предыдущий год
type DashboardState struct {
	Current  State[*pkgapi.BookingSummary]
	Previous State[*pkgapi.BookingSummary]
	Year     int
}

// DashboardView - обзор: итоги, выручка по месяцам, сравнение с прошлым годом
type DashboardView struct {
	backend SummaryBackend
	cache   *query.Cache
	cfg     Config
	year    int
}

// NewDashboardView создает экран для года
func NewDashboardView(backend SummaryBackend, cache *query.Cache, year int, cfg Config) *DashboardView {
	return &DashboardView{
		backend: backend,
		cache:   cache,
		cfg:     cfg.withDefaults(),
		year:    year,
	}
}

// SetYear переключает год
func (v *DashboardView) SetYear(year int) {
	v.year = year
}

// Load загружает текущий и прошлый год параллельно
func (v *DashboardView) Load(ctx context.Context) DashboardState {
	st := DashboardState{Year: v.year}

	var g errgroup.Group
	g.Go(func() error {
		st.Current = loadSummary(ctx, v.cache, v.backend, v.year)
		return nil
	})
	g.Go(func() error {
		st.Previous = loadSummary(ctx, v.cache, v.backend, v.year-1)
		return nil
	})
	_ = g.Wait()

	if st.Previous.Err != nil {
		v.cfg.Logger.DebugContext(ctx, "Previous year summary failed", "year", v.year-1, "error", st.Previous.Err)
	}
	return st
}

// Render рисует дашборд
func (v *DashboardView) Render(w io.Writer, s DashboardState) error {
	overview := newTable("Overview", "Metric", "Value")
	overview.Subtitle = "Year " + strconv.Itoa(s.Year)
	overview.Empty = "No data."
	fill(overview, s.Current, func(d *pkgapi.BookingSummary) [][]string {
		return [][]string{
			{"Total Revenue", money(d.TotalRevenue)},
			{"Total Bookings", strconv.Itoa(d.TotalBookings)},
		}
	})

	revenue := newTable("Revenue Statistics", "Month", "Revenue", "Bookings", "Chart")
	revenue.Empty = "No revenue yet."
	fill(revenue, s.Current, revenueRows)

	summary := newTable("Booking Summary", "Month", strconv.Itoa(s.Year), strconv.Itoa(s.Year-1))
	summary.Empty = "No bookings yet."
	fill(summary, s.Current, func(d *pkgapi.BookingSummary) [][]string {
		return compareRows(d, s.Previous)
	})

	return render(w, overview, revenue, summary)
}

func revenueRows(d *pkgapi.BookingSummary) [][]string {
	if d == nil {
		return nil
	}
	var top float64
	for _, m := range d.MonthWise {
		top = max(top, m.Revenue)
	}
	rows := make([][]string, 0, len(d.MonthWise))
	for _, m := range d.MonthWise {
		rows = append(rows, []string{m.Month, money(m.Revenue), strconv.Itoa(m.BookingsCount), bar(m.Revenue, top)})
	}
	return rows
}

// compareRows: если прошлый год не загрузился, в его колонке прочерк
func compareRows(d *pkgapi.BookingSummary, prev State[*pkgapi.BookingSummary]) [][]string {
	if d == nil {
		return nil
	}
	last := make(map[string]int)
	if prev.Err == nil && prev.Data != nil {
		for _, m := range prev.Data.MonthWise {
			last[m.Month] = m.BookingsCount
		}
	}
	rows := make([][]string, 0, len(d.MonthWise))
	for _, m := range d.MonthWise {
		lastYear := "-"
		if n, ok := last[m.Month]; ok {
			lastYear = strconv.Itoa(n)
		}
		rows = append(rows, []string{m.Month, strconv.Itoa(m.BookingsCount), lastYear})
	}
	return rows
}

func bar(v, top float64) string {
	if top <= 0 || v <= 0 {
		return ""
	}
	n := int(v / top * barWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// RevenueView - выручка по месяцам и оплаты с постраничного списка
type RevenueView struct {
	backend BookingsBackend
	cache   *query.Cache
	cfg     Config
	year    int
	page    int
}

// RevenueState - помесячная сводка и страница бронирований
type RevenueState struct {
	Summary  State[*pkgapi.BookingSummary]
	Payments State[*pkgapi.BookingSummary]
	Year     int
	Page     int
}

// NewRevenueView создает экран выручки
func NewRevenueView(backend BookingsBackend, cache *query.Cache, year int, cfg Config) *RevenueView {
	return &RevenueView{
		backend: backend,
		cache:   cache,
		cfg:     cfg.withDefaults(),
		year:    year,
		page:    1,
	}
}

// SetYear переключает год
func (v *RevenueView) SetYear(year int) {
	v.year = year
}

// SetPage переключает страницу оплат
func (v *RevenueView) SetPage(page int) {
	v.page = max(page, 1)
}

// Load загружает сводку и страницу оплат. Ключи общие с дашбордом и списком бронирований.
func (v *RevenueView) Load(ctx context.Context) RevenueState {
	st := RevenueState{Year: v.year, Page: v.page}
	bookings := NewBookingsView(v.backend, v.cache, v.cfg)
	bookings.SetPage(v.page)

	var g errgroup.Group
	g.Go(func() error {
		st.Summary = loadSummary(ctx, v.cache, v.backend, v.year)
		return nil
	})
	g.Go(func() error {
		st.Payments = bookings.Load(ctx)
		return nil
	})
	_ = g.Wait()
	return st
}

// Render рисует выручку
func (v *RevenueView) Render(w io.Writer, s RevenueState) error {
	months := newTable("Revenue", "Month", "Bookings", "Revenue", "Ratio")
	months.Empty = "No revenue yet."
	fill(months, s.Summary, func(d *pkgapi.BookingSummary) [][]string {
		rows := make([][]string, 0, len(d.MonthWise))
		for _, m := range d.MonthWise {
			rows = append(rows, []string{m.Month, strconv.Itoa(m.BookingsCount), money(m.Revenue), fmt.Sprintf("%.1f%%", m.Ratio)})
		}
		return rows
	})
	if s.Summary.Err == nil && s.Summary.Data != nil {
		d := s.Summary.Data
		months.Subtitle = fmt.Sprintf("Year %d: %s from %d bookings", s.Year, money(d.TotalRevenue), d.TotalBookings)
	}

	payments := newTable("Payments", "ID", "Event Name", "Email", "Amount", "Date")
	payments.Empty = "No paid bookings on this page."
	fill(payments, s.Payments, func(d *pkgapi.BookingSummary) [][]string {
		var rows [][]string
		for _, b := range d.Bookings {
			if b.PaymentStatus != pkgapi.PaymentPaid {
				continue
			}
			rows = append(rows, []string{b.ID, dash(b.EventID.Title()), b.Email, "£" + b.TotalAmount, b.CreatedAt.UTC().Format(bookingDateLayout)})
		}
		return rows
	})
	if s.Payments.Err == nil && s.Payments.Data != nil && s.Payments.Data.Pagination.TotalPages > 1 {
		p := s.Payments.Data.Pagination
		payments.Footer = fmt.Sprintf("Page %d of %d", s.Page, p.TotalPages)
	}

	return render(w, months, payments)
}
