// Package views - экраны админки поверх кэша запросов.
// Каждый экран объявляет ключ, загружает данные через query.Cache
// и рисует одно из трех состояний: загрузка, ошибка, таблица.
package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/client/query"
)

// DefaultPageSize - размер страницы списков бронирований и видео
const DefaultPageSize = 8

// Корни ключей запросов. Инвалидация идет по префиксу из одного корня.
const (
	KeyDashboard = "dashboard-overview"
	KeyBookings  = "booking-all-data"
	KeyEvents    = "events"
	KeyEvent     = "event"
	KeyVideos    = "all-videos"
)

const skeletonRows = 5

// ErrNotFound - запись отсутствует в загруженных данных
var ErrNotFound = errors.New("not found")

// State - то, что экран знает о своем запросе в момент отрисовки
type State[T any] struct {
	Data     T
	Err      error
	Status   query.Status
	Fetching bool
	Stale    bool
}

// Loading сообщает, что данных еще нет и показывать нужно скелет
func (s State[T]) Loading() bool {
	return s.Status == query.StatusPending
}

func stateOf[T any](data T, entry query.Entry, err error) State[T] {
	s := State[T]{
		Data:     data,
		Status:   entry.Status,
		Fetching: entry.Fetching,
		Stale:    entry.Stale,
		Err:      entry.Err,
	}
	if err != nil && s.Err == nil {
		s.Err = err
		// вызывающий перестал ждать, а запись еще грузится
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.Err = nil
			s.Status = query.StatusPending
		} else {
			s.Status = query.StatusError
		}
	}
	return s
}

func load[T any](ctx context.Context, c *query.Cache, key query.Key, fn func(ctx context.Context) (T, error)) State[T] {
	data, entry, err := query.Load(ctx, c, key, fn)
	return stateOf(data, entry, err)
}

// Config - общие зависимости экранов
type Config struct {
	Notifier mutation.Notifier
	Logger   *slog.Logger
	PageSize int
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Notifier == nil {
		c.Notifier = mutation.LogNotifier{Logger: c.Logger}
	}
	return c
}

// PageText - строка "Showing X to Y of Z results".
// Границы считаются от фиксированного размера страницы.
func PageText(page, pageSize, total int) string {
	if total <= 0 {
		return "Showing 0 results"
	}
	if page < 1 {
		page = 1
	}
	from := (page-1)*pageSize + 1
	to := min(page*pageSize, total)
	return fmt.Sprintf("Showing %d to %d of %d results", from, to, total)
}

// table - общая разметка экрана
type table struct {
	Title    string
	Subtitle string
	Err      string
	Empty    string
	Footer   string
	Header   []string
	Rows     [][]string
}

const tableTemplate = `=== {{.Title}} ===
{{- if .Subtitle}}
{{.Subtitle}}
{{- end}}

{{if .Err}}Error: {{.Err}}
{{else if not .Rows}}{{.Empty}}
{{else}}{{join .Header "\t"}}
{{range .Rows}}{{join . "\t"}}
{{end}}
{{- if .Footer}}
{{.Footer}}
{{end}}{{end}}`

var tableTmpl = template.Must(template.New("table").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(tableTemplate))

func newTable(title string, header ...string) *table {
	return &table{Title: title, Header: header}
}

// fill переводит состояние запроса в разметку: скелет, ошибка или строки
func fill[T any](t *table, s State[T], rows func(T) [][]string) {
	switch {
	case s.Err != nil:
		t.Err = api.ErrorMessage(s.Err)
	case s.Loading():
		t.Rows = skeleton(len(t.Header))
		t.Footer = "Loading..."
	default:
		t.Rows = rows(s.Data)
	}
}

func skeleton(cols int) [][]string {
	rows := make([][]string, skeletonRows)
	for i := range rows {
		rows[i] = make([]string, cols)
		for j := range rows[i] {
			rows[i][j] = "░░░░"
		}
	}
	return rows
}

func render(w io.Writer, tables ...*table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(tw, "\n"); err != nil {
				return fmt.Errorf("render %s: %w", t.Title, err)
			}
		}
		if err := tableTmpl.Execute(tw, t); err != nil {
			return fmt.Errorf("render %s: %w", t.Title, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("£%.2f", v)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
