package views

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/client/query"
	"github.com/iudanet/havelockadmin/internal/validation"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// Сортировка списка событий
const (
	SortGeneral          = "general"
	SortUpcomingToLatest = "upcoming-to-latest"
	SortLatestToUpcoming = "latest-to-upcoming"
)

// SortOptions - допустимые значения сортировки
var SortOptions = []string{SortGeneral, SortUpcomingToLatest, SortLatestToUpcoming}

const eventDateLayout = "01/02/2006"

// EventsBackend - часть API для событий
type EventsBackend interface {
	ListEvents(ctx context.Context) (*pkgapi.EventsResponse, error)
	GetEvent(ctx context.Context, eventID string) (*pkgapi.EventResponse, error)
	CreateEvent(ctx context.Context, in pkgapi.EventInput) (*pkgapi.EventResponse, error)
	UpdateEvent(ctx context.Context, eventID string, in pkgapi.EventInput) (*pkgapi.EventResponse, error)
	DeleteEvent(ctx context.Context, eventID string) (*pkgapi.MessageResponse, error)
}

// EventsKey - ключ списка событий
func EventsKey() query.Key {
	return query.NewKey(KeyEvents)
}

// EventKey - ключ одного события
func EventKey(id string) query.Key {
	return query.NewKey(KeyEvent, id)
}

type eventUpdate struct {
	ID    string
	Input pkgapi.EventInput
}

// EventsView - список событий, карточка события и форма
type EventsView struct {
	backend EventsBackend
	cache   *query.Cache
	create  *mutation.Executor[pkgapi.EventInput, *pkgapi.EventResponse]
	update  *mutation.Executor[eventUpdate, *pkgapi.EventResponse]
	remove  *mutation.Executor[string, *pkgapi.MessageResponse]
	sortBy  string
}

// NewEventsView создает экран событий
func NewEventsView(backend EventsBackend, cache *query.Cache, cfg Config) *EventsView {
	cfg = cfg.withDefaults()
	v := &EventsView{
		backend: backend,
		cache:   cache,
		sortBy:  SortGeneral,
	}
	v.create = mutation.New[pkgapi.EventInput, *pkgapi.EventResponse](cache, backend.CreateEvent, mutation.Options[*pkgapi.EventResponse]{
		Notifier:   cfg.Notifier,
		Logger:     cfg.Logger,
		Success:    "Event created successfully",
		Failure:    "Failed to create event",
		Invalidate: []query.Key{EventsKey()},
	})
	v.update = mutation.New[eventUpdate, *pkgapi.EventResponse](cache, func(ctx context.Context, in eventUpdate) (*pkgapi.EventResponse, error) {
		return backend.UpdateEvent(ctx, in.ID, in.Input)
	}, mutation.Options[*pkgapi.EventResponse]{
		Notifier: cfg.Notifier,
		Logger:   cfg.Logger,
		Success:  "Event updated successfully",
		Failure:  "Failed to update event",
		// префикс ["event"] покрывает карточки всех событий
		Invalidate: []query.Key{EventsKey(), query.NewKey(KeyEvent)},
	})
	v.remove = mutation.New[string, *pkgapi.MessageResponse](cache, backend.DeleteEvent, mutation.Options[*pkgapi.MessageResponse]{
		Notifier:   cfg.Notifier,
		Logger:     cfg.Logger,
		Success:    "Event deleted successfully",
		Failure:    "Failed to delete event",
		Invalidate: []query.Key{EventsKey()},
	})
	return v
}

// SetSort меняет сортировку. Сортировка локальная, без запроса.
func (v *EventsView) SetSort(sortBy string) error {
	if !slices.Contains(SortOptions, sortBy) {
		return fmt.Errorf("unknown sort %q, want one of %s", sortBy, strings.Join(SortOptions, ", "))
	}
	v.sortBy = sortBy
	return nil
}

// Load загружает список событий
func (v *EventsView) Load(ctx context.Context) State[[]pkgapi.Event] {
	return load(ctx, v.cache, EventsKey(), func(ctx context.Context) ([]pkgapi.Event, error) {
		resp, err := v.backend.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// LoadEvent загружает одно событие
func (v *EventsView) LoadEvent(ctx context.Context, id string) State[*pkgapi.Event] {
	return load(ctx, v.cache, EventKey(id), func(ctx context.Context) (*pkgapi.Event, error) {
		resp, err := v.backend.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		return &resp.Data, nil
	})
}

// Create проверяет форму и создает событие
func (v *EventsView) Create(ctx context.Context, in pkgapi.EventInput) (*pkgapi.Event, error) {
	if err := validation.ValidateNewEvent(in); err != nil {
		return nil, err
	}
	resp, err := v.create.Mutate(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &resp.Data, nil
}

// Update проверяет форму и сохраняет событие
func (v *EventsView) Update(ctx context.Context, id string, in pkgapi.EventInput) (*pkgapi.Event, error) {
	if err := validation.ValidateEvent(in); err != nil {
		return nil, err
	}
	resp, err := v.update.Mutate(ctx, eventUpdate{ID: id, Input: in})
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	return &resp.Data, nil
}

// Delete удаляет событие и выбрасывает его карточку из кэша
func (v *EventsView) Delete(ctx context.Context, id string) error {
	if _, err := v.remove.Mutate(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	v.cache.Remove(EventKey(id))
	return nil
}

// Pending - выполняется ли какая-либо запись
func (v *EventsView) Pending() bool {
	return v.create.IsPending() || v.update.IsPending() || v.remove.IsPending()
}

// Sorted возвращает копию списка в выбранном порядке
func Sorted(events []pkgapi.Event, sortBy string) []pkgapi.Event {
	out := slices.Clone(events)
	switch sortBy {
	case SortUpcomingToLatest:
		slices.SortStableFunc(out, func(a, b pkgapi.Event) int {
			return a.StartsAt().Compare(b.StartsAt())
		})
	case SortLatestToUpcoming:
		slices.SortStableFunc(out, func(a, b pkgapi.Event) int {
			return b.StartsAt().Compare(a.StartsAt())
		})
	}
	return out
}

// Render рисует список событий
func (v *EventsView) Render(w io.Writer, s State[[]pkgapi.Event]) error {
	t := newTable("My Events", "ID", "Event Name", "Price", "Date", "Duration", "Location")
	t.Subtitle = "Sort: " + v.sortBy
	t.Empty = "No events found."
	fill(t, s, func(events []pkgapi.Event) [][]string {
		sorted := Sorted(events, v.sortBy)
		rows := make([][]string, 0, len(sorted))
		for _, e := range sorted {
			rows = append(rows, []string{e.ID, e.Title, money(e.Price), eventDate(e), e.Duration, dash(e.Location)})
		}
		return rows
	})
	return render(w, t)
}

func eventDate(e pkgapi.Event) string {
	if len(e.Schedule) == 0 {
		return e.CreatedAt.UTC().Format(eventDateLayout)
	}
	first := e.Schedule[0]
	return strings.TrimSpace(first.Date.UTC().Format(eventDateLayout) + " " + first.StartTime)
}

type eventCard struct {
	ID          string
	Title       string
	Price       string
	Duration    string
	Location    string
	Types       string
	Description string
	Schedule    []string
	Details     []string
}

const eventTemplate = `=== Event Details ===

ID:          {{.ID}}
Title:       {{.Title}}
Price:       {{.Price}}
Duration:    {{.Duration}}
Location:    {{.Location}}
Types:       {{.Types}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
Schedule:
{{- range .Schedule}}
  {{.}}
{{- else}}
  none
{{- end}}
{{- range .Details}}
Detail:      {{.}}
{{- end}}
`

var eventTmpl = template.Must(template.New("event").Parse(eventTemplate))

// RenderEvent рисует карточку события
func (v *EventsView) RenderEvent(w io.Writer, s State[*pkgapi.Event]) error {
	switch {
	case s.Err != nil:
		t := newTable("Event Details")
		fill(t, s, nil)
		return render(w, t)
	case s.Loading() || s.Data == nil:
		_, err := io.WriteString(w, "=== Event Details ===\n\nLoading...\n")
		return err
	}

	e := s.Data
	card := eventCard{
		ID:          e.ID,
		Title:       e.Title,
		Price:       money(e.Price),
		Duration:    e.Duration,
		Location:    dash(e.Location),
		Types:       dash(strings.Join(e.Type, ", ")),
		Description: e.Description,
	}
	for _, sc := range e.Schedule {
		card.Schedule = append(card.Schedule, fmt.Sprintf("%s %s-%s", sc.Date.UTC().Format(eventDateLayout), sc.StartTime, sc.EndTime))
	}
	for _, d := range e.EventDetails {
		line := strings.Join(d.Types, ", ")
		if d.Image != "" {
			line += " (" + d.Image + ")"
		}
		card.Details = append(card.Details, line)
	}
	if err := eventTmpl.Execute(w, card); err != nil {
		return fmt.Errorf("render event: %w", err)
	}
	return nil
}
