package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iudanet/havelockadmin/internal/client/nav"
	"github.com/iudanet/havelockadmin/internal/client/storage"
	"github.com/iudanet/havelockadmin/internal/client/views"
	"github.com/iudanet/havelockadmin/internal/validation"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// scheduleDateLayout - дата в --schedule
const scheduleDateLayout = "2006-01-02"

func (rt *runtime) eventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage events",
	}
	cmd.AddCommand(
		rt.eventsListCommand(),
		rt.eventsGetCommand(),
		rt.eventsCreateCommand(),
		rt.eventsUpdateCommand(),
		rt.eventsDeleteCommand(),
	)
	return cmd
}

func (rt *runtime) eventsListCommand() *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show all events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := rt.app
			if err := a.enter(ctx, nav.RouteEvents); err != nil {
				return err
			}

			// без --sort берется порядок, выбранный в прошлый раз
			if !cmd.Flags().Changed("sort") {
				if saved := a.preference(ctx, storage.PrefEventsSort); saved != "" {
					sortBy = saved
				}
			}
			if err := a.events.SetSort(sortBy); err != nil {
				return err
			}
			if cmd.Flags().Changed("sort") {
				a.setPreference(ctx, storage.PrefEventsSort, sortBy)
			}
			return rt.showEvents(cmd)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", views.SortGeneral,
		"order: "+strings.Join(views.SortOptions, ", ")+" (remembered)")
	return cmd
}

func (rt *runtime) showEvents(cmd *cobra.Command) error {
	st := rt.app.events.Load(cmd.Context())
	if err := rt.app.events.Render(rt.opts.IO, st); err != nil {
		return err
	}
	if st.Err != nil {
		return rt.viewFailed(st.Err)
	}
	return nil
}

func (rt *runtime) eventsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <event-id>",
		Short: "Show event details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.enter(cmd.Context(), nav.RouteEvents); err != nil {
				return err
			}
			return rt.showEvent(cmd, args[0])
		},
	}
}

func (rt *runtime) showEvent(cmd *cobra.Command, id string) error {
	st := rt.app.events.LoadEvent(cmd.Context(), id)
	if err := rt.app.events.RenderEvent(rt.opts.IO, st); err != nil {
		return err
	}
	if st.Err != nil {
		return rt.viewFailed(st.Err)
	}
	return nil
}

// eventFlags - поля формы события в виде флагов
type eventFlags struct {
	title       string
	description string
	duration    string
	location    string
	thumbnail   string
	types       []string
	schedule    []string
	details     []string
	price       float64
}

func (f *eventFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "event title")
	fs.StringVar(&f.description, "description", "", "event description")
	fs.Float64Var(&f.price, "price", 0, "price per slot")
	fs.StringVar(&f.duration, "duration", "", `slot duration, e.g. "15m" or "2h"`)
	fs.StringVar(&f.location, "location", "", "event location")
	fs.StringArrayVar(&f.types, "type", nil, "event type (repeatable)")
	fs.StringArrayVar(&f.schedule, "schedule", nil, `schedule entry "YYYY-MM-DD,HH:mm,HH:mm" (repeatable)`)
	fs.StringVar(&f.thumbnail, "thumbnail", "", "path to the thumbnail image")
	fs.StringArrayVar(&f.details, "detail", nil, `event detail "type1,type2=image-path" (repeatable)`)
}

// files - открытые загрузки формы, закрываются после отправки
type files []*os.File

func (fs *files) open(path string) (*pkgapi.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	*fs = append(*fs, f)
	return &pkgapi.Upload{Content: f, Filename: filepath.Base(path)}, nil
}

func (fs files) close() {
	for _, f := range fs {
		_ = f.Close()
	}
}

// apply переносит в форму флаги; при редактировании только явно заданные
func (f *eventFlags) apply(in *pkgapi.EventInput, flags *pflag.FlagSet, opened *files) error {
	set := func(name string) bool { return in.ID == "" || flags.Changed(name) }

	if set("title") {
		in.Title = f.title
	}
	if set("description") {
		in.Description = f.description
	}
	if set("price") {
		in.Price = f.price
	}
	if set("duration") {
		in.Duration = f.duration
	}
	if set("location") {
		in.Location = f.location
	}
	if set("type") {
		in.Types = splitTypes(f.types)
	}
	if set("schedule") {
		schedule, err := parseSchedule(f.schedule)
		if err != nil {
			return err
		}
		in.Schedule = schedule
	}
	if f.thumbnail != "" {
		upload, err := opened.open(f.thumbnail)
		if err != nil {
			return err
		}
		in.Thumbnail = upload
	}
	if set("detail") {
		details := make([]pkgapi.EventDetailInput, 0, len(f.details))
		for _, raw := range f.details {
			typesPart, imagePath, _ := strings.Cut(raw, "=")
			d := pkgapi.EventDetailInput{Types: splitTypes([]string{typesPart})}
			if imagePath != "" {
				upload, err := opened.open(imagePath)
				if err != nil {
					return err
				}
				d.Image = upload
			}
			details = append(details, d)
		}
		in.Details = details
	}
	return nil
}

// splitTypes принимает как повторяющийся флаг, так и список через запятую
func splitTypes(values []string) []string {
	var types []string
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

func parseSchedule(values []string) ([]pkgapi.Schedule, error) {
	schedule := make([]pkgapi.Schedule, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid schedule %q: expected YYYY-MM-DD,HH:mm,HH:mm", v)
		}
		date, err := time.Parse(scheduleDateLayout, strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid schedule date %q: %w", parts[0], err)
		}
		schedule = append(schedule, pkgapi.Schedule{
			Date:      date,
			StartTime: strings.TrimSpace(parts[1]),
			EndTime:   strings.TrimSpace(parts[2]),
		})
	}
	return schedule, nil
}

// inputFromEvent - форма редактирования, заполненная сохраненным событием
func inputFromEvent(e *pkgapi.Event) pkgapi.EventInput {
	in := pkgapi.EventInput{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Duration:    e.Duration,
		Location:    e.Location,
		Types:       append([]string(nil), e.Type...),
		Schedule:    append([]pkgapi.Schedule(nil), e.Schedule...),
		Price:       e.Price,
	}
	for _, d := range e.EventDetails {
		in.Details = append(in.Details, pkgapi.EventDetailInput{Types: append([]string(nil), d.Types...)})
	}
	return in
}

func (rt *runtime) eventsCreateCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Example: `  havelock-admin events create --title "Summer Shoot" --price 40 --duration 15m \
    --location "Studio A" --type portrait --schedule 2025-07-18,09:00,11:00 \
    --thumbnail cover.jpg --detail "portrait,family=detail.jpg"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteAddEvent); err != nil {
				return err
			}

			var opened files
			defer opened.close()
			var in pkgapi.EventInput
			if err := f.apply(&in, cmd.Flags(), &opened); err != nil {
				return err
			}

			event, err := rt.app.events.Create(ctx, in)
			if err != nil {
				return formError(err)
			}
			rt.opts.IO.Printf("Event ID: %s\n", event.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (rt *runtime) eventsUpdateCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Edit an event; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := rt.app
			if err := a.enter(ctx, nav.RouteEditEvent); err != nil {
				return err
			}

			id := args[0]
			st := a.events.LoadEvent(ctx, id)
			if st.Err != nil {
				if err := a.events.RenderEvent(rt.opts.IO, st); err != nil {
					return err
				}
				return rt.viewFailed(st.Err)
			}

			var opened files
			defer opened.close()
			in := inputFromEvent(st.Data)
			if err := f.apply(&in, cmd.Flags(), &opened); err != nil {
				return err
			}

			if _, err := a.events.Update(ctx, id, in); err != nil {
				return formError(err)
			}
			rt.opts.IO.Println()
			return rt.showEvent(cmd, id)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (rt *runtime) eventsDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteEvents); err != nil {
				return err
			}
			id := args[0]
			ok, err := rt.confirm(yes, fmt.Sprintf("Delete event %s?", id))
			if err != nil || !ok {
				return err
			}
			if err := rt.app.events.Delete(ctx, id); err != nil {
				return reported(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

// confirm спрашивает подтверждение, если не передан --yes
func (rt *runtime) confirm(yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := rt.opts.IO.Confirm(prompt)
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		rt.opts.IO.Println("Aborted.")
	}
	return ok, nil
}

// formError: ошибки формы печатаются списком полей, ошибки сервера уже в уведомлении
func formError(err error) error {
	var verr validation.Errors
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid form: %w", err)
	}
	return reported(err)
}
