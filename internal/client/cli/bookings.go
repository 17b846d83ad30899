package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/havelockadmin/internal/client/nav"
	"github.com/iudanet/havelockadmin/internal/client/views"
)

func (rt *runtime) bookingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List and cancel bookings",
	}
	cmd.AddCommand(rt.bookingsListCommand(), rt.bookingsCancelCommand())
	return cmd
}

func (rt *runtime) bookingsListCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a page of bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.enter(cmd.Context(), nav.RouteBookings); err != nil {
				return err
			}
			rt.app.bookings.SetPage(page)
			return rt.showBookings(cmd)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (rt *runtime) bookingsCancelCommand() *cobra.Command {
	var (
		page int
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := rt.app
			if err := a.enter(ctx, nav.RouteBookings); err != nil {
				return err
			}
			a.bookings.SetPage(page)
			// страница нужна, чтобы узнать уже отмененные
			if st := a.bookings.Load(ctx); st.Err != nil {
				return rt.showBookings(cmd)
			}

			id := args[0]
			ok, err := rt.confirm(yes, fmt.Sprintf("Cancel booking %s?", id))
			if err != nil || !ok {
				return err
			}

			if err := a.bookings.Cancel(ctx, id); err != nil {
				if errors.Is(err, views.ErrAlreadyCancelled) {
					return fmt.Errorf("booking %s: %w", id, err)
				}
				return reported(err)
			}
			rt.opts.IO.Println()
			return rt.showBookings(cmd)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page the booking is listed on")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

// showBookings загружает текущую страницу (из кэша, если она свежая) и рисует ее.
// В shell показанная страница остается открытой и обновляется после изменений.
func (rt *runtime) showBookings(cmd *cobra.Command) error {
	st := rt.app.bookings.Load(cmd.Context())
	if rt.inShell {
		rt.app.bookings.Mount()
	}
	if err := rt.app.bookings.Render(rt.opts.IO, st); err != nil {
		return err
	}
	if st.Err != nil {
		return rt.viewFailed(st.Err)
	}
	return nil
}
