package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/havelockadmin/internal/client/nav"
)

func (rt *runtime) dashboardCommand() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show revenue and booking overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := rt.app
			if err := a.enter(ctx, nav.RouteDashboard); err != nil {
				return err
			}

			a.dashboard.SetYear(yearOrCurrent(year))
			st := a.dashboard.Load(ctx)
			if err := a.dashboard.Render(rt.opts.IO, st); err != nil {
				return err
			}
			if st.Current.Err != nil {
				return rt.viewFailed(st.Current.Err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year to show (default: current year)")
	return cmd
}

func (rt *runtime) revenueCommand() *cobra.Command {
	var year, page int
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Show monthly revenue and paid bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := rt.app
			if err := a.enter(ctx, nav.RouteRevenue); err != nil {
				return err
			}

			a.revenue.SetYear(yearOrCurrent(year))
			a.revenue.SetPage(page)
			st := a.revenue.Load(ctx)
			if err := a.revenue.Render(rt.opts.IO, st); err != nil {
				return err
			}
			if st.Summary.Err != nil {
				return rt.viewFailed(st.Summary.Err)
			}
			if st.Payments.Err != nil {
				return rt.viewFailed(st.Payments.Err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year to show (default: current year)")
	cmd.Flags().IntVar(&page, "page", 1, "page of the bookings list")
	return cmd
}

func yearOrCurrent(year int) int {
	if year > 0 {
		return year
	}
	return time.Now().Year()
}
