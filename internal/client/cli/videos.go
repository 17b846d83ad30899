package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/havelockadmin/internal/client/nav"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

func (rt *runtime) videosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage videos",
	}
	cmd.AddCommand(rt.videosListCommand(), rt.videosAddCommand(), rt.videosDeleteCommand())
	return cmd
}

func (rt *runtime) videosListCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a page of videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.enter(cmd.Context(), nav.RouteVideos); err != nil {
				return err
			}
			rt.app.videos.SetPage(page)
			return rt.showVideos(cmd)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (rt *runtime) showVideos(cmd *cobra.Command) error {
	st := rt.app.videos.Load(cmd.Context())
	if err := rt.app.videos.Render(rt.opts.IO, st); err != nil {
		return err
	}
	if st.Err != nil {
		return rt.viewFailed(st.Err)
	}
	return nil
}

func (rt *runtime) videosAddCommand() *cobra.Command {
	var title, path string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Upload a video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteAddVideo); err != nil {
				return err
			}

			var opened files
			defer opened.close()
			in := pkgapi.VideoInput{Title: title}
			if path != "" {
				upload, err := opened.open(path)
				if err != nil {
					return err
				}
				in.File = *upload
			}

			video, err := rt.app.videos.Add(ctx, in)
			if err != nil {
				return formError(err)
			}
			rt.opts.IO.Printf("Video ID: %s\n", video.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "video title")
	cmd.Flags().StringVar(&path, "file", "", "path to the video file")
	return cmd
}

func (rt *runtime) videosDeleteCommand() *cobra.Command {
	var (
		page int
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "delete <video-id>",
		Short: "Delete a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteVideos); err != nil {
				return err
			}
			id := args[0]
			ok, err := rt.confirm(yes, fmt.Sprintf("Delete video %s?", id))
			if err != nil || !ok {
				return err
			}
			if err := rt.app.videos.Delete(ctx, id); err != nil {
				return reported(err)
			}
			rt.opts.IO.Println()
			rt.app.videos.SetPage(page)
			return rt.showVideos(cmd)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page to show after deletion")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
