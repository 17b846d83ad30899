package views

import (
	"context"
	"fmt"
	"io"

	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/client/query"
	"github.com/iudanet/havelockadmin/internal/validation"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// VideosBackend - часть API для видео
type VideosBackend interface {
	ListVideos(ctx context.Context, params pkgapi.PageParams) (*pkgapi.VideoListResponse, error)
	AddVideo(ctx context.Context, in pkgapi.VideoInput) (*pkgapi.VideoResponse, error)
	DeleteVideo(ctx context.Context, videoID string) (*pkgapi.MessageResponse, error)
}

// VideosKey - ключ страницы видео
func VideosKey(page int) query.Key {
	return query.NewKey(KeyVideos, page)
}

// VideosView - постраничный список видео
type VideosView struct {
	backend VideosBackend
	cache   *query.Cache
	add     *mutation.Executor[pkgapi.VideoInput, *pkgapi.VideoResponse]
	remove  *mutation.Executor[string, *pkgapi.MessageResponse]
	cfg     Config
	page    int
}

// NewVideosView создает экран видео
func NewVideosView(backend VideosBackend, cache *query.Cache, cfg Config) *VideosView {
	cfg = cfg.withDefaults()
	v := &VideosView{
		backend: backend,
		cache:   cache,
		cfg:     cfg,
		page:    1,
	}
	v.add = mutation.New[pkgapi.VideoInput, *pkgapi.VideoResponse](cache, backend.AddVideo, mutation.Options[*pkgapi.VideoResponse]{
		Notifier:   cfg.Notifier,
		Logger:     cfg.Logger,
		Success:    "Video added successfully",
		Failure:    "Failed to add video",
		Invalidate: []query.Key{query.NewKey(KeyVideos)},
	})
	v.remove = mutation.New[string, *pkgapi.MessageResponse](cache, backend.DeleteVideo, mutation.Options[*pkgapi.MessageResponse]{
		Notifier: cfg.Notifier,
		Logger:   cfg.Logger,
		SuccessMessage: func(resp *pkgapi.MessageResponse) string {
			return resp.Message
		},
		Success:    "video deleted successfully",
		Failure:    "Failed to delete video",
		Invalidate: []query.Key{query.NewKey(KeyVideos)},
	})
	return v
}

// SetPage переключает страницу
func (v *VideosView) SetPage(page int) {
	v.page = max(page, 1)
}

// Key - ключ текущей страницы
func (v *VideosView) Key() query.Key {
	return VideosKey(v.page)
}

// Load загружает текущую страницу
func (v *VideosView) Load(ctx context.Context) State[*pkgapi.VideoList] {
	page := v.page
	return load(ctx, v.cache, v.Key(), func(ctx context.Context) (*pkgapi.VideoList, error) {
		resp, err := v.backend.ListVideos(ctx, pkgapi.PageParams{Page: page, Limit: v.cfg.PageSize})
		if err != nil {
			return nil, err
		}
		return &resp.Data, nil
	})
}

// Add проверяет форму и загружает видео
func (v *VideosView) Add(ctx context.Context, in pkgapi.VideoInput) (*pkgapi.Video, error) {
	if err := validation.ValidateVideo(in); err != nil {
		return nil, err
	}
	resp, err := v.add.Mutate(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("add video: %w", err)
	}
	return &resp.Data, nil
}

// Delete удаляет видео
func (v *VideosView) Delete(ctx context.Context, id string) error {
	if _, err := v.remove.Mutate(ctx, id); err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	return nil
}

// Render рисует список видео
func (v *VideosView) Render(w io.Writer, s State[*pkgapi.VideoList]) error {
	t := newTable("Videos", "ID", "Title", "Type", "Uploaded", "URL")
	t.Empty = "No videos found."
	fill(t, s, func(list *pkgapi.VideoList) [][]string {
		rows := make([][]string, 0, len(list.Videos))
		for _, vd := range list.Videos {
			rows = append(rows, []string{vd.ID, vd.Title, dash(vd.Video.Type), vd.CreatedAt.UTC().Format(eventDateLayout), dash(vd.Video.URL)})
		}
		return rows
	})
	if s.Err == nil && s.Data != nil && s.Data.Pagination.TotalPages > 1 {
		p := s.Data.Pagination
		t.Footer = fmt.Sprintf("%s (page %d of %d)", PageText(v.page, v.cfg.PageSize, p.TotalData), v.page, p.TotalPages)
	}
	return render(w, t)
}
