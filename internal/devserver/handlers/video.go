package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/havelockadmin/internal/devserver/middleware"
	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/internal/validation"
	"github.com/iudanet/havelockadmin/pkg/api"
)

// ListVideos обрабатывает GET /video/get-all-videos?page=&limit=
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	videos, total, err := h.store.ListVideos(r.Context(), (page-1)*limit, limit)
	if err != nil {
		h.internalError(w, r, "failed to list videos", err)
		return
	}

	h.sendJSON(w, api.VideoListResponse{
		Status:  true,
		Message: "Videos fetched successfully",
		Data:    api.VideoList{Videos: videos, Pagination: paginate(page, limit, total)},
	}, http.StatusOK)
}

// AddVideo обрабатывает POST /video (multipart: title, video)
func (h *Handler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.sendError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	in := api.VideoInput{Title: r.FormValue("title")}
	files := r.MultipartForm.File["video"]
	if len(files) > 0 {
		in.File = api.Upload{Content: strings.NewReader(""), Filename: files[0].Filename}
	}
	if err := validation.ValidateVideo(in); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	url, err := h.saveUpload(r, files[0])
	if err != nil {
		h.internalError(w, r, "failed to save video", err)
		return
	}
	contentType := files[0].Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}

	now := h.now().UTC()
	video := &api.Video{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Video:     api.VideoInfo{URL: url, Type: contentType},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		video.CreatedBy = claims.UserID
	}
	if err := h.store.CreateVideo(ctx, video); err != nil {
		h.internalError(w, r, "failed to create video", err)
		return
	}

	h.logger.InfoContext(ctx, "video added", "video_id", video.ID)
	h.sendJSON(w, api.VideoResponse{Status: true, Message: "Video uploaded successfully", Data: *video}, http.StatusCreated)
}

// DeleteVideo обрабатывает DELETE /video/{id}.
// Отсутствующее видео - 200 со status=false, как у бэкенда.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteVideo(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrVideoNotFound) {
			h.sendJSON(w, statusMessage{Message: "Video not found"}, http.StatusOK)
			return
		}
		h.internalError(w, r, "failed to delete video", err)
		return
	}

	h.logger.InfoContext(r.Context(), "video deleted", "video_id", id)
	h.sendOK(w, "Video deleted successfully")
}
