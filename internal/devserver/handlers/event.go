package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/havelockadmin/internal/devserver/middleware"
	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/internal/validation"
	"github.com/iudanet/havelockadmin/pkg/api"
)

// UploadsPrefix - пути загруженных файлов
const UploadsPrefix = "/uploads/"

// ListEvents обрабатывает GET /event/get-all-events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list events", err)
		return
	}
	h.sendJSON(w, api.EventsResponse{Status: true, Message: "Events fetched successfully", Data: events}, http.StatusOK)
}

// GetEvent обрабатывает GET /event/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	h.sendJSON(w, api.EventResponse{Status: true, Message: "Event fetched successfully", Data: *event}, http.StatusOK)
}

func (h *Handler) loadEvent(w http.ResponseWriter, r *http.Request) (*api.Event, bool) {
	event, err := h.store.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.sendError(w, "Event not found", http.StatusNotFound)
			return nil, false
		}
		h.internalError(w, r, "failed to get event", err)
		return nil, false
	}
	return event, true
}

// eventForm - разобранная multipart форма события
type eventForm struct {
	input     api.EventInput
	thumbnail *multipart.FileHeader
	details   []api.EventDetail
	images    []*multipart.FileHeader
}

func parseEventForm(r *http.Request) (*eventForm, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	f := &eventForm{input: api.EventInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Duration:    r.FormValue("duration"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
	}}

	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid price")
		}
		f.input.Price = price
	}

	// type бывает JSON массивом, JSON строкой или просто строкой
	var types api.StringList
	if raw := r.FormValue("type"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &types); err != nil {
			types = api.StringList{raw}
		}
	}
	f.input.Types = types

	if raw := r.FormValue("schedule"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.input.Schedule); err != nil {
			return nil, errors.New("invalid schedule format")
		}
	}

	if raw := r.FormValue("eventDetails"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.details); err != nil {
			return nil, errors.New("invalid eventDetails format")
		}
	}

	if files := r.MultipartForm.File["thumbnail"]; len(files) > 0 {
		f.thumbnail = files[0]
		f.input.Thumbnail = &api.Upload{Filename: files[0].Filename}
	}
	f.images = r.MultipartForm.File["eventDetails"]

	// изображения деталей идут по порядку
	for i, d := range f.details {
		in := api.EventDetailInput{Types: d.Types}
		if i < len(f.images) {
			in.Image = &api.Upload{Filename: f.images[i].Filename}
		}
		f.input.Details = append(f.input.Details, in)
	}
	return f, nil
}

// CreateEvent обрабатывает POST /event (multipart)
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	form, err := parseEventForm(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateNewEvent(form.input); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	event := &api.Event{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		event.CreatedBy = claims.UserID
	}
	applyEventInput(event, form.input)

	if event.Thumbnail, err = h.saveUpload(r, form.thumbnail); err != nil {
		h.internalError(w, r, "failed to save thumbnail", err)
		return
	}
	if err := h.attachImages(r, event, form, nil); err != nil {
		h.internalError(w, r, "failed to save event images", err)
		return
	}

	if err := h.store.CreateEvent(ctx, event); err != nil {
		h.internalError(w, r, "failed to create event", err)
		return
	}

	h.logger.InfoContext(ctx, "event created", "event_id", event.ID)
	h.sendJSON(w, api.EventResponse{Status: true, Message: "Event created successfully", Data: *event}, http.StatusCreated)
}

// UpdateEvent обрабатывает PUT /event/{id}.
// Без новых файлов обложка и изображения деталей остаются прежними.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	form, err := parseEventForm(r)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEvent(form.input); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	previous := event.EventDetails
	applyEventInput(event, form.input)
	event.UpdatedAt = h.now().UTC()

	if form.thumbnail != nil {
		if event.Thumbnail, err = h.saveUpload(r, form.thumbnail); err != nil {
			h.internalError(w, r, "failed to save thumbnail", err)
			return
		}
	}
	if err := h.attachImages(r, event, form, previous); err != nil {
		h.internalError(w, r, "failed to save event images", err)
		return
	}

	if err := h.store.UpdateEvent(ctx, event); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.sendError(w, "Event not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, "failed to update event", err)
		return
	}

	h.logger.InfoContext(ctx, "event updated", "event_id", event.ID)
	h.sendJSON(w, api.EventResponse{Status: true, Message: "Event updated successfully", Data: *event}, http.StatusOK)
}

// DeleteEvent обрабатывает DELETE /event/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.sendError(w, "Event not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, "failed to delete event", err)
		return
	}

	h.logger.InfoContext(r.Context(), "event deleted", "event_id", id)
	h.sendOK(w, "Event deleted successfully")
}

func applyEventInput(e *api.Event, in api.EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.Price = in.Price
	e.Duration = in.Duration
	e.Location = in.Location
	e.Type = api.StringList(in.Types)
	e.Schedule = in.Schedule
}

// attachImages сохраняет изображения деталей по порядку; детали без нового
// файла берут изображение из previous с тем же индексом
func (h *Handler) attachImages(r *http.Request, e *api.Event, form *eventForm, previous []api.EventDetail) error {
	e.EventDetails = make([]api.EventDetail, 0, len(form.details))
	e.Images = nil
	for i, d := range form.details {
		detail := api.EventDetail{Types: d.Types}
		switch {
		case i < len(form.images):
			url, err := h.saveUpload(r, form.images[i])
			if err != nil {
				return err
			}
			detail.Image = url
		case i < len(previous):
			detail.Image = previous[i].Image
		}
		if detail.Image != "" {
			e.Images = append(e.Images, detail.Image)
		}
		e.EventDetails = append(e.EventDetails, detail)
	}
	return nil
}

// saveUpload сохраняет файл формы и возвращает его путь
func (h *Handler) saveUpload(r *http.Request, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	file := &storage.File{
		ID:          uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename)),
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.SaveFile(r.Context(), file); err != nil {
		return "", err
	}
	return UploadsPrefix + file.ID, nil
}

// GetUpload обрабатывает GET /uploads/{id}
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	file, err := h.store.GetFile(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			h.sendError(w, "File not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, "failed to get file", err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	_, _ = w.Write(file.Data)
}
