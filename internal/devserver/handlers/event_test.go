package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/pkg/api"
)

// pngHeader - достаточно для DetectContentType
var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

type formFile struct {
	field    string
	filename string
	data     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func eventFields() map[string]string {
	return map[string]string{
		"title":        "Summer Portraits",
		"description":  "Outdoor sessions",
		"price":        "40",
		"duration":     "15m",
		"location":     "Victoria Park",
		"type":         `["portrait","family"]`,
		"schedule":     `[{"date":"2026-07-18T00:00:00Z","startTime":"09:00","endTime":"12:00"}]`,
		"eventDetails": `[{"types":["portrait"]},{"types":["family"]}]`,
	}
}

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/event", eventFields(),
		formFile{field: "thumbnail", filename: "cover.png", data: pngHeader},
		formFile{field: "eventDetails", filename: "one.png", data: pngHeader},
		formFile{field: "eventDetails", filename: "two.jpg", data: []byte("jpeg")},
	)
	w := serve(env.h.CreateEvent, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[api.EventResponse](t, w)
	assert.True(t, resp.Status)
	assert.Equal(t, "Event created successfully", resp.Message)

	e := resp.Data
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Summer Portraits", e.Title)
	assert.Equal(t, api.StringList{"portrait", "family"}, e.Type)
	assert.InDelta(t, 40.0, e.Price, 0.001)
	require.Len(t, e.Schedule, 1)
	assert.Equal(t, "09:00", e.Schedule[0].StartTime)

	require.True(t, strings.HasPrefix(e.Thumbnail, UploadsPrefix), e.Thumbnail)
	assert.True(t, strings.HasSuffix(e.Thumbnail, ".png"))
	require.Len(t, e.EventDetails, 2)
	assert.Equal(t, []string{"family"}, e.EventDetails[1].Types)
	assert.Equal(t, []string{e.EventDetails[0].Image, e.EventDetails[1].Image}, e.Images)

	// файл отдается с определенным типом
	id := strings.TrimPrefix(e.Thumbnail, UploadsPrefix)
	get := httptest.NewRequest(http.MethodGet, e.Thumbnail, nil)
	get.SetPathValue("id", id)
	fw := serve(env.h.GetUpload, get)
	assert.Equal(t, http.StatusOK, fw.Code)
	assert.Equal(t, "image/png", fw.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, fw.Body.Bytes())

	list := serve(env.h.ListEvents, httptest.NewRequest(http.MethodGet, "/event/get-all-events", nil))
	events := decode[api.EventsResponse](t, list)
	require.Len(t, events.Data, 1)
	assert.Equal(t, e.ID, events.Data[0].ID)
}

func TestCreateEvent_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		fields  func() map[string]string
		name    string
		message string
		files   []formFile
	}{
		{
			name:    "thumbnail required",
			fields:  eventFields,
			files:   []formFile{{field: "eventDetails", filename: "a.png", data: pngHeader}, {field: "eventDetails", filename: "b.png", data: pngHeader}},
			message: "Thumbnail is required",
		},
		{
			name: "bad schedule json",
			fields: func() map[string]string {
				f := eventFields()
				f["schedule"] = "not json"
				return f
			},
			message: "invalid schedule format",
		},
		{
			name: "bad price",
			fields: func() map[string]string {
				f := eventFields()
				f["price"] = "forty"
				return f
			},
			message: "invalid price",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(env.h.CreateEvent, multipartRequest(t, http.MethodPost, "/event", tt.fields(), tt.files...))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[statusMessage](t, w).Message, tt.message)
		})
	}

	events, err := env.store.ListEvents(t.Context())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCreateEvent_TypeAsPlainString(t *testing.T) {
	env := newTestEnv(t)
	fields := eventFields()
	fields["type"] = "portrait"
	delete(fields, "eventDetails")

	w := serve(env.h.CreateEvent, multipartRequest(t, http.MethodPost, "/event", fields,
		formFile{field: "thumbnail", filename: "cover.png", data: pngHeader}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, api.StringList{"portrait"}, decode[api.EventResponse](t, w).Data.Type)
}

func TestUpdateEvent_KeepsImages(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.h.CreateEvent, multipartRequest(t, http.MethodPost, "/event", eventFields(),
		formFile{field: "thumbnail", filename: "cover.png", data: pngHeader},
		formFile{field: "eventDetails", filename: "one.png", data: pngHeader},
		formFile{field: "eventDetails", filename: "two.png", data: pngHeader},
	))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[api.EventResponse](t, w).Data

	fields := eventFields()
	fields["title"] = "Summer Portraits (extended)"
	fields["price"] = "45"
	req := multipartRequest(t, http.MethodPut, "/event/"+created.ID, fields)
	req.SetPathValue("id", created.ID)
	w = serve(env.h.UpdateEvent, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[api.EventResponse](t, w).Data
	assert.Equal(t, "Event updated successfully", decode[api.EventResponse](t, w).Message)
	assert.Equal(t, "Summer Portraits (extended)", updated.Title)
	assert.InDelta(t, 45.0, updated.Price, 0.001)
	assert.Equal(t, created.Thumbnail, updated.Thumbnail)
	require.Len(t, updated.EventDetails, 2)
	assert.Equal(t, created.EventDetails[0].Image, updated.EventDetails[0].Image)
	assert.Equal(t, created.EventDetails[1].Image, updated.EventDetails[1].Image)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// новая обложка заменяет старую
	req = multipartRequest(t, http.MethodPut, "/event/"+created.ID, fields,
		formFile{field: "thumbnail", filename: "new.png", data: pngHeader})
	req.SetPathValue("id", created.ID)
	w = serve(env.h.UpdateEvent, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, created.Thumbnail, decode[api.EventResponse](t, w).Data.Thumbnail)
}

func TestEvent_NotFound(t *testing.T) {
	env := newTestEnv(t)

	get := httptest.NewRequest(http.MethodGet, "/event/missing", nil)
	get.SetPathValue("id", "missing")
	assertStatusMessage(t, serve(env.h.GetEvent, get), http.StatusNotFound, false, "Event not found")

	put := multipartRequest(t, http.MethodPut, "/event/missing", eventFields())
	put.SetPathValue("id", "missing")
	assertStatusMessage(t, serve(env.h.UpdateEvent, put), http.StatusNotFound, false, "Event not found")

	del := httptest.NewRequest(http.MethodDelete, "/event/missing", nil)
	del.SetPathValue("id", "missing")
	assertStatusMessage(t, serve(env.h.DeleteEvent, del), http.StatusNotFound, false, "Event not found")

	upload := httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil)
	upload.SetPathValue("id", "missing.png")
	assertStatusMessage(t, serve(env.h.GetUpload, upload), http.StatusNotFound, false, "File not found")
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	e := env.addEvent(t, "Graduation Day", 65)

	req := httptest.NewRequest(http.MethodDelete, "/event/"+e.ID, nil)
	req.SetPathValue("id", e.ID)
	assertStatusMessage(t, serve(env.h.DeleteEvent, req), http.StatusOK, true, "Event deleted successfully")

	get := httptest.NewRequest(http.MethodGet, "/event/"+e.ID, nil)
	get.SetPathValue("id", e.ID)
	assert.Equal(t, http.StatusNotFound, serve(env.h.GetEvent, get).Code)
}
