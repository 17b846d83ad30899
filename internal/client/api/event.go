package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// ListEvents получает все события
func (c *Client) ListEvents(ctx context.Context) (*pkgapi.EventsResponse, error) {
	var resp pkgapi.EventsResponse
	err := c.Request(ctx, http.MethodGet, "/event/get-all-events", RequestOptions{
		Fallback: "Failed to fetch events",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list events request failed: %w", err)
	}
	return &resp, nil
}

// GetEvent получает одно событие
func (c *Client) GetEvent(ctx context.Context, eventID string) (*pkgapi.EventResponse, error) {
	var resp pkgapi.EventResponse
	err := c.Request(ctx, http.MethodGet, "/event/"+url.PathEscape(eventID), RequestOptions{
		Fallback: "Failed to fetch event",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get event request failed: %w", err)
	}
	return &resp, nil
}

// CreateEvent создает событие (multipart: поля формы, thumbnail, изображения деталей)
func (c *Client) CreateEvent(ctx context.Context, in pkgapi.EventInput) (*pkgapi.EventResponse, error) {
	form, err := EventForm(in)
	if err != nil {
		return nil, err
	}

	var resp pkgapi.EventResponse
	err = c.Request(ctx, http.MethodPost, "/event", RequestOptions{
		Form:     form,
		Fallback: "Failed to create event",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create event request failed: %w", err)
	}
	return &resp, nil
}

// UpdateEvent обновляет событие
func (c *Client) UpdateEvent(ctx context.Context, eventID string, in pkgapi.EventInput) (*pkgapi.EventResponse, error) {
	in.ID = eventID
	form, err := EventForm(in)
	if err != nil {
		return nil, err
	}

	var resp pkgapi.EventResponse
	err = c.Request(ctx, http.MethodPut, "/event/"+url.PathEscape(eventID), RequestOptions{
		Form:     form,
		Fallback: "Failed to update event",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("update event request failed: %w", err)
	}
	return &resp, nil
}

// DeleteEvent удаляет событие
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	err := c.Request(ctx, http.MethodDelete, "/event/"+url.PathEscape(eventID), RequestOptions{
		Fallback: "Failed to delete event",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("delete event request failed: %w", err)
	}
	if err := checkMessage(&resp, "Failed to delete event"); err != nil {
		return nil, fmt.Errorf("delete event request failed: %w", err)
	}
	return &resp, nil
}

// EventForm собирает multipart форму события.
// Типы деталей уходят JSON-ом в поле eventDetails, а их изображения - файлами под тем же именем.
func EventForm(in pkgapi.EventInput) (*Form, error) {
	form := NewForm()
	if in.ID != "" {
		form.Add("_id", in.ID)
	}
	form.Add("title", in.Title)
	if in.Description != "" {
		form.Add("description", in.Description)
	}
	form.Add("price", strconv.FormatFloat(in.Price, 'f', -1, 64))

	types := in.Types
	if types == nil {
		types = []string{}
	}
	if err := form.AddJSON("type", types); err != nil {
		return nil, err
	}
	form.Add("duration", in.Duration)
	if in.Date != "" {
		form.Add("date", in.Date)
	}
	form.Add("location", in.Location)

	schedule := in.Schedule
	if schedule == nil {
		schedule = []pkgapi.Schedule{}
	}
	if err := form.AddJSON("schedule", schedule); err != nil {
		return nil, err
	}

	form.AddFile("thumbnail", in.Thumbnail)

	details := make([]pkgapi.EventDetail, 0, len(in.Details))
	for _, d := range in.Details {
		details = append(details, pkgapi.EventDetail{Types: d.Types})
	}
	if err := form.AddJSON("eventDetails", details); err != nil {
		return nil, err
	}
	for _, d := range in.Details {
		form.AddFile("eventDetails", d.Image)
	}

	return form, nil
}
