package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// ListVideos получает страницу видео
func (c *Client) ListVideos(ctx context.Context, params pkgapi.PageParams) (*pkgapi.VideoListResponse, error) {
	var resp pkgapi.VideoListResponse
	err := c.Request(ctx, http.MethodGet, "/video/get-all-videos", RequestOptions{
		Query:    params.Values(),
		Fallback: "Failed to fetch videos",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list videos request failed: %w", err)
	}
	return &resp, nil
}

// AddVideo загружает видео (multipart: title + video)
func (c *Client) AddVideo(ctx context.Context, in pkgapi.VideoInput) (*pkgapi.VideoResponse, error) {
	form := NewForm().Add("title", in.Title)
	upload := in.File
	form.AddFile("video", &upload)

	var resp pkgapi.VideoResponse
	err := c.Request(ctx, http.MethodPost, "/video", RequestOptions{
		Form:     form,
		Fallback: "Failed to upload video",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("add video request failed: %w", err)
	}
	return &resp, nil
}

// DeleteVideo удаляет видео.
// Бэкенд может ответить 200 со status=false - это тоже ошибка.
func (c *Client) DeleteVideo(ctx context.Context, videoID string) (*pkgapi.MessageResponse, error) {
	var resp pkgapi.MessageResponse
	err := c.Request(ctx, http.MethodDelete, "/video/"+url.PathEscape(videoID), RequestOptions{
		Fallback: "Failed to delete video",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("delete video request failed: %w", err)
	}
	if err := checkMessage(&resp, "Failed to delete video"); err != nil {
		return nil, fmt.Errorf("delete video request failed: %w", err)
	}
	return &resp, nil
}
