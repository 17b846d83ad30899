package api

import (
	"net/url"
	"strconv"
	"time"
)

// VideoInfo - загруженный видеофайл
type VideoInfo struct {
	URL  string `json:"url"`
	Type string `json:"type"` // "video/mp4"
}

// Video представляет одно видео
type Video struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Video     VideoInfo `json:"video"`
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// VideoList - страница видео
type VideoList struct {
	Videos     []Video    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

// VideoListResponse представляет ответ GET /video/get-all-videos
type VideoListResponse struct {
	Message string    `json:"message"`
	Data    VideoList `json:"data"`
	Status  bool      `json:"status"`
}

// VideoResponse представляет ответ на загрузку видео
type VideoResponse struct {
	Message string `json:"message"`
	Data    Video  `json:"data"`
	Status  bool   `json:"status"`
}

// VideoInput - форма добавления видео
type VideoInput struct {
	File  Upload
	Title string
}

// PageParams - параметры постраничных списков
type PageParams struct {
	Page  int
	Limit int
}

// Values кодирует параметры в query string
func (p PageParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}
