package api

import "time"

// Schedule - один день проведения события
type Schedule struct {
	Date      time.Time `json:"date"`
	StartTime string    `json:"startTime"` // "09:00"
	EndTime   string    `json:"endTime"`   // "11:00"
}

// EventDetail - дополнительный блок события: набор типов и изображение
type EventDetail struct {
	Types []string `json:"types"`
	Image string   `json:"image,omitempty"`
}

// Event представляет событие (фотосессию), доступное для бронирования
type Event struct {
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	ID           string        `json:"_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Duration     string        `json:"duration"` // "15m" или "2h"
	Location     string        `json:"location"`
	Thumbnail    string        `json:"thumbnail,omitempty"`
	CreatedBy    string        `json:"createdBy,omitempty"`
	Type         StringList    `json:"type"`
	Schedule     []Schedule    `json:"schedule"`
	Images       []string      `json:"images,omitempty"`
	EventDetails []EventDetail `json:"eventDetails,omitempty"`
	Price        float64       `json:"price"`
}

// StartsAt возвращает дату первого расписания, либо дату создания
func (e *Event) StartsAt() time.Time {
	if len(e.Schedule) > 0 {
		return e.Schedule[0].Date
	}
	return e.CreatedAt
}

// EventResponse представляет ответ с одним событием
type EventResponse struct {
	Message string `json:"message"`
	Data    Event  `json:"data"`
	Status  bool   `json:"status"`
}

// EventsResponse представляет ответ GET /event/get-all-events
type EventsResponse struct {
	Message string  `json:"message"`
	Data    []Event `json:"data"`
	Status  bool    `json:"status"`
}

// EventDetailInput - деталь события в форме создания/редактирования
type EventDetailInput struct {
	Image *Upload
	Types []string
}

// EventInput - данные формы события, отправляются как multipart/form-data
type EventInput struct {
	Thumbnail   *Upload
	ID          string // только при редактировании
	Title       string
	Description string
	Duration    string
	Date        string
	Location    string
	Types       []string
	Schedule    []Schedule
	Details     []EventDetailInput
	Price       float64
}
