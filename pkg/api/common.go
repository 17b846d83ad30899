package api

import (
	"encoding/json"
	"fmt"
	"io"
)

// Pagination - курсор пагинации, который бэкенд отдает в каждом постраничном ответе
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalData   int  `json:"totalData"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ErrorResponse представляет тело ответа с ошибкой
type ErrorResponse struct {
	Status  any    `json:"status,omitempty"`
	Message string `json:"message"`
}

// MessageResponse - общий ответ мутаций: {"status": bool} или {"success": bool} плюс сообщение
type MessageResponse struct {
	Status  *bool  `json:"status,omitempty"`
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// Failed сообщает, что сервер ответил 2xx, но пометил операцию как неуспешную
func (r *MessageResponse) Failed() bool {
	if r.Status != nil && !*r.Status {
		return true
	}
	return r.Success != nil && !*r.Success
}

// Upload - файл для multipart запроса (thumbnail, изображения деталей, видео)
type Upload struct {
	Content  io.Reader
	Filename string
}

// StringList принимает как JSON строку, так и массив строк.
// Поле type у событий встречается в обоих видах.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("string list: expected string or array: %w", err)
	}
	if single == "" {
		*l = StringList{}
		return nil
	}
	*l = StringList{single}
	return nil
}
