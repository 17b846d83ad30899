package query

import "time"

// Status - состояние записи кэша
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry - снимок записи кэша. Кэш отдает только копии.
type Entry struct {
	FetchedAt time.Time
	Data      any
	Err       error
	Key       Key
	Status    Status
	// Stale - запись инвалидирована и будет перезапрошена при следующем чтении
	Stale bool
	// Fetching - по ключу идет запрос (первый или повторный)
	Fetching bool
}

// HasData сообщает, есть ли в записи данные (в том числе устаревшие после ошибки)
func (e Entry) HasData() bool {
	return e.Data != nil
}
