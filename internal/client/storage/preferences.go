package storage

import "context"

// Ключи настроек клиента
const (
	// PrefEventsSort - последний выбранный порядок списка событий
	PrefEventsSort = "events_sort"
	// PrefLastEmail - email последнего успешного входа (подсказка в форме входа)
	PrefLastEmail = "last_email"
)

// PreferenceStorage хранит настройки экранов между запусками клиента
type PreferenceStorage interface {
	// SetPreference сохраняет значение; пустое значение удаляет ключ
	SetPreference(ctx context.Context, key, value string) error

	// GetPreference возвращает значение или "" если ключ не задан
	GetPreference(ctx context.Context, key string) (string, error)
}
