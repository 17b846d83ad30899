package devserver

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/havelockadmin/internal/devserver/handlers"
	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

//go:embed seed.yaml
var defaultSeed embed.FS

// Seed - начальные данные dev-сервера
type Seed struct {
	Users    []SeedUser    `yaml:"users"`
	Events   []SeedEvent   `yaml:"events"`
	Bookings []SeedBooking `yaml:"bookings"`
	Videos   []SeedVideo   `yaml:"videos"`
}

// SeedUser - администратор; пароль хранится открытым только в файле сида
type SeedUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role,omitempty"`
}

// SeedSchedule - день события или слот бронирования
type SeedSchedule struct {
	Date  string `yaml:"date"` // 2006-01-02
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SeedEvent - событие
type SeedEvent struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Duration    string         `yaml:"duration"`
	Location    string         `yaml:"location"`
	Thumbnail   string         `yaml:"thumbnail,omitempty"`
	Types       []string       `yaml:"types"`
	Schedule    []SeedSchedule `yaml:"schedule"`
	Price       float64        `yaml:"price"`
}

// SeedBooking - бронирование; event ссылается на id события из сида
type SeedBooking struct {
	Created time.Time      `yaml:"created"`
	ID      string         `yaml:"id,omitempty"`
	Event   string         `yaml:"event"`
	Name    string         `yaml:"name"`
	Email   string         `yaml:"email"`
	Phone   string         `yaml:"phone,omitempty"`
	Status  string         `yaml:"status"`
	Amount  string         `yaml:"amount"`
	Slots   []SeedSchedule `yaml:"slots,omitempty"`
}

// SeedVideo - видео по внешнему URL
type SeedVideo struct {
	Created time.Time `yaml:"created"`
	Title   string    `yaml:"title"`
	URL     string    `yaml:"url"`
	Type    string    `yaml:"type,omitempty"`
}

// LoadSeed читает сид из файла; пустой путь - встроенные демо-данные
func LoadSeed(path string) (*Seed, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = defaultSeed.ReadFile("seed.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed разбирает YAML сида; неизвестные поля - ошибка
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// Apply записывает сид в пустую базу. Если первый пользователь уже есть,
// считается, что сид применен раньше, и ничего не делается.
func (s *Seed) Apply(ctx context.Context, store storage.Store) (bool, error) {
	if len(s.Users) > 0 {
		_, err := store.GetUserByEmail(ctx, s.Users[0].Email)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, storage.ErrUserNotFound) {
			return false, err
		}
	}

	now := time.Now().UTC()
	for _, u := range s.Users {
		hash, err := handlers.HashPassword(u.Password)
		if err != nil {
			return false, err
		}
		role := u.Role
		if role == "" {
			role = "admin"
		}
		user := &storage.User{
			ID:           uuid.NewString(),
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	for _, e := range s.Events {
		event, err := e.event(now)
		if err != nil {
			return false, err
		}
		if err := store.CreateEvent(ctx, event); err != nil {
			return false, fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}

	for _, b := range s.Bookings {
		if err := store.CreateBooking(ctx, b.booking()); err != nil {
			return false, fmt.Errorf("seed booking for %s: %w", b.Email, err)
		}
	}

	for _, v := range s.Videos {
		created := v.Created.UTC()
		if created.IsZero() {
			created = now
		}
		videoType := v.Type
		if videoType == "" {
			videoType = "video/mp4"
		}
		video := &api.Video{
			ID:        uuid.NewString(),
			Title:     v.Title,
			Video:     api.VideoInfo{URL: v.URL, Type: videoType},
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := store.CreateVideo(ctx, video); err != nil {
			return false, fmt.Errorf("seed video %s: %w", v.Title, err)
		}
	}

	return true, nil
}

func (e SeedEvent) event(now time.Time) (*api.Event, error) {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	event := &api.Event{
		ID:          id,
		Title:       e.Title,
		Description: e.Description,
		Price:       e.Price,
		Duration:    e.Duration,
		Location:    e.Location,
		Thumbnail:   e.Thumbnail,
		Type:        api.StringList(e.Types),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, sc := range e.Schedule {
		date, err := time.Parse(time.DateOnly, sc.Date)
		if err != nil {
			return nil, fmt.Errorf("seed event %s: invalid schedule date %q: %w", e.ID, sc.Date, err)
		}
		event.Schedule = append(event.Schedule, api.Schedule{Date: date, StartTime: sc.Start, EndTime: sc.End})
	}
	return event, nil
}

func (b SeedBooking) booking() *api.Booking {
	id := b.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := b.Created.UTC()
	booking := &api.Booking{
		ID:            id,
		EventID:       api.EventRef{ID: b.Event},
		Name:          b.Name,
		Email:         b.Email,
		Phone:         b.Phone,
		PaymentStatus: b.Status,
		TotalAmount:   b.Amount,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, sl := range b.Slots {
		booking.Slots = append(booking.Slots, api.Slot{Date: sl.Date, StartTime: sl.Start, EndTime: sl.End})
	}
	return booking
}
