package views

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/mutation"
	"github.com/iudanet/havelockadmin/internal/client/query"
	pkgapi "github.com/iudanet/havelockadmin/pkg/api"
)

// fakeBackend - бэкенд в памяти для экранов
type fakeBackend struct {
	summaries map[int]*pkgapi.BookingSummary
	cancelErr error
	events    map[string]pkgapi.Event
	calls     map[string]int
	bookings  []pkgapi.Booking
	videos    []pkgapi.Video
	mu        sync.Mutex
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		summaries: make(map[int]*pkgapi.BookingSummary),
		events:    make(map[string]pkgapi.Event),
		calls:     make(map[string]int),
	}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) called(name string) {
	f.calls[name]++
}

func paginate(total, page, limit int) (from, to int, p pkgapi.Pagination) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	pages := (total + limit - 1) / limit
	from = min((page-1)*limit, total)
	to = min(page*limit, total)
	return from, to, pkgapi.Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalData:   total,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}

func (f *fakeBackend) BookingSummary(_ context.Context, params pkgapi.BookingSummaryParams) (*pkgapi.BookingSummaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if params.Filter == pkgapi.FilterMonth {
		f.called("summary-month")
		s, ok := f.summaries[params.Year]
		if !ok {
			return nil, &api.HTTPError{Status: http.StatusNotFound, Message: "No data for year"}
		}
		return &pkgapi.BookingSummaryResponse{Status: "success", Message: *s}, nil
	}

	f.called("summary-all")
	from, to, p := paginate(len(f.bookings), params.Page, params.Limit)
	page := append([]pkgapi.Booking(nil), f.bookings[from:to]...)
	return &pkgapi.BookingSummaryResponse{
		Status:  "success",
		Message: pkgapi.BookingSummary{Bookings: page, Pagination: p, TotalData: len(f.bookings)},
	}, nil
}

func (f *fakeBackend) CancelBooking(_ context.Context, bookingID string) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("cancel")
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			f.bookings[i].PaymentStatus = pkgapi.PaymentCancelled
			return &pkgapi.MessageResponse{Message: "Booking cancelled"}, nil
		}
	}
	return nil, &api.HTTPError{Status: http.StatusNotFound, Message: "Booking not found"}
}

func (f *fakeBackend) ListEvents(context.Context) (*pkgapi.EventsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("events")
	resp := &pkgapi.EventsResponse{Status: true}
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		if e, ok := f.events[id]; ok {
			resp.Data = append(resp.Data, e)
		}
	}
	return resp, nil
}

func (f *fakeBackend) GetEvent(_ context.Context, eventID string) (*pkgapi.EventResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("event")
	e, ok := f.events[eventID]
	if !ok {
		return nil, &api.HTTPError{Status: http.StatusNotFound, Message: "Event not found"}
	}
	return &pkgapi.EventResponse{Status: true, Data: e}, nil
}

func (f *fakeBackend) CreateEvent(_ context.Context, in pkgapi.EventInput) (*pkgapi.EventResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("create")
	e := pkgapi.Event{ID: "e4", Title: in.Title, Price: in.Price, Duration: in.Duration, Schedule: in.Schedule}
	f.events[e.ID] = e
	return &pkgapi.EventResponse{Status: true, Data: e}, nil
}

func (f *fakeBackend) UpdateEvent(_ context.Context, eventID string, in pkgapi.EventInput) (*pkgapi.EventResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("update")
	e, ok := f.events[eventID]
	if !ok {
		return nil, &api.HTTPError{Status: http.StatusNotFound, Message: "Event not found"}
	}
	e.Title = in.Title
	e.Price = in.Price
	f.events[eventID] = e
	return &pkgapi.EventResponse{Status: true, Data: e}, nil
}

func (f *fakeBackend) DeleteEvent(_ context.Context, eventID string) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("delete-event")
	delete(f.events, eventID)
	return &pkgapi.MessageResponse{Message: "Event deleted"}, nil
}

func (f *fakeBackend) ListVideos(_ context.Context, params pkgapi.PageParams) (*pkgapi.VideoListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("videos")
	from, to, p := paginate(len(f.videos), params.Page, params.Limit)
	return &pkgapi.VideoListResponse{
		Status: true,
		Data:   pkgapi.VideoList{Videos: append([]pkgapi.Video(nil), f.videos[from:to]...), Pagination: p},
	}, nil
}

func (f *fakeBackend) AddVideo(_ context.Context, in pkgapi.VideoInput) (*pkgapi.VideoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("add-video")
	v := pkgapi.Video{ID: "v" + in.Title, Title: in.Title}
	f.videos = append(f.videos, v)
	return &pkgapi.VideoResponse{Status: true, Data: v}, nil
}

func (f *fakeBackend) DeleteVideo(_ context.Context, videoID string) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("delete-video")
	for i, v := range f.videos {
		if v.ID == videoID {
			f.videos = append(f.videos[:i], f.videos[i+1:]...)
			return &pkgapi.MessageResponse{Message: "Video removed"}, nil
		}
	}
	return nil, &api.HTTPError{Status: http.StatusNotFound, Message: "Video not found"}
}

func (f *fakeBackend) ForgotPassword(context.Context, pkgapi.ForgotPasswordRequest) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("forgot")
	return &pkgapi.MessageResponse{Message: "OTP sent"}, nil
}

func (f *fakeBackend) VerifyOTP(_ context.Context, req pkgapi.VerifyOTPRequest) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("verify")
	if req.OTP != "123456" {
		return nil, &api.HTTPError{Status: http.StatusBadRequest, Message: "Invalid or expired OTP"}
	}
	return &pkgapi.MessageResponse{}, nil
}

func (f *fakeBackend) ResetPassword(context.Context, pkgapi.ResetPasswordRequest) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("reset")
	return &pkgapi.MessageResponse{Message: "Password updated"}, nil
}

func (f *fakeBackend) ChangePassword(context.Context, pkgapi.ChangePasswordRequest) (*pkgapi.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called("change")
	return &pkgapi.MessageResponse{Message: "Password changed"}, nil
}

// recorder собирает уведомления
type recorder struct {
	mock *mutation.NotifierMock
}

func newRecorder() *recorder {
	return &recorder{mock: &mutation.NotifierMock{
		NotifyFunc: func(ctx context.Context, n mutation.Notification) {},
	}}
}

func (r *recorder) messages() []mutation.Notification {
	var out []mutation.Notification
	for _, c := range r.mock.NotifyCalls() {
		out = append(out, c.N)
	}
	return out
}

func testConfig(r *recorder) Config {
	return Config{Notifier: r.mock}
}

func newCache(t *testing.T) *query.Cache {
	t.Helper()
	c := query.New()
	t.Cleanup(c.Close)
	return c
}

func at(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestPageText(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		page  int
		size  int
		total int
	}{
		{name: "first page", page: 1, size: 8, total: 17, want: "Showing 1 to 8 of 17 results"},
		{name: "middle page", page: 2, size: 8, total: 17, want: "Showing 9 to 16 of 17 results"},
		{name: "last partial page", page: 3, size: 8, total: 17, want: "Showing 17 to 17 of 17 results"},
		{name: "exact fit", page: 2, size: 8, total: 16, want: "Showing 9 to 16 of 16 results"},
		{name: "zero page treated as first", page: 0, size: 8, total: 3, want: "Showing 1 to 3 of 3 results"},
		{name: "empty", page: 1, size: 8, total: 0, want: "Showing 0 results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageText(tt.page, tt.size, tt.total))
		})
	}
}

func TestStateOf(t *testing.T) {
	t.Run("caller cancelled while loading", func(t *testing.T) {
		s := stateOf[int](0, query.Entry{Status: query.StatusPending, Fetching: true}, context.Canceled)
		assert.True(t, s.Loading())
		assert.NoError(t, s.Err)
		assert.True(t, s.Fetching)
	})

	t.Run("entry error wins", func(t *testing.T) {
		entryErr := errors.New("boom")
		s := stateOf[int](0, query.Entry{Status: query.StatusError, Err: entryErr}, entryErr)
		assert.Equal(t, query.StatusError, s.Status)
		assert.Equal(t, entryErr, s.Err)
	})

	t.Run("error outside of entry", func(t *testing.T) {
		s := stateOf[int](0, query.Entry{Status: query.StatusSuccess, Data: 1}, errors.New("type mismatch"))
		assert.Equal(t, query.StatusError, s.Status)
		assert.EqualError(t, s.Err, "type mismatch")
	})

	t.Run("stale data kept", func(t *testing.T) {
		s := stateOf(7, query.Entry{Status: query.StatusSuccess, Data: 7, Stale: true}, nil)
		assert.Equal(t, 7, s.Data)
		assert.True(t, s.Stale)
		assert.False(t, s.Loading())
	})
}

func TestRender_Footer(t *testing.T) {
	tests := []struct {
		name  string
		table *table
		want  string
	}{
		{
			name:  "rows and footer separated by one blank line",
			table: &table{Title: "T", Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}, Footer: "Page 1 of 1"},
			want:  "=== T ===\n\nA  B\n1  2\n\nPage 1 of 1\n",
		},
		{
			name:  "rows without footer",
			table: &table{Title: "T", Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}},
			want:  "=== T ===\n\nA  B\n1  2\n",
		},
		{
			name:  "empty",
			table: &table{Title: "T", Header: []string{"A"}, Empty: "Nothing here", Footer: "Page 1 of 1"},
			want:  "=== T ===\n\nNothing here\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, render(&out, tt.table))
			assert.Equal(t, tt.want, out.String())
		})
	}
}
