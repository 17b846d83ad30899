package mutation

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/query"
)

func silentNotifier() *NotifierMock {
	return &NotifierMock{NotifyFunc: func(ctx context.Context, n Notification) {}}
}

func seed(t *testing.T, cache *query.Cache, keys ...query.Key) {
	t.Helper()
	for _, k := range keys {
		_, err := cache.Fetch(context.Background(), k, func(ctx context.Context) (any, error) {
			return "data", nil
		})
		require.NoError(t, err)
	}
}

// TestExecutor_Success проверяет порядок: инвалидация, затем уведомление
func TestExecutor_Success(t *testing.T) {
	cache := query.New()
	defer cache.Close()
	seed(t, cache,
		query.NewKey("booking-all-data", 1),
		query.NewKey("booking-all-data", 2),
		query.NewKey("all-videos", 1),
	)

	notifier := &NotifierMock{}
	notifier.NotifyFunc = func(ctx context.Context, n Notification) {
		// к моменту уведомления записи уже устарели
		entry, ok := cache.Peek(query.NewKey("booking-all-data", 2))
		require.True(t, ok)
		assert.True(t, entry.Stale)
	}

	exec := New(cache, func(ctx context.Context, id string) (string, error) {
		return "Booking " + id + " cancelled", nil
	}, Options[string]{
		Invalidate:     []query.Key{query.NewKey("booking-all-data")},
		Notifier:       notifier,
		Success:        "Booking cancelled",
		SuccessMessage: func(out string) string { return out },
	})

	out, err := exec.Mutate(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Booking b1 cancelled", out)
	assert.False(t, exec.IsPending())

	calls := notifier.NotifyCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, KindSuccess, calls[0].N.Kind)
	assert.Equal(t, "Booking b1 cancelled", calls[0].N.Message)

	videos, _ := cache.Peek(query.NewKey("all-videos", 1))
	assert.False(t, videos.Stale)
}

// TestExecutor_Failure проверяет, что ошибка не трогает кэш и не повторяется
func TestExecutor_Failure(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		fallback string
		want     string
	}{
		{
			name:     "server message",
			err:      &api.HTTPError{Status: http.StatusBadRequest, Message: "Booking already cancelled"},
			fallback: "Failed to cancel booking",
			want:     "Booking already cancelled",
		},
		{
			name:     "fallback",
			err:      errors.New("dial tcp: connection refused"),
			fallback: "Failed to cancel booking",
			want:     "Failed to cancel booking",
		},
		{
			name: "plain error",
			err:  errors.New("dial tcp: connection refused"),
			want: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := query.New()
			defer cache.Close()
			seed(t, cache, query.NewKey("booking-all-data", 1))

			calls := 0
			notifier := silentNotifier()
			exec := New(cache, func(ctx context.Context, id string) (struct{}, error) {
				calls++
				return struct{}{}, tt.err
			}, Options[struct{}]{
				Invalidate: []query.Key{query.NewKey("booking-all-data")},
				Notifier:   notifier,
				Success:    "Booking cancelled",
				Failure:    tt.fallback,
			})

			_, err := exec.Mutate(context.Background(), "b1")
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, calls)

			require.Len(t, notifier.NotifyCalls(), 1)
			n := notifier.NotifyCalls()[0].N
			assert.Equal(t, KindError, n.Kind)
			assert.Equal(t, tt.want, n.Message)

			entry, _ := cache.Peek(query.NewKey("booking-all-data", 1))
			assert.False(t, entry.Stale)
		})
	}
}

// TestExecutor_Pending проверяет защиту от двойной отправки
func TestExecutor_Pending(t *testing.T) {
	cache := query.New()
	defer cache.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	exec := New(cache, func(ctx context.Context, in int) (int, error) {
		close(started)
		<-release
		return in * 2, nil
	}, Options[int]{Notifier: silentNotifier()})

	done := make(chan error, 1)
	go func() {
		_, err := exec.Mutate(context.Background(), 21)
		done <- err
	}()
	<-started

	assert.True(t, exec.IsPending())
	_, err := exec.Mutate(context.Background(), 1)
	require.ErrorIs(t, err, ErrPending)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, exec.IsPending())
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)

	n.Notify(context.Background(), Notification{Kind: KindSuccess, Message: "Video deleted"})
	n.Notify(context.Background(), Notification{Kind: KindError, Message: "Video not found"})

	assert.Equal(t, "✓ Video deleted\n✗ Video not found\n", buf.String())
}
