package mutation

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/query"
)

// ErrPending возвращается, если мутация этого исполнителя уже выполняется
var ErrPending = errors.New("mutation already in progress")

// Func выполняет запись на бэкенде
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Invalidator - часть кэша, нужная исполнителю
type Invalidator interface {
	Invalidate(prefix query.Key) int
}

// Options описывает реакцию на результат мутации
type Options[Out any] struct {
	Notifier Notifier
	Logger   *slog.Logger
	// SuccessMessage строит текст уведомления из ответа; пустая строка - берется Success
	SuccessMessage func(out Out) string
	// Success - текст уведомления об успехе по умолчанию
	Success string
	// Failure - текст ошибки, если сервер не прислал message
	Failure string
	// Invalidate - префиксы ключей, которые устаревают после успеха
	Invalidate []query.Key
}

// Executor выполняет одну мутацию за раз
type Executor[In, Out any] struct {
	cache   Invalidator
	fn      Func[In, Out]
	opts    Options[Out]
	pending atomic.Bool
}

// New создает исполнителя мутации
func New[In, Out any](cache Invalidator, fn Func[In, Out], opts Options[Out]) *Executor[In, Out] {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Executor[In, Out]{
		cache: cache,
		fn:    fn,
		opts:  opts,
	}
}

// IsPending сообщает, выполняется ли мутация (кнопка должна быть неактивна)
func (e *Executor[In, Out]) IsPending() bool {
	return e.pending.Load()
}

// Mutate выполняет мутацию. Повторный вызов во время выполнения отклоняется с ErrPending.
// После успеха инвалидирует объявленные префиксы, затем уведомляет.
// Ошибка не повторяется: она уходит в уведомление и возвращается вызывающему.
func (e *Executor[In, Out]) Mutate(ctx context.Context, in In) (Out, error) {
	var zero Out
	if !e.pending.CompareAndSwap(false, true) {
		return zero, ErrPending
	}
	defer e.pending.Store(false)

	out, err := e.fn(ctx, in)
	if err != nil {
		msg := failureMessage(err, e.opts.Failure)
		e.opts.Logger.DebugContext(ctx, "Mutation failed", "error", err)
		e.notify(ctx, Notification{Kind: KindError, Message: msg})
		return zero, err
	}

	for _, prefix := range e.opts.Invalidate {
		n := e.cache.Invalidate(prefix)
		e.opts.Logger.DebugContext(ctx, "Invalidated after mutation", "prefix", prefix.String(), "count", n)
	}

	msg := e.opts.Success
	if e.opts.SuccessMessage != nil {
		if m := e.opts.SuccessMessage(out); m != "" {
			msg = m
		}
	}
	if msg != "" {
		e.notify(ctx, Notification{Kind: KindSuccess, Message: msg})
	}
	return out, nil
}

func (e *Executor[In, Out]) notify(ctx context.Context, n Notification) {
	if e.opts.Notifier != nil {
		e.opts.Notifier.Notify(ctx, n)
	}
}

// failureMessage: сообщение сервера, затем fallback, затем текст ошибки
func failureMessage(err error, fallback string) string {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
