package mutation

//go:generate moq -out notifier_mock.go . Notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Kind - тип уведомления
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Notification - сообщение пользователю по итогам мутации (toast)
type Notification struct {
	Message string
	Kind    Kind
}

// Notifier доставляет уведомления пользователю
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// WriterNotifier печатает уведомления строками вида "✓ ..." / "✗ ..."
type WriterNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterNotifier создает notifier поверх w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier
func (n *WriterNotifier) Notify(_ context.Context, notification Notification) {
	mark := "✓"
	if notification.Kind == KindError {
		mark = "✗"
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s %s\n", mark, notification.Message)
}

// LogNotifier пишет уведомления в лог. Используется, когда пользователю показывать некому.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier
func (n LogNotifier) Notify(ctx context.Context, notification Notification) {
	if notification.Kind == KindError {
		n.Logger.WarnContext(ctx, "Mutation failed", "message", notification.Message)
		return
	}
	n.Logger.InfoContext(ctx, "Mutation succeeded", "message", notification.Message)
}
