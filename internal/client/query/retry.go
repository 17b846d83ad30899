package query

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// DefaultRetryBase - начальная задержка экспоненциального backoff
const DefaultRetryBase = 200 * time.Millisecond

// RetryPolicy - повторы запросов чтения. Нулевое значение - без повторов.
// Мутации через кэш не проходят и не повторяются никогда.
type RetryPolicy struct {
	// Retryable решает, стоит ли повторять ошибку; nil - повторять все,
	// кроме отмены контекста
	Retryable func(error) bool
	Retries   uint64
	Base      time.Duration
}

func (p RetryPolicy) do(ctx context.Context, fn FetchFunc) (any, error) {
	if p.Retries == 0 {
		return fn(ctx)
	}

	base := p.Base
	if base <= 0 {
		base = DefaultRetryBase
	}
	backoff := retry.WithMaxRetries(p.Retries, retry.NewExponential(base))

	return retry.DoValue(ctx, backoff, func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		if err != nil && p.retryable(err) {
			return nil, retry.RetryableError(err)
		}
		return v, err
	})
}

func (p RetryPolicy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}
