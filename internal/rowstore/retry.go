package rowstore

import (
	"context"
	"errors"
	"time"

	retry "github.com/avast/retry-go/v4"
)

type retryStore struct {
	inner    Store
	attempts uint
}

// WithRetry wraps s so that operations failing with ErrUnavailable are
// retried up to attempts times before the error surfaces. Any other
// failure passes through immediately: domain outcomes reflect real state
// and must not be retried.
func WithRetry(s Store, attempts uint) Store {
	if attempts <= 1 {
		return s
	}
	return &retryStore{inner: s, attempts: attempts}
}

func (r *retryStore) opts(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(100 * time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrUnavailable) }),
	}
}

func (r *retryStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	var rows []Row
	err := retry.Do(func() error {
		var err error
		rows, err = r.inner.ReadAll(ctx, table)
		return err
	}, r.opts(ctx)...)
	return rows, err
}

// Append may land twice when an ack is lost mid-retry. The ledger
// tolerates duplicate history rows, so the retry is worth the risk of
// the occasional double entry.
func (r *retryStore) Append(ctx context.Context, table string, row Row) (int, error) {
	var idx int
	err := retry.Do(func() error {
		var err error
		idx, err = r.inner.Append(ctx, table, row)
		return err
	}, r.opts(ctx)...)
	return idx, err
}

func (r *retryStore) WriteCell(ctx context.Context, table string, rowIndex, col int, value string) error {
	return retry.Do(func() error {
		return r.inner.WriteCell(ctx, table, rowIndex, col, value)
	}, r.opts(ctx)...)
}
