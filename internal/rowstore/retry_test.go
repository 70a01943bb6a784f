package rowstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first failures calls to each operation with
// ErrUnavailable, then succeeds.
type flakyStore struct {
	failures int
	calls    int
}

func (f *flakyStore) attempt() error {
	f.calls++
	if f.calls <= f.failures {
		return ErrUnavailable
	}
	return nil
}

func (f *flakyStore) ReadAll(context.Context, string) ([]Row, error) {
	if err := f.attempt(); err != nil {
		return nil, err
	}
	return []Row{{"ok"}}, nil
}

func (f *flakyStore) Append(context.Context, string, Row) (int, error) {
	if err := f.attempt(); err != nil {
		return 0, err
	}
	return 7, nil
}

func (f *flakyStore) WriteCell(context.Context, string, int, int, string) error {
	return f.attempt()
}

// stuckStore always fails with a non-retryable error.
type stuckStore struct {
	calls int
	err   error
}

func (s *stuckStore) ReadAll(context.Context, string) ([]Row, error) {
	s.calls++
	return nil, s.err
}

func (s *stuckStore) Append(context.Context, string, Row) (int, error) {
	s.calls++
	return 0, s.err
}

func (s *stuckStore) WriteCell(context.Context, string, int, int, string) error {
	s.calls++
	return s.err
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	inner := &flakyStore{failures: 2}
	s := WithRetry(inner, 3)

	rows, err := s.ReadAll(context.Background(), TableVisitors)
	require.NoError(t, err)
	assert.Equal(t, "ok", rows[0].Cell(0))
	assert.Equal(t, 3, inner.calls)
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	inner := &flakyStore{failures: 10}
	s := WithRetry(inner, 3)

	_, err := s.Append(context.Background(), TableVisitors, Row{"x"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrySkipsNonRetryableErrors(t *testing.T) {
	inner := &stuckStore{err: errors.New("row 9 out of range")}
	s := WithRetry(inner, 5)

	err := s.WriteCell(context.Background(), TableVisitors, 9, 0, "x")
	assert.Equal(t, inner.err, err)
	assert.Equal(t, 1, inner.calls, "domain errors must not be retried")
}

func TestWithRetrySingleAttemptIsPassthrough(t *testing.T) {
	inner := &flakyStore{}
	assert.Same(t, Store(inner), WithRetry(inner, 1))
}
