package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRunner(db, 0), mock
}

func TestRunInTx(t *testing.T) {
	t.Run("commits when fn succeeds and exposes the tx in context", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := runner.RunInTx(context.Background(), func(ctx context.Context) error {
			_, ok := From(ctx)
			assert.True(t, ok, "transaction should be carried in context")
			return nil
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns fn error unchanged", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		sentinel := errors.New("insert failed")

		err := runner.RunInTx(context.Background(), func(context.Context) error {
			return sentinel
		})

		assert.Same(t, sentinel, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn panics", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = runner.RunInTx(context.Background(), func(context.Context) error {
				panic("boom")
			})
		})
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps begin failures", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := runner.RunInTx(context.Background(), func(context.Context) error {
			t.Fatal("fn must not run without a transaction")
			return nil
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps commit failures", func(t *testing.T) {
		runner, mock := newRunner(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := runner.RunInTx(context.Background(), func(context.Context) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses to start on a cancelled context", func(t *testing.T) {
		runner, mock := newRunner(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runner.RunInTx(ctx, func(context.Context) error { return nil })

		require.ErrorIs(t, err, context.Canceled)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithTx_NilIsIgnored(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}
