package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	fnErr := errors.New("function failed")

	tests := []struct {
		name       string
		setup      func(mock sqlmock.Sqlmock)
		fn         TxFn
		wantErrIs  error
		wantErrMsg string
	}{
		{
			name: "commit on success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(context.Context, *sql.Tx) error { return nil },
		},
		{
			name: "rollback on error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:        func(context.Context, *sql.Tx) error { return fnErr },
			wantErrIs: fnErr,
		},
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("no connection"))
			},
			fn:         func(context.Context, *sql.Tx) error { return nil },
			wantErrMsg: "failed to begin transaction",
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			fn:         func(context.Context, *sql.Tx) error { return nil },
			wantErrMsg: "failed to commit transaction",
		},
		{
			name: "rollback fails keeps original error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn:         func(context.Context, *sql.Tx) error { return fnErr },
			wantErrIs:  fnErr,
			wantErrMsg: "error rolling back transaction",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setup(mock)

			err = RunInTransaction(context.Background(), db, tt.fn)
			if tt.wantErrIs == nil && tt.wantErrMsg == "" {
				assert.NoError(t, err)
			}
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransactionPanicRollsBack(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateError(t *testing.T) {
	t.Parallel()

	err := NewDuplicateError("workout", map[string]any{"userId": "u1", "name": "Leg Day"})
	assert.ErrorIs(t, err, ErrItemDuplicated)
	assert.True(t, IsDuplicateError(err))
	assert.False(t, IsNotFoundError(err))
	assert.Equal(t, "duplicate workout: name=Leg Day, userId=u1", err.Error())

	var dup *DuplicateError
	wrapped := NewStoreError("workout", "create", "name taken", err)
	require.ErrorAs(t, wrapped, &dup)
	assert.Equal(t, "Leg Day", dup.Fields["name"])
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	err := NewStoreError("set", "update", "no rows affected", ErrUpdate)
	assert.ErrorIs(t, err, ErrUpdate)
	assert.NotErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, "update operation on set failed: no rows affected: update affected no rows", err.Error())

	bare := NewStoreError("set", "delete", "gone", nil)
	assert.Equal(t, "delete operation on set failed: gone", bare.Error())
}
