package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestSQLStore creates a store with a mock database
func setupTestSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	store := NewSQLStore(db, logger)

	cleanup := func() {
		db.Close()
	}

	return store, mock, cleanup
}

func TestNewSQLStore(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	db := &sql.DB{}

	store := NewSQLStore(db, logger)

	assert.NotNil(t, store)
	assert.Equal(t, db, store.db)
	assert.Equal(t, logger, store.logger)
}

func TestSQLStore_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM kv_store WHERE name = ?`)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedValue string
		expectedFound bool
		expectedError bool
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"value"}).AddRow("T1")
				mock.ExpectQuery(query).WithArgs(TokenKey).WillReturnRows(rows)
			},
			expectedValue: "T1",
			expectedFound: true,
		},
		{
			name: "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(TokenKey).WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(TokenKey).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestSQLStore(t)
			defer cleanup()
			tt.setupMock(mock)

			value, found, err := store.Get(context.Background(), TokenKey)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedValue, value)
			assert.Equal(t, tt.expectedFound, found)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Set(t *testing.T) {
	query := `INSERT INTO kv_store \(name, value, updated_at\)\s+VALUES \(\?, \?, \?\)\s+ON CONFLICT\(name\) DO UPDATE`

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).
					WithArgs(TokenKey, "T1", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).
					WithArgs(TokenKey, "T1", sqlmock.AnyArg()).
					WillReturnError(errors.New("disk full"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestSQLStore(t)
			defer cleanup()
			tt.setupMock(mock)

			err := store.Set(context.Background(), TokenKey, "T1")

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Delete(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM kv_store WHERE name = ?`)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).WithArgs(TokenKey).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing key is not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).WithArgs(TokenKey).WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).WithArgs(TokenKey).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupTestSQLStore(t)
			defer cleanup()
			tt.setupMock(mock)

			err := store.Delete(context.Background(), TokenKey)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	path := t.TempDir() + "/data/storage.db"
	ctx := context.Background()

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	logger, _ := zap.NewDevelopment()
	exerciseStore(t, NewSQLStore(db, logger))

	// migrations are idempotent
	db2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db2.Close()
}
