package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/source"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// requestRowColumns is the column list for scanRequest results.
var requestRowColumns = []string{
	"id", "owner_id", "title", "description", "category", "location",
	"priority", "status", "submitted_at", "completed_at", "tracking_code",
}

func TestSelectQuery(t *testing.T) {
	pg := New(nil, Postgres)
	lite := New(nil, SQLite)

	for _, tc := range []struct {
		name  string
		store *Store
		f     request.Filter
		want  string
		args  int
	}{
		{"unfiltered", pg, request.Filter{}, "SELECT " + requestColumns + " FROM requests ORDER BY id", 0},
		{"owner pg", pg, request.ForOwner("u1"), "SELECT " + requestColumns + " FROM requests WHERE owner_id = $1 ORDER BY id", 1},
		{"owner sqlite", lite, request.ForOwner("u1"), "SELECT " + requestColumns + " FROM requests WHERE owner_id = ? ORDER BY id", 1},
		{
			"combined pg", pg,
			request.Filter{TrackingCode: "REQ-X", Category: "Roads", Statuses: []request.Status{request.StatusSubmitted, request.StatusOnHold}},
			"SELECT " + requestColumns + " FROM requests WHERE tracking_code = $1 AND LOWER(category) = LOWER($2) AND status IN ($3, $4) ORDER BY id",
			4,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, args := tc.store.selectQuery(tc.f)
			assert.Equal(t, tc.want, got)
			assert.Len(t, args, tc.args)
		})
	}
}

func TestStream_MockRows(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM requests WHERE owner_id = \$1 ORDER BY id`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(requestRowColumns).
			AddRow(1, "u1", "Pothole", nil, "Roads", "Main St", 2, "Submitted", now, nil, "REQ-AAAA").
			AddRow(2, "u1", "Leak", "under sink", nil, nil, 1, "Completed", now, now.Add(time.Hour), "REQ-BBBB"))

	got, err := source.Collect(context.Background(), s, request.ForOwner("u1"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Pothole", got[0].Title)
	assert.Equal(t, "Main St", got[0].Location)
	assert.Empty(t, got[0].Description)
	assert.Nil(t, got[0].CompletedAt)

	assert.True(t, got[1].IsCompleted())
	require.NotNil(t, got[1].CompletedAt)
	assert.Equal(t, now.Add(time.Hour), *got[1].CompletedAt)
}

func TestStream_QueryErrorIsUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres)

	mock.ExpectQuery(`SELECT .+ FROM requests ORDER BY id`).
		WillReturnError(errors.New("connection refused"))

	_, err := source.Collect(context.Background(), s, request.Filter{})
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStream_RowErrorAbortsMidStream(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM requests ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(requestRowColumns).
			AddRow(1, "u1", "ok", nil, nil, nil, 2, "Submitted", now, nil, "REQ-1").
			AddRow(2, "u1", "bad", nil, nil, nil, 2, "Submitted", now, nil, "REQ-2").
			RowError(1, errors.New("network reset")))

	var seen int
	var streamErr error
	for r, err := range s.Stream(context.Background(), request.Filter{}) {
		if err != nil {
			streamErr = err
			break
		}
		assert.NotNil(t, r)
		seen++
	}
	assert.Equal(t, 1, seen)
	assert.ErrorIs(t, streamErr, source.ErrRecordSourceUnavailable)
}

func TestStream_BadStatusIsUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres)

	mock.ExpectQuery(`SELECT .+ FROM requests ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(requestRowColumns).
			AddRow(1, "u1", "x", nil, nil, nil, 2, "Exploded", time.Now(), nil, "REQ-1"))

	_, err := source.Collect(context.Background(), s, request.Filter{})
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
	assert.ErrorIs(t, err, request.ErrInvalidStatus)
}

func TestSetStatus_Mock(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres)

	mock.ExpectExec(`UPDATE requests SET status = \$1, completed_at = \$2 WHERE id = \$3`).
		WithArgs("OnHold", sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.SetStatus(context.Background(), 5, request.StatusOnHold))

	mock.ExpectExec(`UPDATE requests`).
		WithArgs("Completed", sqlmock.AnyArg(), int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.SetStatus(context.Background(), 6, request.StatusCompleted), source.ErrNotFound)

	assert.ErrorIs(t, s.SetStatus(context.Background(), 6, "nope"), request.ErrInvalidStatus)
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, r := range []*request.Request{
		{OwnerID: "u1", Title: "Pothole", Category: "Roads", Location: "Main St", SubmittedAt: at},
		{OwnerID: "u2", Title: "Streetlight out", Priority: 1, SubmittedAt: at.Add(time.Hour)},
		{OwnerID: "u1", Title: "Graffiti", Status: request.StatusInProgress, SubmittedAt: at.Add(2 * time.Hour)},
	} {
		require.NoError(t, s.Insert(ctx, r))
		assert.NotZero(t, r.ID)
		assert.NotEmpty(t, r.TrackingCode)
	}

	mine, err := source.Collect(ctx, s, request.ForOwner("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Pothole", mine[0].Title)
	assert.True(t, at.Equal(mine[0].SubmittedAt))
	assert.Equal(t, request.DefaultPriority, mine[0].Priority)

	roads, err := source.Collect(ctx, s, request.Filter{Category: "ROADS"})
	require.NoError(t, err)
	assert.Len(t, roads, 1)

	require.NoError(t, s.SetStatus(ctx, mine[1].ID, request.StatusCompleted))
	done, err := source.Collect(ctx, s, request.ForStatus(request.StatusCompleted))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.NotNil(t, done[0].CompletedAt)

	require.NoError(t, s.Close())

	// Reopening applies no new migrations and keeps the data.
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	all, err := source.Collect(ctx, s, request.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
