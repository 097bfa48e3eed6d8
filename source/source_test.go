package source_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/source"
)

func seed(t *testing.T) *source.Memory {
	t.Helper()
	m := source.NewMemory()
	for _, r := range []request.Request{
		{OwnerID: "u1", Title: "Pothole on Main St", Category: "Roads"},
		{OwnerID: "u2", Title: "Broken streetlight", Status: request.StatusInProgress},
		{OwnerID: "u1", Title: "Overflowing bin", Priority: 1, Category: "waste"},
	} {
		_, err := m.Add(r)
		require.NoError(t, err)
	}
	return m
}

func TestMemory_AddDefaults(t *testing.T) {
	m := source.NewMemory()
	r, err := m.Add(request.Request{OwnerID: "u1", Title: "Graffiti"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, request.DefaultPriority, r.Priority)
	assert.Equal(t, request.StatusSubmitted, r.Status)
	assert.False(t, r.SubmittedAt.IsZero())
	assert.True(t, strings.HasPrefix(r.TrackingCode, request.TrackingPrefix))

	r2, err := m.Add(request.Request{OwnerID: "u1", Title: "Noise"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), r2.ID)
	assert.NotEqual(t, r.TrackingCode, r2.TrackingCode)
}

func TestMemory_AddRejects(t *testing.T) {
	m := source.NewMemory()
	_, err := m.Add(request.Request{Title: " "})
	assert.ErrorIs(t, err, request.ErrEmptyTitle)

	_, err = m.Add(request.Request{ID: 7, Title: "a", TrackingCode: "REQ-A"})
	require.NoError(t, err)
	_, err = m.Add(request.Request{ID: 7, Title: "b"})
	assert.ErrorIs(t, err, source.ErrDuplicateID)
	_, err = m.Add(request.Request{Title: "c", TrackingCode: "REQ-A"})
	assert.ErrorIs(t, err, source.ErrDuplicateTrackingCode)

	// Explicit IDs advance the generator.
	r, err := m.Add(request.Request{Title: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), r.ID)
}

func TestMemory_LookupsAndStatus(t *testing.T) {
	m := seed(t)

	r, err := m.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Broken streetlight", r.Title)

	byCode, err := m.ByTrackingCode(r.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, r.ID, byCode.ID)

	_, err = m.Get(99)
	assert.ErrorIs(t, err, source.ErrNotFound)
	_, err = m.ByTrackingCode("REQ-NOPE")
	assert.ErrorIs(t, err, source.ErrNotFound)

	require.NoError(t, m.Complete(2))
	r, _ = m.Get(2)
	assert.True(t, r.IsCompleted())
	require.NotNil(t, r.CompletedAt)

	require.NoError(t, m.SetStatus(2, request.StatusOnHold))
	r, _ = m.Get(2)
	assert.Nil(t, r.CompletedAt)

	assert.ErrorIs(t, m.SetStatus(2, "Bogus"), request.ErrInvalidStatus)
	assert.ErrorIs(t, m.Complete(42), source.ErrNotFound)

	// Copies are returned: mutating one does not touch the store.
	r.Title = "changed"
	again, _ := m.Get(2)
	assert.Equal(t, "Broken streetlight", again.Title)
}

func TestMemory_StreamFilters(t *testing.T) {
	m := seed(t)
	ctx := context.Background()

	all, err := source.Collect(ctx, m, request.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	mine, err := source.Collect(ctx, m, request.ForOwner("u1"))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	open, err := source.Collect(ctx, m, request.ForStatus(request.StatusInProgress))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(2), open[0].ID)

	waste, err := source.Collect(ctx, m, request.Filter{Category: "WASTE"})
	require.NoError(t, err)
	assert.Len(t, waste, 1)
}

func TestMemory_StreamSnapshotAndCancel(t *testing.T) {
	m := seed(t)

	var seen int
	for r, err := range m.Stream(context.Background(), request.Filter{}) {
		require.NoError(t, err)
		seen++
		if r.ID == 1 {
			// Changes made mid-stream do not leak into the snapshot.
			require.NoError(t, m.Complete(2))
		}
		if r.ID == 2 {
			assert.False(t, r.IsCompleted())
		}
	}
	assert.Equal(t, 3, seen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := source.Collect(ctx, m, request.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

const yamlFixture = `
requests:
  - id: 10
    owner_id: u1
    title: Water main break
    location: Oak Ave
    priority: 1
    status: in_progress
    submitted_at: 2024-05-01T10:00:00Z
  - owner_id: u2
    title: Graffiti on wall
`

const jsonFixture = `{"requests":[{"owner_id":"u1","title":"Pothole","status":"Completed","submitted_at":"2024-05-02T08:00:00Z"}]}`

const tomlFixture = `
[[requests]]
owner_id = "u3"
title = "Fallen tree"
status = "on hold"
submitted_at = 2024-05-03T09:30:00Z
`

func TestDecode_Formats(t *testing.T) {
	m, err := source.Decode(strings.NewReader(yamlFixture), source.FormatYAML)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	r, err := m.Get(10)
	require.NoError(t, err)
	assert.Equal(t, request.StatusInProgress, r.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), r.SubmittedAt.UTC())
	second, err := m.Get(11)
	require.NoError(t, err)
	assert.Equal(t, request.StatusSubmitted, second.Status)

	m, err = source.Decode(strings.NewReader(jsonFixture), source.FormatJSON)
	require.NoError(t, err)
	r, _ = m.Get(1)
	assert.True(t, r.IsCompleted())

	m, err = source.Decode(strings.NewReader(tomlFixture), source.FormatTOML)
	require.NoError(t, err)
	r, _ = m.Get(1)
	assert.Equal(t, request.StatusOnHold, r.Status)
	assert.Equal(t, "Fallen tree", r.Title)
}

func TestDecode_Errors(t *testing.T) {
	_, err := source.Decode(strings.NewReader(`requests: [{title: x, status: weird}]`), source.FormatYAML)
	assert.ErrorIs(t, err, request.ErrInvalidStatus)

	_, err = source.Decode(strings.NewReader(`{"requests":[{"title":""}]}`), source.FormatJSON)
	assert.ErrorIs(t, err, request.ErrEmptyTitle)

	_, err = source.Decode(strings.NewReader(""), "xml")
	assert.ErrorIs(t, err, source.ErrUnsupportedFormat)

	empty, err := source.Decode(strings.NewReader(""), source.FormatYAML)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestLoadFileAndFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlFixture), 0o644))

	m, err := source.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	_, err = source.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
	_, err = source.LoadFile(filepath.Join(dir, "requests.csv"))
	assert.ErrorIs(t, err, source.ErrUnsupportedFormat)

	fs := source.File{Path: path}
	got, err := source.Collect(context.Background(), fs, request.ForOwner("u2"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Graffiti on wall", got[0].Title)

	// Edits are picked up by the next stream.
	require.NoError(t, os.WriteFile(path, []byte(jsonFixture), 0o644))
	path2 := filepath.Join(dir, "requests.json")
	require.NoError(t, os.Rename(path, path2))
	got, err = source.Collect(context.Background(), source.File{Path: path2}, request.Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = source.Collect(context.Background(), fs, request.Filter{})
	assert.ErrorIs(t, err, source.ErrRecordSourceUnavailable)
}
