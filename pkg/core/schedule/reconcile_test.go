package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/pkg/db"
)

// fakeState is the record set a fakeStore protects with copy-on-write
// transactions.
type fakeState struct {
	windows []db.AvailabilityWindow
	markers []db.UnavailabilityMarker
}

func (s fakeState) clone() fakeState {
	return fakeState{
		windows: append([]db.AvailabilityWindow(nil), s.windows...),
		markers: append([]db.UnavailabilityMarker(nil), s.markers...),
	}
}

// fakeStore implements db.AvailabilityStore in memory. WithinTx works on a
// copy of the state and only publishes it when fn succeeds, mirroring
// commit/rollback.
type fakeStore struct {
	state fakeState
}

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx db.AvailabilityTx) error) error {
	work := s.state.clone()
	if err := fn(&fakeTx{state: &work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *fakeStore) DeleteWindow(_ context.Context, volunteerID, windowID string) error {
	for i, w := range s.state.windows {
		if w.ID == windowID && w.VolunteerID == volunteerID {
			s.state.windows = append(s.state.windows[:i], s.state.windows[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *fakeStore) WindowsForVolunteer(_ context.Context, volunteerID string, start, end time.Time) ([]db.AvailabilityWindow, error) {
	var out []db.AvailabilityWindow
	for _, w := range s.state.windows {
		if w.VolunteerID == volunteerID && !w.Day.Before(start) && !w.Day.After(end) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *fakeStore) WindowsInRange(_ context.Context, start, end time.Time) ([]db.AvailabilityWindow, error) {
	var out []db.AvailabilityWindow
	for _, w := range s.state.windows {
		if !w.Day.Before(start) && !w.Day.After(end) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkersInRange(_ context.Context, start, end time.Time) ([]db.UnavailabilityMarker, error) {
	var out []db.UnavailabilityMarker
	for _, m := range s.state.markers {
		if !m.Day.Before(start) && !m.Day.After(end) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) WindowsForDay(_ context.Context, volunteerID string, day time.Time) ([]db.AvailabilityWindow, error) {
	var out []db.AvailabilityWindow
	for _, w := range t.state.windows {
		if w.VolunteerID == volunteerID && w.Day.Equal(day) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (t *fakeTx) WindowByID(_ context.Context, volunteerID, windowID string) (*db.AvailabilityWindow, error) {
	for _, w := range t.state.windows {
		if w.ID == windowID && w.VolunteerID == volunteerID {
			copied := w
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (t *fakeTx) InsertWindow(_ context.Context, window *db.AvailabilityWindow) error {
	t.state.windows = append(t.state.windows, *window)
	return nil
}

func (t *fakeTx) UpdateWindow(_ context.Context, window *db.AvailabilityWindow) error {
	for i, w := range t.state.windows {
		if w.ID == window.ID {
			t.state.windows[i] = *window
			return nil
		}
	}
	return db.ErrNotFound
}

func (t *fakeTx) DeleteWindowsForDay(_ context.Context, volunteerID string, day time.Time) error {
	kept := t.state.windows[:0]
	for _, w := range t.state.windows {
		if !(w.VolunteerID == volunteerID && w.Day.Equal(day)) {
			kept = append(kept, w)
		}
	}
	t.state.windows = kept
	return nil
}

func (t *fakeTx) UpsertMarker(_ context.Context, volunteerID string, day time.Time) error {
	for _, m := range t.state.markers {
		if m.VolunteerID == volunteerID && m.Day.Equal(day) {
			return nil
		}
	}
	t.state.markers = append(t.state.markers, db.UnavailabilityMarker{
		ID:          "marker-" + volunteerID + "-" + DayKey(day),
		VolunteerID: volunteerID,
		Day:         day,
	})
	return nil
}

func (t *fakeTx) DeleteMarker(_ context.Context, volunteerID string, day time.Time) error {
	kept := t.state.markers[:0]
	for _, m := range t.state.markers {
		if !(m.VolunteerID == volunteerID && m.Day.Equal(day)) {
			kept = append(kept, m)
		}
	}
	t.state.markers = kept
	return nil
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestApplyWeek_MixedDecisions(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())

	monday := day(2026, time.January, 5)
	entries := []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
		{Day: monday.AddDate(0, 0, 1), Decision: DecisionUnavailable},
		{Day: monday.AddDate(0, 0, 2), Decision: DecisionAvailable, Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(18, 30)},
	}

	created, err := reconciler.ApplyWeek(context.Background(), "vol-1", entries)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Len(t, store.state.windows, 2)
	require.Len(t, store.state.markers, 1)
	assert.Equal(t, monday.AddDate(0, 0, 1), store.state.markers[0].Day)
}

func TestApplyWeek_InvalidDayAbortsWholeBatch(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())

	monday := day(2026, time.January, 5)
	entries := []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
		// end before start
		{Day: monday.AddDate(0, 0, 1), Decision: DecisionAvailable, Start: NewTimeOfDay(15, 0), End: NewTimeOfDay(10, 0)},
		{Day: monday.AddDate(0, 0, 2), Decision: DecisionUnavailable},
	}

	created, err := reconciler.ApplyWeek(context.Background(), "vol-1", entries)
	assert.Zero(t, created)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Days, 1)
	fieldErrs := batchErr.Days["2026-01-06"]
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, KindInvalidOrder, fieldErrs[0].Kind)
	assert.Equal(t, FieldEndTime, fieldErrs[0].Field)

	// nothing persisted, including the valid days
	assert.Empty(t, store.state.windows)
	assert.Empty(t, store.state.markers)
}

func TestApplyWeek_ReportsEveryInvalidDay(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())

	monday := day(2026, time.January, 5)
	entries := []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(8, 10), End: NewTimeOfDay(6, 20)},
		{Day: monday.AddDate(0, 0, 1), Decision: DecisionAvailable, Start: NewTimeOfDay(23, 0), End: NewTimeOfDay(23, 30)},
	}

	_, err := reconciler.ApplyWeek(context.Background(), "vol-1", entries)
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Len(t, batchErr.Days, 2)

	// both fields of the first day are misaligned, end is also below opening
	kinds := make(map[ErrorKind]int)
	for _, fe := range batchErr.Days["2026-01-05"] {
		kinds[fe.Kind]++
	}
	assert.Equal(t, 2, kinds[KindInvalidGranularity])
	assert.Equal(t, 1, kinds[KindOutOfBounds])
}

func TestApplyWeek_OverlapWithExistingWindowAborts(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{{
			ID:          "w-1",
			VolunteerID: "vol-1",
			Day:         monday,
			StartMinute: int(NewTimeOfDay(9, 0)),
			EndMinute:   int(NewTimeOfDay(11, 0)),
		}},
	}}
	reconciler := NewReconciler(store, zap.NewNop())

	entries := []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(12, 0)},
		{Day: monday.AddDate(0, 0, 1), Decision: DecisionUnavailable},
	}

	_, err := reconciler.ApplyWeek(context.Background(), "vol-1", entries)
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Days["2026-01-05"], 1)
	assert.Equal(t, KindOverlapConflict, batchErr.Days["2026-01-05"][0].Kind)

	// the unavailable day was rolled back with the rest of the batch
	assert.Empty(t, store.state.markers)
	assert.Len(t, store.state.windows, 1)
}

func TestApplyWeek_TouchingWindowsAccepted(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{{
			ID:          "w-1",
			VolunteerID: "vol-1",
			Day:         monday,
			StartMinute: int(NewTimeOfDay(8, 0)),
			EndMinute:   int(NewTimeOfDay(10, 0)),
		}},
	}}
	reconciler := NewReconciler(store, zap.NewNop())

	created, err := reconciler.ApplyWeek(context.Background(), "vol-1", []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(12, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Len(t, store.state.windows, 2)
}

func TestApplyWeek_SameBatchSiblingOverlapRejected(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())

	monday := day(2026, time.January, 5)
	entries := []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(11, 0), End: NewTimeOfDay(14, 0)},
	}

	_, err := reconciler.ApplyWeek(context.Background(), "vol-1", entries)
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, KindOverlapConflict, batchErr.Days["2026-01-05"][0].Kind)
	assert.Empty(t, store.state.windows)
}

func TestApplyWeek_SameBatchDisjointSiblingsAccepted(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())

	monday := day(2026, time.January, 5)
	created, err := reconciler.ApplyWeek(context.Background(), "vol-1", []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(10, 0)},
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(16, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestApplyWeek_UnavailableIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())

	tuesday := day(2026, time.January, 6)
	for i := 0; i < 2; i++ {
		_, err := reconciler.ApplyWeek(context.Background(), "vol-1", []DayEntry{
			{Day: tuesday, Decision: DecisionUnavailable},
		})
		require.NoError(t, err)
	}
	assert.Len(t, store.state.markers, 1)
}

func TestApplyWeek_MutualExclusivity(t *testing.T) {
	store := &fakeStore{}
	reconciler := NewReconciler(store, zap.NewNop())
	ctx := context.Background()

	monday := day(2026, time.January, 5)

	// available then unavailable: the window must be gone
	_, err := reconciler.ApplyWeek(ctx, "vol-1", []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
	})
	require.NoError(t, err)

	_, err = reconciler.ApplyWeek(ctx, "vol-1", []DayEntry{
		{Day: monday, Decision: DecisionUnavailable},
	})
	require.NoError(t, err)
	assert.Empty(t, store.state.windows)
	assert.Len(t, store.state.markers, 1)

	// unavailable then available: the marker must be gone
	_, err = reconciler.ApplyWeek(ctx, "vol-1", []DayEntry{
		{Day: monday, Decision: DecisionAvailable, Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(10, 0)},
	})
	require.NoError(t, err)
	assert.Empty(t, store.state.markers)
	assert.Len(t, store.state.windows, 1)
}

func TestEditWindow_ExcludesOwnIDFromOverlapScan(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{{
			ID:          "w-1",
			VolunteerID: "vol-1",
			Day:         monday,
			StartMinute: int(NewTimeOfDay(8, 0)),
			EndMinute:   int(NewTimeOfDay(10, 0)),
		}},
	}}
	reconciler := NewReconciler(store, zap.NewNop())

	// shrinking a window overlaps its own previous extent; that must pass
	err := reconciler.EditWindow(context.Background(), "vol-1", "w-1", monday, NewTimeOfDay(8, 30), NewTimeOfDay(9, 30))
	require.NoError(t, err)
	assert.Equal(t, int(NewTimeOfDay(8, 30)), store.state.windows[0].StartMinute)
	assert.Equal(t, int(NewTimeOfDay(9, 30)), store.state.windows[0].EndMinute)
}

func TestEditWindow_ConflictWithOtherWindow(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{
			{ID: "w-1", VolunteerID: "vol-1", Day: monday, StartMinute: int(NewTimeOfDay(8, 0)), EndMinute: int(NewTimeOfDay(10, 0))},
			{ID: "w-2", VolunteerID: "vol-1", Day: monday, StartMinute: int(NewTimeOfDay(14, 0)), EndMinute: int(NewTimeOfDay(16, 0))},
		},
	}}
	reconciler := NewReconciler(store, zap.NewNop())

	err := reconciler.EditWindow(context.Background(), "vol-1", "w-1", monday, NewTimeOfDay(13, 0), NewTimeOfDay(15, 0))
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, KindOverlapConflict, batchErr.Days["2026-01-05"][0].Kind)

	// untouched
	assert.Equal(t, int(NewTimeOfDay(8, 0)), store.state.windows[0].StartMinute)
}

func TestEditWindow_ClearsLeftoverMarker(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{
			{ID: "w-1", VolunteerID: "vol-1", Day: monday, StartMinute: int(NewTimeOfDay(8, 0)), EndMinute: int(NewTimeOfDay(10, 0))},
		},
		markers: []db.UnavailabilityMarker{
			{ID: "m-1", VolunteerID: "vol-1", Day: monday},
		},
	}}
	reconciler := NewReconciler(store, zap.NewNop())

	err := reconciler.EditWindow(context.Background(), "vol-1", "w-1", monday, NewTimeOfDay(9, 0), NewTimeOfDay(11, 0))
	require.NoError(t, err)
	assert.Empty(t, store.state.markers)
}

func TestEditWindow_NotOwnedReportsNotFound(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{
			{ID: "w-1", VolunteerID: "vol-2", Day: monday, StartMinute: int(NewTimeOfDay(8, 0)), EndMinute: int(NewTimeOfDay(10, 0))},
		},
	}}
	reconciler := NewReconciler(store, zap.NewNop())

	err := reconciler.EditWindow(context.Background(), "vol-1", "w-1", monday, NewTimeOfDay(9, 0), NewTimeOfDay(11, 0))
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestDeleteWindow(t *testing.T) {
	monday := day(2026, time.January, 5)
	store := &fakeStore{state: fakeState{
		windows: []db.AvailabilityWindow{
			{ID: "w-1", VolunteerID: "vol-1", Day: monday, StartMinute: int(NewTimeOfDay(8, 0)), EndMinute: int(NewTimeOfDay(10, 0))},
		},
	}}
	reconciler := NewReconciler(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, reconciler.DeleteWindow(ctx, "vol-1", "w-1"))
	assert.Empty(t, store.state.windows)

	// deleting someone else's window is a hard failure
	store.state.windows = []db.AvailabilityWindow{
		{ID: "w-2", VolunteerID: "vol-2", Day: monday, StartMinute: 480, EndMinute: 600},
	}
	err := reconciler.DeleteWindow(ctx, "vol-1", "w-2")
	assert.True(t, errors.Is(err, db.ErrNotFound))
	assert.Len(t, store.state.windows, 1)
}
