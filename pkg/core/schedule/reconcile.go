package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/pkg/db"
)

// Decision is the choice a volunteer makes for one day of the week.
type Decision string

const (
	DecisionAvailable   Decision = "available"
	DecisionUnavailable Decision = "unavailable"
)

// DayEntry is one day of a weekly submission. Start and End are only
// meaningful when the decision is DecisionAvailable.
type DayEntry struct {
	Day      time.Time
	Decision Decision
	Start    TimeOfDay
	End      TimeOfDay
}

// Reconciler applies availability submissions while maintaining the
// invariant that a (volunteer, day) holds either windows or an
// unavailability marker, never both.
type Reconciler struct {
	store  db.AvailabilityStore
	logger *zap.Logger
}

// NewReconciler creates a Reconciler backed by the given store.
func NewReconciler(store db.AvailabilityStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// ApplyWeek applies a batch of per-day decisions for one volunteer as a
// single transaction. Either every day is persisted or none are.
//
// Field validation runs over the whole batch up front so every invalid day
// is reported at once. Overlap checks then run day by day inside the
// transaction: an available day adds a window after clearing the day's
// marker, an unavailable day wipes the day's windows and upserts the
// marker. Because overlap reads go through the same transaction as the
// writes, a window inserted earlier in the batch is visible to later
// checks, so two same-batch windows on the same day may coexist only when
// they do not overlap.
//
// Returns the number of windows created, or a *BatchError keyed by day.
func (r *Reconciler) ApplyWeek(ctx context.Context, volunteerID string, entries []DayEntry) (int, error) {
	batchErr := NewBatchError()
	for _, entry := range entries {
		if entry.Decision != DecisionAvailable {
			continue
		}
		for _, fe := range ValidateWindow(entry.Start, entry.End) {
			batchErr.Add(DayKey(entry.Day), fe)
		}
	}
	if !batchErr.Empty() {
		return 0, batchErr
	}

	created := 0
	err := r.store.WithinTx(ctx, func(tx db.AvailabilityTx) error {
		for _, entry := range entries {
			switch entry.Decision {
			case DecisionUnavailable:
				if err := tx.DeleteWindowsForDay(ctx, volunteerID, entry.Day); err != nil {
					return fmt.Errorf("failed to clear windows for %s: %w", DayKey(entry.Day), err)
				}
				if err := tx.UpsertMarker(ctx, volunteerID, entry.Day); err != nil {
					return fmt.Errorf("failed to upsert marker for %s: %w", DayKey(entry.Day), err)
				}

			case DecisionAvailable:
				if err := tx.DeleteMarker(ctx, volunteerID, entry.Day); err != nil {
					return fmt.Errorf("failed to clear marker for %s: %w", DayKey(entry.Day), err)
				}

				existing, err := tx.WindowsForDay(ctx, volunteerID, entry.Day)
				if err != nil {
					return fmt.Errorf("failed to load windows for %s: %w", DayKey(entry.Day), err)
				}
				if HasOverlap(existing, entry.Start, entry.End, "") {
					conflict := NewBatchError()
					conflict.Add(DayKey(entry.Day), FieldError{Kind: KindOverlapConflict, Message: msgOverlap})
					return conflict
				}

				window := &db.AvailabilityWindow{
					ID:          uuid.New().String(),
					VolunteerID: volunteerID,
					Day:         entry.Day,
					StartMinute: int(entry.Start),
					EndMinute:   int(entry.End),
				}
				if err := tx.InsertWindow(ctx, window); err != nil {
					return fmt.Errorf("failed to insert window for %s: %w", DayKey(entry.Day), err)
				}
				created++

			default:
				return fmt.Errorf("unknown decision %q for %s", entry.Decision, DayKey(entry.Day))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Availability submission applied",
		zap.String("volunteer_id", volunteerID),
		zap.Int("days", len(entries)),
		zap.Int("windows_created", created))
	return created, nil
}

// EditWindow updates one existing window identified by its id. The same
// validation and overlap rules apply, with the window's own id excluded
// from the overlap scan. Any marker left on the target day is cleared;
// windows and markers should not coexist but an edit restores the
// invariant either way. A window not owned by the volunteer reports
// db.ErrNotFound.
func (r *Reconciler) EditWindow(ctx context.Context, volunteerID, windowID string, day time.Time, start, end TimeOfDay) error {
	if fieldErrs := ValidateWindow(start, end); len(fieldErrs) > 0 {
		batchErr := NewBatchError()
		for _, fe := range fieldErrs {
			batchErr.Add(DayKey(day), fe)
		}
		return batchErr
	}

	err := r.store.WithinTx(ctx, func(tx db.AvailabilityTx) error {
		window, err := tx.WindowByID(ctx, volunteerID, windowID)
		if err != nil {
			return err
		}

		existing, err := tx.WindowsForDay(ctx, volunteerID, day)
		if err != nil {
			return fmt.Errorf("failed to load windows for %s: %w", DayKey(day), err)
		}
		if HasOverlap(existing, start, end, windowID) {
			conflict := NewBatchError()
			conflict.Add(DayKey(day), FieldError{Kind: KindOverlapConflict, Message: msgOverlap})
			return conflict
		}

		window.Day = day
		window.StartMinute = int(start)
		window.EndMinute = int(end)
		if err := tx.UpdateWindow(ctx, window); err != nil {
			return fmt.Errorf("failed to update window %s: %w", windowID, err)
		}

		return tx.DeleteMarker(ctx, volunteerID, day)
	})
	if err != nil {
		return err
	}

	r.logger.Info("Availability window updated",
		zap.String("volunteer_id", volunteerID),
		zap.String("window_id", windowID),
		zap.String("day", DayKey(day)))
	return nil
}

// DeleteWindow removes one window unconditionally. The day simply becomes
// unknown; there is no invariant to restore. A window not owned by the
// volunteer reports db.ErrNotFound.
func (r *Reconciler) DeleteWindow(ctx context.Context, volunteerID, windowID string) error {
	if err := r.store.DeleteWindow(ctx, volunteerID, windowID); err != nil {
		return err
	}

	r.logger.Info("Availability window deleted",
		zap.String("volunteer_id", volunteerID),
		zap.String("window_id", windowID))
	return nil
}
