package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/misterkoko92/asf-benev/pkg/core/schedule"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

var validate = validator.New()

type dayPayload struct {
	Date         string `json:"date" validate:"required"`
	Availability string `json:"availability" validate:"required,oneof=available unavailable"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type weekPayload struct {
	// WeekStart is the Monday the form was rendered for. Each day entry
	// carries its own date, so the value is informational only.
	WeekStart string       `json:"week_start"`
	Days      []dayPayload `json:"days" validate:"required,min=1,dive"`
}

type windowPayload struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type windowResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// volunteerFromRequest resolves the {volunteerID} path value, the public
// volunteer number, to a profile. Submissions for unknown numbers are a
// client error, not a not-found: the URL was built from a stale roster.
func (s *Server) volunteerFromRequest(w http.ResponseWriter, r *http.Request) *db.VolunteerProfile {
	number, err := strconv.Atoi(chi.URLParam(r, "volunteerID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "numero de benevole invalide")
		return nil
	}
	profile, err := s.store.GetVolunteerByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.writeError(w, http.StatusBadRequest, "profil benevole introuvable")
			return nil
		}
		s.writeError(w, http.StatusInternalServerError, "erreur interne")
		return nil
	}
	return profile
}

func (s *Server) handleApplyWeek(w http.ResponseWriter, r *http.Request) {
	profile := s.volunteerFromRequest(w, r)
	if profile == nil {
		return
	}

	var payload weekPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}
	if err := validate.Struct(payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "soumission invalide")
		return
	}

	entries := make([]schedule.DayEntry, 0, len(payload.Days))
	batchErr := schedule.NewBatchError()
	for _, day := range payload.Days {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "date invalide: "+day.Date)
			return
		}

		entry := schedule.DayEntry{Day: date, Decision: schedule.Decision(day.Availability)}
		if entry.Decision == schedule.DecisionAvailable {
			entry.Start = s.parseTimeField(batchErr, day.Date, schedule.FieldStartTime, day.StartTime)
			entry.End = s.parseTimeField(batchErr, day.Date, schedule.FieldEndTime, day.EndTime)
		}
		entries = append(entries, entry)
	}
	if !batchErr.Empty() {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": batchErr.Days})
		return
	}

	created, err := s.reconciler.ApplyWeek(r.Context(), profile.ID, entries)
	if err != nil {
		s.writeReconcileError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *Server) handleEditWindow(w http.ResponseWriter, r *http.Request) {
	profile := s.volunteerFromRequest(w, r)
	if profile == nil {
		return
	}
	windowID := chi.URLParam(r, "windowID")

	var payload windowPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}
	if err := validate.Struct(payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "soumission invalide")
		return
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "date invalide: "+payload.Date)
		return
	}

	batchErr := schedule.NewBatchError()
	start := s.parseTimeField(batchErr, payload.Date, schedule.FieldStartTime, payload.StartTime)
	end := s.parseTimeField(batchErr, payload.Date, schedule.FieldEndTime, payload.EndTime)
	if !batchErr.Empty() {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": batchErr.Days})
		return
	}

	if err := s.reconciler.EditWindow(r.Context(), profile.ID, windowID, date, start, end); err != nil {
		s.writeReconcileError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteWindow(w http.ResponseWriter, r *http.Request) {
	profile := s.volunteerFromRequest(w, r)
	if profile == nil {
		return
	}

	err := s.reconciler.DeleteWindow(r.Context(), profile.ID, chi.URLParam(r, "windowID"))
	if err != nil {
		s.writeReconcileError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWindows(w http.ResponseWriter, r *http.Request) {
	profile := s.volunteerFromRequest(w, r)
	if profile == nil {
		return
	}

	start, end := rangeFromQuery(r)
	windows, err := s.store.WindowsForVolunteer(r.Context(), profile.ID, start, end)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "erreur interne")
		return
	}

	out := make([]windowResponse, 0, len(windows))
	for _, window := range windows {
		out = append(out, windowResponse{
			ID:        window.ID,
			Date:      schedule.DayKey(window.Day),
			StartTime: schedule.TimeOfDay(window.StartMinute).String(),
			EndTime:   schedule.TimeOfDay(window.EndMinute).String(),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"windows": out})
}

// parseTimeField parses one submitted time, recording a field error on the
// day when it is missing or malformed.
func (s *Server) parseTimeField(batchErr *schedule.BatchError, day, field, value string) schedule.TimeOfDay {
	if value == "" {
		batchErr.Add(day, schedule.RequiredFieldError(field))
		return 0
	}
	parsed, err := schedule.ParseTimeOfDay(value)
	if err != nil {
		batchErr.Add(day, schedule.InvalidTimeError(field))
		return 0
	}
	return parsed
}

// writeReconcileError maps reconciler failures onto status codes: batch
// validation and overlap conflicts are 422, missing windows 404.
func (s *Server) writeReconcileError(w http.ResponseWriter, err error) {
	var batchErr *schedule.BatchError
	if errors.As(err, &batchErr) {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": batchErr.Days})
		return
	}
	if errors.Is(err, db.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "plage horaire introuvable")
		return
	}
	s.writeError(w, http.StatusInternalServerError, "erreur interne")
}

// rangeFromQuery reads optional start/end date filters, defaulting to a
// range wide enough to cover everything stored.
func rangeFromQuery(r *http.Request) (time.Time, time.Time) {
	start := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
	if v := r.URL.Query().Get("start"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			start = parsed
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			end = parsed
		}
	}
	return start, end
}
