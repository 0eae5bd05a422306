package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/pkg/core/services"
)

type volunteerResponse struct {
	VolunteerID           int    `json:"volunteer_id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	ShortName             string `json:"short_name,omitempty"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	MaxDaysPerWeek        *int   `json:"max_days_per_week,omitempty"`
	MaxExpeditionsPerWeek *int   `json:"max_expeditions_per_week,omitempty"`
	MaxExpeditionsPerDay  *int   `json:"max_expeditions_per_day,omitempty"`
	MaxWaitHours          *int   `json:"max_wait_hours,omitempty"`
}

func (s *Server) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := s.store.ListVolunteers(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "erreur interne")
		return
	}
	constraints, err := s.store.ListConstraints(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "erreur interne")
		return
	}

	out := make([]volunteerResponse, 0, len(volunteers))
	for _, volunteer := range volunteers {
		constraint := constraints[volunteer.ID]
		out = append(out, volunteerResponse{
			VolunteerID:           volunteer.VolunteerID,
			FirstName:             volunteer.FirstName,
			LastName:              volunteer.LastName,
			ShortName:             volunteer.ShortName,
			Email:                 volunteer.Email,
			Phone:                 volunteer.Phone,
			MaxDaysPerWeek:        constraint.MaxDaysPerWeek,
			MaxExpeditionsPerWeek: constraint.MaxExpeditionsPerWeek,
			MaxExpeditionsPerDay:  constraint.MaxExpeditionsPerDay,
			MaxWaitHours:          constraint.MaxWaitHours,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"volunteers": out})
}

func (s *Server) handleVolunteersCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=volunteers.csv")
	if err := services.WriteVolunteersCSV(r.Context(), s.store, w); err != nil {
		s.logger.Warn("Failed to export volunteers", zap.Error(err))
	}
}

func (s *Server) handleAvailabilitiesCSV(w http.ResponseWriter, r *http.Request) {
	start, end := rangeFromQuery(r)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=availabilities.csv")
	if err := services.WriteAvailabilitiesCSV(r.Context(), s.store, w, start, end); err != nil {
		s.logger.Warn("Failed to export availabilities", zap.Error(err))
	}
}
