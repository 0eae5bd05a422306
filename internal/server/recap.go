package server

import (
	"net/http"
	"time"

	"github.com/misterkoko92/asf-benev/pkg/core/schedule"
)

type recapWeekOption struct {
	Week  int    `json:"week"`
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type recapResponse struct {
	WeekStart  string              `json:"week_start"`
	WeekEnd    string              `json:"week_end"`
	WeekNumber int                 `json:"week_number"`
	WeekYear   int                 `json:"week_year"`
	Days       []recapDay          `json:"days"`
	Options    []recapWeekOption   `json:"week_options"`
	Rows       []schedule.RecapRow `json:"rows"`
}

type recapDay struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

func (s *Server) handleRecap(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sel := schedule.WeekSelection{
		Date: query.Get("date"),
		Year: query.Get("year"),
		Week: query.Get("week"),
	}
	weekStart := schedule.ResolveWeekStart(sel, time.Now())

	recap, err := schedule.BuildRecap(r.Context(), s.store, s.logger, weekStart)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "erreur interne")
		return
	}

	response := recapResponse{
		WeekStart:  schedule.DayKey(recap.WeekStart),
		WeekEnd:    schedule.DayKey(recap.WeekEnd),
		WeekNumber: recap.WeekNumber,
		WeekYear:   recap.WeekYear,
		Days:       make([]recapDay, 0, len(recap.Days)),
		Options:    make([]recapWeekOption, 0, len(recap.Options)),
		Rows:       recap.Rows,
	}
	for _, day := range recap.Days {
		response.Days = append(response.Days, recapDay{
			Date:  schedule.DayKey(day.Date),
			Label: day.Label,
		})
	}
	for _, option := range recap.Options {
		response.Options = append(response.Options, recapWeekOption{
			Week:  option.Week,
			Start: schedule.DayKey(option.Monday),
			End:   schedule.DayKey(option.Sunday),
			Label: option.Label(),
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}
