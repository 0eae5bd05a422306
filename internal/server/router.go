package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	corsOptions := cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(corsOptions.AllowedOrigins) == 0 {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(httprate.LimitByIP(s.cfg.RequestsPerMinute, time.Minute))

	router.Route("/api", func(r chi.Router) {
		r.Get("/recap", s.handleRecap)
		r.Get("/volunteers", s.handleListVolunteers)
		r.Get("/volunteers.csv", s.handleVolunteersCSV)
		r.Get("/availabilities.csv", s.handleAvailabilitiesCSV)

		r.Route("/volunteers/{volunteerID}", func(r chi.Router) {
			r.Get("/availability", s.handleListWindows)
			r.Post("/availability/week", s.handleApplyWeek)
			r.Put("/availability/{windowID}", s.handleEditWindow)
			r.Delete("/availability/{windowID}", s.handleDeleteWindow)
		})
	})

	return router
}

// requestLogger logs one line per request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
