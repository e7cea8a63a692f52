package handler

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter mounts every endpoint of the API on a chi router. Cross-cutting
// middleware (request id, logging, CORS, body limits) is applied by the caller.
func NewRouter(s *Server) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/optimize", s.OptimizeTrip)
			r.Get("/itinerary", s.GetItinerary)

			r.Route("/stops", func(r chi.Router) {
				r.Post("/", s.CreateStop)
				r.Get("/", s.ListStops)

				r.Route("/{stopId}", func(r chi.Router) {
					r.Get("/", s.GetStop)
					r.Put("/", s.UpdateStop)
					r.Delete("/", s.DeleteStop)
					r.Post("/move", s.MoveStop)
					r.Post("/swap", s.SwapStops)
				})
			})

			r.Route("/days/{day}", func(r chi.Router) {
				r.Get("/conflicts", s.GetConflicts)
				r.Post("/conflicts/resolve", s.ResolveConflicts)
				r.Post("/propagate", s.PropagateDay)
				r.Post("/optimize", s.OptimizeDay)
				r.Get("/analysis", s.GetAnalysis)
				r.Get("/route", s.GetRoute)
			})
		})
	})

	return r
}
