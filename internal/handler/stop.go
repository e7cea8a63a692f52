package handler

import (
	"net/http"

	"github.com/pkordes/tripplanner/internal/domain"
)

// CreateStop handles POST /trips/{tripId}/stops.
// The stop is appended to the end of its day.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var body StopRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}
	stop := requestToStop(body)
	stop.TripID = tripID
	if stop.Day == 0 {
		stop.Day = 1
	}

	created, err := s.stops.Create(r.Context(), stop)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusCreated, stopToResponse(created))
}

// ListStops handles GET /trips/{tripId}/stops, ordered by day then order.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	params, err := paginationParams(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	stops, total, err := s.stops.ListByTripIDPaged(r.Context(), tripID, params)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}

	data := make([]Stop, len(stops))
	for i, st := range stops {
		data[i] = stopToResponse(st)
	}
	writeJSON(w, http.StatusOK, StopList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetStop handles GET /trips/{tripId}/stops/{stopId}.
func (s *Server) GetStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := tripAndStopIDs(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	stop, err := s.stops.GetByID(r.Context(), tripID, stopID)
	if err != nil {
		writeServiceError(w, r, err, "stop")
		return
	}

	writeJSON(w, http.StatusOK, stopToResponse(stop))
}

// UpdateStop handles PUT /trips/{tripId}/stops/{stopId}.
// Day and order are not changed here; see MoveStop.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := tripAndStopIDs(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var body StopRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}
	stop := requestToStop(body)
	stop.ID, stop.TripID = stopID, tripID

	updated, err := s.stops.Update(r.Context(), stop)
	if err != nil {
		writeServiceError(w, r, err, "stop")
		return
	}

	writeJSON(w, http.StatusOK, stopToResponse(updated))
}

// DeleteStop handles DELETE /trips/{tripId}/stops/{stopId}.
// The remaining stops of the day are renumbered.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := tripAndStopIDs(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.stops.Delete(r.Context(), tripID, stopID); err != nil {
		writeServiceError(w, r, err, "stop")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestToStop maps a request body onto a domain.Stop. IDs are filled in
// by the caller from the path.
func requestToStop(body StopRequest) domain.Stop {
	stop := domain.Stop{
		Name:      body.Name,
		Location:  derefString(body.Location),
		Category:  domain.Category(derefString(body.Category)),
		StartTime: derefString(body.StartTime),
		EndTime:   derefString(body.EndTime),
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Notes:     derefString(body.Notes),
	}
	if body.Day != nil {
		stop.Day = *body.Day
	}
	if body.Duration != nil {
		stop.Duration = *body.Duration
	}
	if body.IsLocked != nil {
		stop.IsLocked = *body.IsLocked
	}
	return stop
}

// stopToResponse converts a domain.Stop to its wire form.
// Empty strings become nil pointers for optional JSON fields so they are
// omitted from the response rather than sent as empty strings.
func stopToResponse(s domain.Stop) Stop {
	return Stop{
		Id:        s.ID,
		TripId:    s.TripID,
		Name:      s.Name,
		Location:  nilIfEmpty(s.Location),
		Category:  nilIfEmpty(string(s.Category)),
		Day:       s.Day,
		Order:     s.Order,
		StartTime: nilIfEmpty(s.StartTime),
		EndTime:   nilIfEmpty(s.EndTime),
		Duration:  s.DurationOrDefault(),
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		IsLocked:  s.IsLocked,
		Notes:     nilIfEmpty(s.Notes),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// derefString safely dereferences a *string, returning "" when nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nilIfEmpty converts an empty string to a nil pointer.
// Used when mapping domain strings to optional API response fields.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
