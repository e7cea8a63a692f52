package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/itinerary"
)

// MoveStop handles POST /trips/{tripId}/stops/{stopId}/move.
// It responds with the applied batch: order updates, time adjustments, and
// the conflicts left afterwards.
func (s *Server) MoveStop(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := tripAndStopIDs(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var body MoveStopRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}

	req := itinerary.MoveRequest{
		StopID:     stopID,
		Resolution: itinerary.Resolution(derefString(body.Resolution)),
	}
	switch {
	case body.TargetStopId != nil:
		target := *body.TargetStopId
		req.Target.StopID = &target
	case body.Day != nil:
		req.Target.Day = *body.Day
		req.Target.Index = body.Index
	default:
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(errors.New("target_stop_id or day is required")))
		return
	}

	batch, err := s.schedule.MoveStop(r.Context(), tripID, req)
	if err != nil {
		writeServiceError(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// SwapStops handles POST /trips/{tripId}/stops/{stopId}/swap.
func (s *Server) SwapStops(w http.ResponseWriter, r *http.Request) {
	tripID, stopID, err := tripAndStopIDs(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var body SwapStopsRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err)
		return
	}

	batch, err := s.schedule.SwapStops(r.Context(), tripID, stopID, body.OtherStopId,
		itinerary.Resolution(derefString(body.Resolution)))
	if err != nil {
		writeServiceError(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// OptimizeTrip handles POST /trips/{tripId}/optimize.
func (s *Server) OptimizeTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	batch, err := s.schedule.OptimizeTrip(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// GetConflicts handles GET /trips/{tripId}/days/{day}/conflicts.
func (s *Server) GetConflicts(w http.ResponseWriter, r *http.Request) {
	tripID, day, err := tripAndDay(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	conflicts, err := s.schedule.Conflicts(r.Context(), tripID, day)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, ConflictList{Day: day, Conflicts: conflicts})
}

// ResolveConflicts handles POST /trips/{tripId}/days/{day}/conflicts/resolve.
func (s *Server) ResolveConflicts(w http.ResponseWriter, r *http.Request) {
	tripID, day, err := tripAndDay(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	// The body is optional; an empty one means auto_adjust.
	var body ResolveConflictsRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeBadRequest(w, err)
			return
		}
	}

	batch, err := s.schedule.ResolveConflicts(r.Context(), tripID, day, itinerary.Resolution(body.Resolution))
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// PropagateDay handles POST /trips/{tripId}/days/{day}/propagate.
func (s *Server) PropagateDay(w http.ResponseWriter, r *http.Request) {
	s.dayBatch(w, r, s.schedule.Retime)
}

// OptimizeDay handles POST /trips/{tripId}/days/{day}/optimize.
func (s *Server) OptimizeDay(w http.ResponseWriter, r *http.Request) {
	s.dayBatch(w, r, s.schedule.OptimizeDay)
}

// GetAnalysis handles GET /trips/{tripId}/days/{day}/analysis.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	tripID, day, err := tripAndDay(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	analysis, err := s.schedule.Analyze(r.Context(), tripID, day)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// GetRoute handles GET /trips/{tripId}/days/{day}/route.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	tripID, day, err := tripAndDay(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	route, err := s.schedule.Route(r.Context(), tripID, day)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// dayBatch runs a day-level schedule operation and writes its batch.
func (s *Server) dayBatch(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, int) (itinerary.Batch, error)) {
	tripID, day, err := tripAndDay(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	batch, err := op(r.Context(), tripID, day)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}
