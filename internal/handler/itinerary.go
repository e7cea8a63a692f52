// Itinerary export: GET /trips/{tripId}/itinerary returns the trip's stops
// as a flat day-by-day table. ?format=csv returns CSV; the default is JSON.

package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tripplanner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "day", "order", "stop_name", "category",
	"location", "start_time", "end_time", "duration", "locked", "notes",
}

// GetItinerary handles GET /trips/{tripId}/itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeBadRequest(w, err)
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		writeBadRequest(w, errors.New("format must be csv or json"))
		return
	}

	rows, err := s.itinerary.Rows(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ItineraryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ItineraryRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// rowToResponse maps a domain.ItineraryRow to its JSON form.
// Empty strings become nil pointers (omitted in JSON).
func rowToResponse(r domain.ItineraryRow) ItineraryRow {
	tripID, _ := uuid.Parse(r.TripID)
	return ItineraryRow{
		TripId:    tripID,
		TripName:  r.TripName,
		Day:       r.Day,
		Order:     r.Order,
		StopName:  r.StopName,
		Category:  nilIfEmpty(string(r.Category)),
		Location:  nilIfEmpty(r.Location),
		StartTime: nilIfEmpty(r.StartTime),
		EndTime:   nilIfEmpty(r.EndTime),
		Duration:  r.Duration,
		Locked:    r.Locked,
		Notes:     nilIfEmpty(r.Notes),
	}
}

// rowToCSVRecord encodes a domain.ItineraryRow as a flat string slice.
func rowToCSVRecord(r domain.ItineraryRow) []string {
	return []string{
		r.TripID,
		r.TripName,
		strconv.Itoa(r.Day),
		strconv.Itoa(r.Order),
		r.StopName,
		string(r.Category),
		r.Location,
		r.StartTime,
		r.EndTime,
		strconv.Itoa(r.Duration),
		strconv.FormatBool(r.Locked),
		r.Notes,
	}
}
