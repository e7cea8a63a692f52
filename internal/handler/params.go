package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// pathUUID binds a UUID path parameter such as {tripId}.
func pathUUID(r *http.Request, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// pathDay binds the {day} path parameter. Range checks are left to the service.
func pathDay(r *http.Request) (int, error) {
	var day int
	err := runtime.BindStyledParameterWithOptions("simple", "day", chi.URLParam(r, "day"), &day,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid day: %w", err)
	}
	return day, nil
}

// paginationParams binds the optional ?page= and ?limit= query parameters.
// Defaults: page=1, limit=20, max=100.
func paginationParams(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid limit: %w", err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// tripAndStopIDs binds {tripId} and {stopId}.
func tripAndStopIDs(r *http.Request) (tripID, stopID openapi_types.UUID, err error) {
	if tripID, err = pathUUID(r, "tripId"); err != nil {
		return tripID, stopID, err
	}
	stopID, err = pathUUID(r, "stopId")
	return tripID, stopID, err
}

// tripAndDay binds {tripId} and {day}.
func tripAndDay(r *http.Request) (openapi_types.UUID, int, error) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		return tripID, 0, err
	}
	day, err := pathDay(r)
	return tripID, day, err
}
