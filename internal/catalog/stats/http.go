// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafidhoque/boighor/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the stats snapshot.
type Handler struct {
	service *Service
}

// NewHandler constructs a new stats [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the stats endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/monthly", handler.monthly)
	return router
}

/*
GET /api/v1/stats/monthly.

Description: Retrieves the dashboard's monthly activity snapshot: totals,
promotion counts, month-over-month growth, the busiest categories, and the
month's trending titles. Served from a short-lived Redis cache.

Response:
  - 200: Snapshot: The monthly figures
*/
func (handler *Handler) monthly(writer http.ResponseWriter, request *http.Request) {
	snapshot, err := handler.service.Monthly(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot)
}
