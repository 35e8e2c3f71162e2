package handlers

import (
	"net/http"
	"strings"

	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// NeighborhoodHandler provides HTTP handlers for neighborhood contacts.
type NeighborhoodHandler struct {
	neighborhoodService *services.NeighborhoodService
	log                 logrus.FieldLogger
}

func NewNeighborhoodHandler(neighborhoodService *services.NeighborhoodService, log logrus.FieldLogger) *NeighborhoodHandler {
	return &NeighborhoodHandler{neighborhoodService: neighborhoodService, log: log}
}

// NeighborhoodRouter registers the public neighborhood directory.
func NeighborhoodRouter(r chi.Router, neighborhoodService *services.NeighborhoodService, log logrus.FieldLogger) {
	handler := NewNeighborhoodHandler(neighborhoodService, log)

	r.Get("/", handler.ListNeighborhoods)
}

// AdminNeighborhoodRouter registers the contact editing routes.
func AdminNeighborhoodRouter(r chi.Router, neighborhoodService *services.NeighborhoodService, log logrus.FieldLogger) {
	handler := NewNeighborhoodHandler(neighborhoodService, log)

	r.Get("/", handler.ListNeighborhoods)
	r.Get("/{neighborhoodID}", handler.GetNeighborhood)
	r.Put("/{neighborhoodID}", handler.UpdateContact)
}

func (h *NeighborhoodHandler) ListNeighborhoods(w http.ResponseWriter, r *http.Request) {
	items, err := h.neighborhoodService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to fetch neighborhoods")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NeighborhoodHandler) GetNeighborhood(w http.ResponseWriter, r *http.Request) {
	item, err := h.neighborhoodService.Get(r.Context(), neighborhoodID(r))
	if err != nil {
		writeServiceError(w, r, h.log, err, "Neighborhood not found", "Failed to fetch neighborhood")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *NeighborhoodHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req types.NeighborhoodContact
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.neighborhoodService.UpdateContact(r.Context(), neighborhoodID(r), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Neighborhood not found", "Failed to update neighborhood")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func neighborhoodID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "neighborhoodID"))
}
