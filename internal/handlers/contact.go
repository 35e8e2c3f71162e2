package handlers

import (
	"errors"
	"net/http"

	"github.com/alternativa-centar/site/internal/logging"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	contactService *services.ContactService
	log            logrus.FieldLogger
}

func NewContactHandler(contactService *services.ContactService, log logrus.FieldLogger) *ContactHandler {
	return &ContactHandler{contactService: contactService, log: log}
}

// ContactRouter registers the contact form route.
func ContactRouter(r chi.Router, contactService *services.ContactService, log logrus.FieldLogger) {
	handler := NewContactHandler(contactService, log)

	r.Post("/", handler.Submit)
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req types.ContactSubmission
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ContactResponse{Message: err.Error()})
		return
	}
	req.NeighborhoodTitle = ""

	if err := h.contactService.Submit(r.Context(), req); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, ContactResponse{Message: err.Error()})
			return
		}
		logging.FromContext(r.Context(), h.log).WithError(err).Error("failed to send contact email")
		writeJSON(w, http.StatusInternalServerError, ContactResponse{
			Message: "Failed to send email",
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, ContactResponse{Success: true, Message: "Email sent successfully"})
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
