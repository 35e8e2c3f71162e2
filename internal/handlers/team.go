package handlers

import (
	"net/http"
	"strings"

	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// TeamHandler provides HTTP handlers for team members.
type TeamHandler struct {
	teamService *services.TeamService
	log         logrus.FieldLogger
}

func NewTeamHandler(teamService *services.TeamService, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{teamService: teamService, log: log}
}

// TeamRouter registers the public team route.
func TeamRouter(r chi.Router, teamService *services.TeamService, log logrus.FieldLogger) {
	handler := NewTeamHandler(teamService, log)

	r.Get("/", handler.ListMembers)
}

// AdminTeamRouter registers the team management routes.
func AdminTeamRouter(r chi.Router, teamService *services.TeamService, log logrus.FieldLogger) {
	handler := NewTeamHandler(teamService, log)

	r.Get("/", handler.ListMembers)
	r.Post("/", handler.CreateMember)
	r.Put("/order", handler.ReorderMembers)
	r.Route("/{memberID}", func(r chi.Router) {
		r.Get("/", handler.GetMember)
		r.Put("/", handler.UpdateMember)
		r.Delete("/", handler.DeleteMember)
	})
}

func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to fetch team members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.teamService.Get(r.Context(), memberID(r))
	if err != nil {
		writeServiceError(w, r, h.log, err, "Team member not found", "Failed to fetch team member")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *TeamHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req types.TeamMemberInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.teamService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to create team member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *TeamHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req types.TeamMemberInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.teamService.Update(r.Context(), memberID(r), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "Team member not found", "Failed to update team member")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// DeleteMember reports a missing member as a server error, like every
// other delete failure.
func (h *TeamHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.Delete(r.Context(), memberID(r)); err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to delete team member")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *TeamHandler) ReorderMembers(w http.ResponseWriter, r *http.Request) {
	var req []types.TeamOrder
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.teamService.Reorder(r.Context(), req); err != nil {
		writeServiceError(w, r, h.log, err, "Team member not found", "Failed to reorder team members")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func memberID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "memberID"))
}
