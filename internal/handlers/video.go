package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/store"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// VideoHandler provides HTTP handlers for featured YouTube videos.
type VideoHandler struct {
	videoService *services.VideoService
	log          logrus.FieldLogger
}

func NewVideoHandler(videoService *services.VideoService, log logrus.FieldLogger) *VideoHandler {
	return &VideoHandler{videoService: videoService, log: log}
}

// VideoRouter registers the public video list.
func VideoRouter(r chi.Router, videoService *services.VideoService, log logrus.FieldLogger) {
	handler := NewVideoHandler(videoService, log)

	r.Get("/", handler.ListVideos)
}

// AdminVideoRouter registers the video management routes.
func AdminVideoRouter(r chi.Router, videoService *services.VideoService, log logrus.FieldLogger) {
	handler := NewVideoHandler(videoService, log)

	r.Get("/", handler.ListVideos)
	r.Post("/", handler.CreateVideo)
	r.Delete("/{videoID}", handler.DeleteVideo)
}

func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videoService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to fetch videos")
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req types.VideoInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := h.videoService.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLimitReached):
			writeError(w, http.StatusBadRequest, "Maximum of 3 videos allowed")
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "Video already added")
		default:
			writeServiceError(w, r, h.log, err, "", "Failed to add video")
		}
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "videoID"))
	if err := h.videoService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to delete video")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
