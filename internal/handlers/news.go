package handlers

import (
	"net/http"
	"strings"

	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// NewsHandler provides HTTP handlers for news articles.
type NewsHandler struct {
	newsService *services.NewsService
	log         logrus.FieldLogger
}

func NewNewsHandler(newsService *services.NewsService, log logrus.FieldLogger) *NewsHandler {
	return &NewsHandler{newsService: newsService, log: log}
}

// NewsRouter registers the public news routes.
func NewsRouter(r chi.Router, newsService *services.NewsService, log logrus.FieldLogger) {
	handler := NewNewsHandler(newsService, log)

	r.Get("/", handler.ListPublished)
	r.Get("/{newsID}", handler.GetArticle)
}

// AdminNewsRouter registers the news management routes.
func AdminNewsRouter(r chi.Router, newsService *services.NewsService, log logrus.FieldLogger) {
	handler := NewNewsHandler(newsService, log)

	r.Get("/", handler.ListAll)
	r.Post("/", handler.CreateArticle)
	r.Route("/{newsID}", func(r chi.Router) {
		r.Get("/", handler.GetArticle)
		r.Put("/", handler.UpdateArticle)
		r.Delete("/", handler.DeleteArticle)
	})
}

func (h *NewsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.newsService.ListPublished(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to fetch news")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NewsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.newsService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to fetch news")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NewsHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.newsService.Get(r.Context(), newsID(r))
	if err != nil {
		writeServiceError(w, r, h.log, err, "News article not found", "Failed to fetch news article")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *NewsHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req types.NewsInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.newsService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "", "Failed to create news article")
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

func (h *NewsHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req types.NewsInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.newsService.Update(r.Context(), newsID(r), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "News article not found", "Failed to update news article")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *NewsHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.newsService.Delete(r.Context(), newsID(r)); err != nil {
		writeServiceError(w, r, h.log, err, "News article not found", "Failed to delete news article")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func newsID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "newsID"))
}
