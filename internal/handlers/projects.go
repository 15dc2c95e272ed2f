package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Jtharmon/portfolio-latest/internal/db"
	"github.com/Jtharmon/portfolio-latest/internal/models"
)

type ProjectsHandler struct {
	store Store
	gate  Authorizer
}

func NewProjectsHandler(store Store, gate Authorizer) *ProjectsHandler {
	return &ProjectsHandler{store: store, gate: gate}
}

type ProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Content      string   `json:"content"`
	DemoURL      string   `json:"demo_url"`
	GithubURL    string   `json:"github_url"`
	ImageURL     string   `json:"image_url"`
	Featured     bool     `json:"featured"`
	Technologies []string `json:"technologies"`
	BlogSecret   string   `json:"blog_secret"`
}

func (req ProjectRequest) toModel() models.Project {
	return models.Project{
		Title:        req.Title,
		Description:  req.Description,
		Content:      req.Content,
		DemoURL:      req.DemoURL,
		GithubURL:    req.GithubURL,
		ImageURL:     req.ImageURL,
		Featured:     req.Featured,
		Technologies: req.Technologies,
	}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := db.ProjectFilter{
		FeaturedOnly: q.Get("featured_only") == "true",
		Limit:        parsePositiveInt(q.Get("limit"), 0),
	}

	projects, err := h.store.ListProjects(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("list projects failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("get project failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if project == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if !authorized(r, h.gate, req.BlogSecret) {
		respondError(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}
	if req.Title == "" || req.Description == "" {
		respondError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	created, err := h.store.CreateProject(r.Context(), req.toModel())
	if err != nil {
		log.Error().Err(err).Msg("create project failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if !authorized(r, h.gate, req.BlogSecret) {
		respondError(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}

	updated, err := h.store.UpdateProject(r.Context(), id, req.toModel())
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("update project failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	secret := r.URL.Query().Get("blog_secret")
	if secret == "" && r.Body != nil {
		var body struct {
			BlogSecret string `json:"blog_secret"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		secret = body.BlogSecret
	}
	if !authorized(r, h.gate, secret) {
		respondError(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}

	deleted, err := h.store.DeleteProject(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("delete project failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
