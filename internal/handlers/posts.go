package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Jtharmon/portfolio-latest/internal/db"
	"github.com/Jtharmon/portfolio-latest/internal/models"
)

type PostsHandler struct {
	store Store
	gate  Authorizer
}

func NewPostsHandler(store Store, gate Authorizer) *PostsHandler {
	return &PostsHandler{store: store, gate: gate}
}

type PostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	Category      string   `json:"category"`
	FeaturedImage string   `json:"featured_image"`
	Published     bool     `json:"published"`
	Tags          []string `json:"tags"`
	BlogSecret    string   `json:"blog_secret"`
}

// defaultPostRequest carries the values absent fields revert to, for both
// create and full-replace update.
func defaultPostRequest() PostRequest {
	return PostRequest{Category: "General", Published: true}
}

func (req PostRequest) toModel() models.Post {
	return models.Post{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
		Tags:          req.Tags,
	}
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := db.PostFilter{
		PublishedOnly: q.Get("published_only") == "true",
		Category:      q.Get("category"),
		Limit:         parsePositiveInt(q.Get("limit"), 0),
	}

	posts, err := h.store.ListPosts(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("list posts failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("get post failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := defaultPostRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if !authorized(r, h.gate, req.BlogSecret) {
		respondError(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}
	if req.Title == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	created, err := h.store.CreatePost(r.Context(), req.toModel())
	if err != nil {
		log.Error().Err(err).Msg("create post failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update replaces every mutable field: omitted fields revert to their
// defaults, and the tag set is rewritten wholesale.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req := defaultPostRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if !authorized(r, h.gate, req.BlogSecret) {
		respondError(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}

	updated, err := h.store.UpdatePost(r.Context(), id, req.toModel())
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("update post failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.store.DeletePost(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("delete post failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
