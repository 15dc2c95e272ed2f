package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// MetaHandler serves the read-only aggregation endpoints. Both only
// consider published posts.
type MetaHandler struct {
	store Store
}

func NewMetaHandler(store Store) *MetaHandler {
	return &MetaHandler{store: store}
}

func (h *MetaHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list categories failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (h *MetaHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list tags failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}
