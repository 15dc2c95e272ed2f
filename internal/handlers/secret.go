package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type SecretHandler struct {
	gate Authorizer
}

func NewSecretHandler(gate Authorizer) *SecretHandler {
	return &SecretHandler{gate: gate}
}

type VerifySecretRequest struct {
	BlogSecret string `json:"blog_secret"`
}

type VerifySecretResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

// Verify reports whether the candidate matches the stored secret. The
// answer is advisory for the client's UI; mutating endpoints re-check on
// every call. Nothing about the stored value leaks on failure.
func (h *SecretHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifySecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusOK, VerifySecretResponse{Valid: false})
		return
	}

	valid, err := h.gate.VerifySecret(r.Context(), req.BlogSecret)
	if err != nil {
		log.Error().Err(err).Msg("secret verification failed")
		respondJSON(w, http.StatusOK, VerifySecretResponse{Valid: false})
		return
	}

	resp := VerifySecretResponse{Valid: valid}
	if valid {
		token, err := h.gate.IssueToken(time.Now())
		if err != nil {
			log.Error().Err(err).Msg("token issue failed")
		} else {
			resp.Token = token
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
