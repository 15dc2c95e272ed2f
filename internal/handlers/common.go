package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jtharmon/portfolio-latest/internal/db"
	"github.com/Jtharmon/portfolio-latest/internal/models"
)

// Store is the persistence surface the handlers need; *db.Store satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	ListPosts(ctx context.Context, f db.PostFilter) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, post models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)

	ListProjects(ctx context.Context, f db.ProjectFilter) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, project models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, project models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)

	ListCategories(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)
}

// Authorizer decides whether a mutating request may proceed.
type Authorizer interface {
	VerifySecret(ctx context.Context, candidate string) (bool, error)
	VerifyToken(tokenStr string) bool
	IssueToken(now time.Time) (string, error)
}

const (
	msgInvalidSecret = "Invalid or missing blog secret key"
	msgInternalError = "Internal server error"
	msgInvalidInput  = "Invalid input data"
)

// authorized checks the body/query-borne secret first, then falls back to
// a bearer token minted by the verify-secret endpoint. The secret is
// re-checked on every call; client-side "unlocked" state is never trusted.
func authorized(r *http.Request, gate Authorizer, secret string) bool {
	if secret != "" {
		ok, err := gate.VerifySecret(r.Context(), secret)
		if err != nil {
			log.Error().Err(err).Msg("secret verification failed")
			return false
		}
		if ok {
			return true
		}
	}
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(authHeader, "Bearer ") {
		return gate.VerifyToken(strings.TrimSpace(authHeader[7:]))
	}
	return false
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
