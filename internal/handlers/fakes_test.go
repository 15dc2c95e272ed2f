package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Jtharmon/portfolio-latest/internal/db"
	"github.com/Jtharmon/portfolio-latest/internal/models"
)

// fakeStore is an in-memory Store honoring the same contracts as the
// Postgres-backed one: created_at descending order, tag dedup, and
// published-only aggregation.
type fakeStore struct {
	posts    []models.Post
	projects []models.Project
	nextID   int
	pingErr  error
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) newID() string {
	f.nextID++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", f.nextID)
}

func normalizeLabels(labels []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func (f *fakeStore) ListPosts(ctx context.Context, filter db.PostFilter) ([]models.Post, error) {
	out := make([]models.Post, 0)
	for i := len(f.posts) - 1; i >= 0; i-- {
		p := f.posts[i]
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	post.ID = f.newID()
	post.Tags = normalizeLabels(post.Tags)
	post.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	post.UpdatedAt = post.CreatedAt
	f.posts = append(f.posts, post)
	return f.GetPost(ctx, post.ID)
}

func (f *fakeStore) UpdatePost(ctx context.Context, id string, post models.Post) (*models.Post, error) {
	for i, existing := range f.posts {
		if existing.ID == id {
			post.ID = id
			post.Tags = normalizeLabels(post.Tags)
			post.CreatedAt = existing.CreatedAt
			post.UpdatedAt = time.Now()
			f.posts[i] = post
			return f.GetPost(ctx, id)
		}
	}
	return nil, nil
}

func (f *fakeStore) DeletePost(ctx context.Context, id string) (bool, error) {
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListProjects(ctx context.Context, filter db.ProjectFilter) ([]models.Project, error) {
	out := make([]models.Project, 0)
	for i := len(f.projects) - 1; i >= 0; i-- {
		p := f.projects[i]
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			project := p
			return &project, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateProject(ctx context.Context, project models.Project) (*models.Project, error) {
	project.ID = f.newID()
	project.Technologies = normalizeLabels(project.Technologies)
	project.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	project.UpdatedAt = project.CreatedAt
	f.projects = append(f.projects, project)
	return f.GetProject(ctx, project.ID)
}

func (f *fakeStore) UpdateProject(ctx context.Context, id string, project models.Project) (*models.Project, error) {
	for i, existing := range f.projects {
		if existing.ID == id {
			project.ID = id
			project.Technologies = normalizeLabels(project.Technologies)
			project.CreatedAt = existing.CreatedAt
			project.UpdatedAt = time.Now()
			f.projects[i] = project
			return f.GetProject(ctx, id)
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	for i, p := range f.projects {
		if p.ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range f.posts {
		if !p.Published || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (f *fakeStore) ListTags(ctx context.Context) ([]string, error) {
	counts := make(map[string]int)
	for _, p := range f.posts {
		if !p.Published {
			continue
		}
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags, nil
}

// fakeGate authorizes one known secret and one known bearer token.
type fakeGate struct {
	secret   string
	token    string
	issued   string
	issueErr error
}

func (g *fakeGate) VerifySecret(ctx context.Context, candidate string) (bool, error) {
	return candidate != "" && candidate == g.secret, nil
}

func (g *fakeGate) VerifyToken(tokenStr string) bool {
	return tokenStr != "" && tokenStr == g.token
}

func (g *fakeGate) IssueToken(now time.Time) (string, error) {
	return g.issued, g.issueErr
}

// newTestRouter mirrors the route layout in main.go, minus rate limiting.
func newTestRouter(store Store, gate Authorizer) *chi.Mux {
	postsHandler := NewPostsHandler(store, gate)
	projectsHandler := NewProjectsHandler(store, gate)
	metaHandler := NewMetaHandler(store)
	secretHandler := NewSecretHandler(gate)
	healthHandler := NewHealthHandler(store)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", postsHandler.List)
		r.Get("/posts/{id}", postsHandler.Get)
		r.Post("/posts", postsHandler.Create)
		r.Put("/posts/{id}", postsHandler.Update)
		r.Delete("/posts/{id}", postsHandler.Delete)

		r.Get("/projects", projectsHandler.List)
		r.Get("/projects/{id}", projectsHandler.Get)
		r.Post("/projects", projectsHandler.Create)
		r.Put("/projects/{id}", projectsHandler.Update)
		r.Delete("/projects/{id}", projectsHandler.Delete)

		r.Get("/categories", metaHandler.Categories)
		r.Get("/tags", metaHandler.Tags)
		r.Post("/verify-secret", secretHandler.Verify)
	})
	return r
}
