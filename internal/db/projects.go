package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jtharmon/portfolio-latest/internal/models"
)

type ProjectFilter struct {
	FeaturedOnly bool
	Limit        int
}

const projectSelect = `
	SELECT
		p.id::text,
		p.title,
		p.description,
		p.content,
		p.demo_url,
		p.github_url,
		p.image_url,
		p.featured,
		COALESCE(array_agg(t.technology ORDER BY t.technology) FILTER (WHERE t.technology IS NOT NULL), '{}'),
		p.created_at,
		p.updated_at
	FROM projects p
	LEFT JOIN project_technologies t ON t.project_id = p.id
`

func buildListProjectsQuery(f ProjectFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(projectSelect)

	args := make([]any, 0, 1)

	if f.FeaturedOnly {
		sb.WriteString(" WHERE p.featured = true")
	}

	sb.WriteString(" GROUP BY p.id ORDER BY p.created_at DESC")

	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	return sb.String(), args
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Content,
		&project.DemoURL,
		&project.GithubURL,
		&project.ImageURL,
		&project.Featured,
		&project.Technologies,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Store) ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	query, args := buildListProjectsQuery(f)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return projects, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := projectSelect + " WHERE p.id = $1 GROUP BY p.id"
	project, err := scanProject(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

func (s *Store) CreateProject(ctx context.Context, project models.Project) (*models.Project, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO projects (title, description, content, demo_url, github_url, image_url, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`
	var id string
	err = tx.QueryRow(
		ctx,
		query,
		project.Title,
		project.Description,
		project.Content,
		project.DemoURL,
		project.GithubURL,
		project.ImageURL,
		project.Featured,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := insertProjectTechnologies(ctx, tx, id, project.Technologies); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetProject(ctx, id)
}

func (s *Store) UpdateProject(ctx context.Context, id string, project models.Project) (*models.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE projects
		SET title = $1, description = $2, content = $3, demo_url = $4,
		    github_url = $5, image_url = $6, featured = $7, updated_at = now()
		WHERE id = $8
	`
	tag, err := tx.Exec(
		ctx,
		query,
		project.Title,
		project.Description,
		project.Content,
		project.DemoURL,
		project.GithubURL,
		project.ImageURL,
		project.Featured,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_technologies WHERE project_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete project technologies: %w", err)
	}
	if err := insertProjectTechnologies(ctx, tx, id, project.Technologies); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetProject(ctx, id)
}

func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func insertProjectTechnologies(ctx context.Context, tx pgx.Tx, projectID string, technologies []string) error {
	const query = `INSERT INTO project_technologies (project_id, technology) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, technology := range technologies {
		technology = strings.TrimSpace(technology)
		if technology == "" {
			continue
		}
		if _, err := tx.Exec(ctx, query, projectID, technology); err != nil {
			return fmt.Errorf("insert project technology: %w", err)
		}
	}
	return nil
}
