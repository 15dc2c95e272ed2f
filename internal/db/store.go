package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool returns the underlying pgxpool.Pool
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the tables on first run. Tag and technology rows
// cascade with their parent, and the composite primary keys suppress
// duplicate labels per parent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
		    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		    title TEXT NOT NULL,
		    content TEXT NOT NULL,
		    excerpt TEXT NOT NULL DEFAULT '',
		    category TEXT NOT NULL DEFAULT 'General',
		    featured_image TEXT NOT NULL DEFAULT '',
		    published BOOLEAN NOT NULL DEFAULT true,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS post_tags (
		    post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		    tag TEXT NOT NULL,
		    PRIMARY KEY (post_id, tag)
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
		    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		    title TEXT NOT NULL,
		    description TEXT NOT NULL,
		    content TEXT NOT NULL DEFAULT '',
		    demo_url TEXT NOT NULL DEFAULT '',
		    github_url TEXT NOT NULL DEFAULT '',
		    image_url TEXT NOT NULL DEFAULT '',
		    featured BOOLEAN NOT NULL DEFAULT false,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS project_technologies (
		    project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		    technology TEXT NOT NULL,
		    PRIMARY KEY (project_id, technology)
		);`,
		`CREATE TABLE IF NOT EXISTS blog_config (
		    config_key TEXT PRIMARY KEY,
		    config_value TEXT NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// GetConfigValue returns the stored value for key, or "" when no row exists.
func (s *Store) GetConfigValue(ctx context.Context, key string) (string, error) {
	const query = `SELECT config_value FROM blog_config WHERE config_key = $1`
	var value string
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("get config value: %w", err)
	}
	return value, nil
}

func (s *Store) SetConfigValue(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO blog_config (config_key, config_value)
		VALUES ($1, $2)
		ON CONFLICT (config_key) DO UPDATE SET config_value = EXCLUDED.config_value
	`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set config value: %w", err)
	}
	return nil
}
