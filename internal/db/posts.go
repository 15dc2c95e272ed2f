package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jtharmon/portfolio-latest/internal/models"
)

type PostFilter struct {
	PublishedOnly bool
	Category      string
	Limit         int
}

const postSelect = `
	SELECT
		p.id::text,
		p.title,
		p.content,
		p.excerpt,
		p.category,
		p.featured_image,
		p.published,
		COALESCE(array_agg(t.tag ORDER BY t.tag) FILTER (WHERE t.tag IS NOT NULL), '{}'),
		p.created_at,
		p.updated_at
	FROM posts p
	LEFT JOIN post_tags t ON t.post_id = p.id
`

func buildListPostsQuery(f PostFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(postSelect)

	conditions := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if f.PublishedOnly {
		conditions = append(conditions, "p.published = true")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	sb.WriteString(" GROUP BY p.id ORDER BY p.created_at DESC")

	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	return sb.String(), args
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.Category,
		&post.FeaturedImage,
		&post.Published,
		&post.Tags,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) ListPosts(ctx context.Context, f PostFilter) ([]models.Post, error) {
	query, args := buildListPostsQuery(f)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

// GetPost returns the post with the given id, or nil when it does not
// exist. A malformed id is treated as not found rather than a query error.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := postSelect + " WHERE p.id = $1 GROUP BY p.id"
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// CreatePost inserts the post and its tags in one transaction and returns
// the stored record. Tags are trimmed and deduplicated on insert.
func (s *Store) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO posts (title, content, excerpt, category, featured_image, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text
	`
	var id string
	err = tx.QueryRow(
		ctx,
		query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Category,
		post.FeaturedImage,
		post.Published,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := insertPostTags(ctx, tx, id, post.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetPost(ctx, id)
}

// UpdatePost replaces all mutable fields of the post and reinserts its tag
// set wholesale. Returns nil when the id does not exist.
func (s *Store) UpdatePost(ctx context.Context, id string, post models.Post) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE posts
		SET title = $1, content = $2, excerpt = $3, category = $4,
		    featured_image = $5, published = $6, updated_at = now()
		WHERE id = $7
	`
	tag, err := tx.Exec(
		ctx,
		query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Category,
		post.FeaturedImage,
		post.Published,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete post tags: %w", err)
	}
	if err := insertPostTags(ctx, tx, id, post.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes the post by id; tag rows cascade. Returns false when
// the id does not exist.
func (s *Store) DeletePost(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListCategories returns the distinct categories among published posts.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM posts WHERE published = true ORDER BY category`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return categories, nil
}

// ListTags returns the tags of published posts ranked by usage count
// descending, ties broken alphabetically.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	const query = `
		SELECT t.tag
		FROM post_tags t
		INNER JOIN posts p ON p.id = t.post_id
		WHERE p.published = true
		GROUP BY t.tag
		ORDER BY COUNT(*) DESC, t.tag ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tags, nil
}

func insertPostTags(ctx context.Context, tx pgx.Tx, postID string, tags []string) error {
	const query = `INSERT INTO post_tags (post_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.Exec(ctx, query, postID, tag); err != nil {
			return fmt.Errorf("insert post tag: %w", err)
		}
	}
	return nil
}
