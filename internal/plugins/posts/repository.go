package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kunospw/b-log/internal/apperror"
)

// PostRepository defines the data access contract for posts. One repository
// per aggregate root; all SQL lives here.
type PostRepository interface {
	// List returns the entire post collection ordered by created_at
	// descending (newest first), with id as a deterministic tie-break.
	List(ctx context.Context) ([]Post, error)

	// FindByID retrieves a single post by its ID.
	FindByID(ctx context.Context, id string) (*Post, error)

	// Create inserts a new post. The store assigns both timestamps.
	Create(ctx context.Context, post *Post) error

	// Update saves a post's mutable fields and refreshes updated_at.
	// The id and created_at columns are never touched.
	Update(ctx context.Context, post *Post) error

	// Delete removes a post by ID. Deleting an already-absent post is not
	// an error: the end state is the same.
	Delete(ctx context.Context, id string) error
}

// postRepository is the MariaDB implementation of PostRepository.
type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new MariaDB-backed post repository.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// postColumns is the SELECT column list for post queries.
const postColumns = `id, title, content, excerpt, image_url, tags, created_at, updated_at`

// List returns all posts, newest first.
func (r *postRepository) List(ctx context.Context) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p := Post{}
		var tagsRaw []byte

		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.Excerpt,
			&p.ImageURL, &tagsRaw, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}

		if len(tagsRaw) > 0 {
			if err := json.Unmarshal(tagsRaw, &p.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling post tags: %w", err)
			}
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by its ID.
func (r *postRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

	p := &Post{}
	var tagsRaw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.Excerpt,
		&p.ImageURL, &tagsRaw, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshaling post tags: %w", err)
		}
	}
	return p, nil
}

// Create inserts a new post. The image_url column is written explicitly --
// NULL is the stored "no image" marker, the field is never omitted.
func (r *postRepository) Create(ctx context.Context, post *Post) error {
	tagsJSON, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("marshaling post tags: %w", err)
	}

	query := `INSERT INTO posts (id, title, content, excerpt, image_url, tags)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.Excerpt, post.ImageURL, tagsJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}

// Update saves the post's mutable fields and refreshes updated_at.
func (r *postRepository) Update(ctx context.Context, post *Post) error {
	tagsJSON, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("marshaling post tags: %w", err)
	}

	query := `UPDATE posts
		SET title = ?, content = ?, excerpt = ?, image_url = ?, tags = ?,
		    updated_at = CURRENT_TIMESTAMP(6)
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		post.Title, post.Content, post.Excerpt, post.ImageURL, tagsJSON, post.ID,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperror.NewNotFound("post not found")
	}
	return nil
}

// Delete removes a post. Zero rows affected is treated as success: the
// post is gone either way.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}
