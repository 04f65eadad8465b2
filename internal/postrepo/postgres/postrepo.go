package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/pkg/databases/postgres"
)

const (
	insertPostQuery = `INSERT INTO posts (title, content, author) VALUES ($1, $2, $3) RETURNING id`
	listPostsQuery  = `SELECT id, title, content, author FROM posts ORDER BY id DESC`
	selectPostQuery = `SELECT id, title, content, author FROM posts WHERE id = $1`
	updatePostQuery = `UPDATE posts SET title = $1, content = $2 WHERE id = $3 RETURNING id, title, content, author`
	deletePostQuery = `DELETE FROM posts WHERE id = $1`
)

// PostgresPostRepository implements PostRepository for PostgreSQL databases.
// Ids come from a BIGSERIAL sequence.
type PostgresPostRepository struct {
	dbClient *postgres.PostgresDatabaseClient
}

// NewPostgresPostRepository creates a new PostgreSQL post repository.
func NewPostgresPostRepository(dbClient *postgres.PostgresDatabaseClient) (*PostgresPostRepository, error) {
	if dbClient == nil || dbClient.DB() == nil {
		return nil, fmt.Errorf("dbClient must be connected")
	}
	return &PostgresPostRepository{dbClient: dbClient}, nil
}

func (r *PostgresPostRepository) Create(ctx context.Context, post models.Post) (*models.Post, error) {
	// lib/pq does not implement LastInsertId
	err := r.dbClient.DB().QueryRowContext(ctx, insertPostQuery, post.Title, post.Content, post.Author).Scan(&post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post into PostgreSQL: %w", err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.dbClient.DB().QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts from PostgreSQL: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.scanOne(r.dbClient.DB().QueryRowContext(ctx, selectPostQuery, id))
}

// Update overwrites title and content in a single statement.
func (r *PostgresPostRepository) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	return r.scanOne(r.dbClient.DB().QueryRowContext(ctx, updatePostQuery, post.Title, post.Content, post.ID))
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.dbClient.DB().ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete post from PostgreSQL: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// EnsureIndices is a no-op; the author index is created by migrations.
func (r *PostgresPostRepository) EnsureIndices(ctx context.Context) error {
	return nil
}

func (r *PostgresPostRepository) scanOne(row *sql.Row) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}

var _ interfaces.PostRepository = (*PostgresPostRepository)(nil)
