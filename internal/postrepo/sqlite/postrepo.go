package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/pkg/databases/sqlite"
)

const (
	insertPostQuery = `INSERT INTO posts (title, content, author) VALUES (?, ?, ?)`
	listPostsQuery  = `SELECT id, title, content, author FROM posts ORDER BY id DESC`
	selectPostQuery = `SELECT id, title, content, author FROM posts WHERE id = ?`
	updatePostQuery = `UPDATE posts SET title = ?, content = ? WHERE id = ? RETURNING id, title, content, author`
	deletePostQuery = `DELETE FROM posts WHERE id = ?`
)

// SQLitePostRepository implements PostRepository on top of an embedded SQLite database.
// Ids come from AUTOINCREMENT and are never reused after a delete.
type SQLitePostRepository struct {
	dbClient *sqlite.SQLiteDatabaseClient
}

func NewSQLitePostRepository(dbClient *sqlite.SQLiteDatabaseClient) (*SQLitePostRepository, error) {
	if dbClient == nil || dbClient.DB() == nil {
		return nil, fmt.Errorf("dbClient must be connected")
	}
	return &SQLitePostRepository{dbClient: dbClient}, nil
}

func (r *SQLitePostRepository) Create(ctx context.Context, post models.Post) (*models.Post, error) {
	res, err := r.dbClient.DB().ExecContext(ctx, insertPostQuery, post.Title, post.Content, post.Author)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post into SQLite: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read post id: %w", err)
	}
	post.ID = id
	return &post, nil
}

func (r *SQLitePostRepository) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.dbClient.DB().QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts from SQLite: %w", err)
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

func (r *SQLitePostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.scanOne(r.dbClient.DB().QueryRowContext(ctx, selectPostQuery, id))
}

// Update overwrites title and content in a single statement.
func (r *SQLitePostRepository) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	return r.scanOne(r.dbClient.DB().QueryRowContext(ctx, updatePostQuery, post.Title, post.Content, post.ID))
}

func (r *SQLitePostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.dbClient.DB().ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete post from SQLite: %w", err)
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

// EnsureIndices is a no-op; the schema comes from migrations.
func (r *SQLitePostRepository) EnsureIndices(ctx context.Context) error {
	return nil
}

func (r *SQLitePostRepository) scanOne(row *sql.Row) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}

var _ interfaces.PostRepository = (*SQLitePostRepository)(nil)
