package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ayush/snapfeed/internal/models"
)

func (s *PostgresStore) CreatePost(ctx context.Context, title, content, imageKey, authorID string) (*models.Post, error) {
	var p models.Post
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (title, content, image_key, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, content, image_key, author_id, created_at`,
		title, content, imageKey, authorID,
	).Scan(&p.ID, &p.Title, &p.Content, &p.ImageKey, &p.AuthorID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, content, image_key, author_id, created_at
		 FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.ImageKey, &p.AuthorID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountPosts(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// ListPosts returns a page of posts, newest first, each annotated with its
// author's name and email.
func (s *PostgresStore) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.title, p.content, p.image_key, p.author_id, p.created_at,
		        u.name, u.email
		 FROM posts p
		 JOIN users u ON p.author_id = u.id
		 ORDER BY p.created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		var a models.Author
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageKey, &p.AuthorID, &p.CreatedAt,
			&a.Name, &a.Email); err != nil {
			return nil, err
		}
		p.Author = &a
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPostsByAuthor returns all posts owned by the given user, newest first.
func (s *PostgresStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, content, image_key, author_id, created_at
		 FROM posts WHERE author_id = $1
		 ORDER BY created_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageKey, &p.AuthorID, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
