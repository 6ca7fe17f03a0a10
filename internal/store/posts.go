package store

import (
	"context"
	"time"

	"blog/internal/models"
)

// postColumns is the ordered list of columns selected in post queries.
// Must match the scan order in scanPost.
const postColumns = `p.id, p.user_id, p.category_id, p.title, p.body, p.date, u.username`

func scanPost(scanner interface{ Scan(dest ...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.CategoryID,
		&p.Title,
		&p.Body,
		&p.Date,
		&p.Author,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost inserts a post and its tag associations in one transaction.
func (s *Store) CreatePost(ctx context.Context, userID, categoryID int, title, body string, date time.Time, tagIDs []int) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO posts (user_id, category_id, title, body, date) VALUES (?, ?, ?, ?, ?)`,
		userID, categoryID, title, body, date)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	postID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			postID, tagID); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	return int(postID), tx.Commit()
}

// GetPost retrieves a post by ID with its author, category, and tags resolved.
func (s *Store) GetPost(ctx context.Context, id int) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, notFound(err, "post")
	}

	crow := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id = ?`, p.CategoryID)
	if err := crow.Scan(&p.Category.ID, &p.Category.Name, &p.Category.Description); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.label FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ? ORDER BY t.label`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, err
		}
		p.Tags = append(p.Tags, t)
	}
	return p, rows.Err()
}

// ListLatestPosts returns up to n posts ordered by date descending.
func (s *Store) ListLatestPosts(ctx context.Context, n int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.user_id
		 ORDER BY p.date DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPostsByTag returns the posts carrying the given tag, newest first.
func (s *Store) ListPostsByTag(ctx context.Context, tagID int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts p
		 JOIN users u ON u.id = p.user_id
		 JOIN post_tags pt ON pt.post_id = p.id
		 WHERE pt.tag_id = ? ORDER BY p.date DESC`, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPostsByCategory returns the posts in the given category, newest first.
func (s *Store) ListPostsByCategory(ctx context.Context, categoryID int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.user_id
		 WHERE p.category_id = ? ORDER BY p.date DESC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPostsByUser returns the posts authored by the given user, newest first.
func (s *Store) ListPostsByUser(ctx context.Context, userID int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = ? ORDER BY p.date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
