package store

import (
	"context"
	"time"

	"blog/internal/models"
)

// CreateComment inserts a comment on a post.
func (s *Store) CreateComment(ctx context.Context, postID, userID int, body string, date time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, user_id, body, date) VALUES (?, ?, ?, ?)`,
		postID, userID, body, date)
	return err
}

// ListCommentsByPost returns a post's comments oldest first, with author
// usernames resolved.
func (s *Store) ListCommentsByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.body, c.date, u.username
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ? ORDER BY c.date ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Body, &c.Date, &c.Author); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountComments returns the number of comment rows for a post.
func (s *Store) CountComments(ctx context.Context, postID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}
