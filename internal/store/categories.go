package store

import (
	"context"

	"blog/internal/models"
)

// FindOrCreateCategory resolves a category by exact name, creating it with
// an empty description if absent. ON CONFLICT DO NOTHING keeps the create
// idempotent under concurrent identical submissions.
func (s *Store) FindOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, '') ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return nil, err
	}
	return s.GetCategoryByName(ctx, name)
}

// GetCategoryByName retrieves a category by its exact name.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE name = ?`, name)
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return nil, notFound(err, "category")
	}
	return &c, nil
}

// CountCategories returns the number of category rows.
func (s *Store) CountCategories(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}
