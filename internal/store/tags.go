package store

import (
	"context"
	"strings"

	"blog/internal/models"
)

// FindOrCreateTags resolves a set of labels to tag rows, creating rows for
// labels that do not exist yet. Duplicate and empty labels are dropped.
// The insert uses ON CONFLICT DO NOTHING so that two concurrent submissions
// of the same unseen label converge on a single row.
func (s *Store) FindOrCreateTags(ctx context.Context, labels []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(labels))
	unique := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		unique = append(unique, label)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	existing, err := s.tagsByLabels(ctx, unique)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.Label] = true
	}

	for _, label := range unique {
		if known[label] {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO tags (label) VALUES (?) ON CONFLICT(label) DO NOTHING`, label); err != nil {
			return nil, err
		}
	}

	return s.tagsByLabels(ctx, unique)
}

// tagsByLabels selects the tag rows whose label is in the given set.
func (s *Store) tagsByLabels(ctx context.Context, labels []string) ([]models.Tag, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(labels)), ",")
	args := make([]any, len(labels))
	for i, label := range labels {
		args[i] = label
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label FROM tags WHERE label IN (`+placeholders+`) ORDER BY label`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagByLabel retrieves a tag by its exact label.
func (s *Store) GetTagByLabel(ctx context.Context, label string) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, label FROM tags WHERE label = ?`, label)
	var t models.Tag
	if err := row.Scan(&t.ID, &t.Label); err != nil {
		return nil, notFound(err, "tag")
	}
	return &t, nil
}

// CountTags returns the number of tag rows.
func (s *Store) CountTags(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&n)
	return n, err
}
