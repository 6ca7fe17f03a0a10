package store

import (
	"context"

	domainerrors "blog/internal/errors"
	"blog/internal/models"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, username, password_hash, first_name, last_name, email, created_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user and returns it with the assigned ID.
// Returns an already-exists error if the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, firstName, lastName, email string) (*models.User, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, first_name, last_name, email)
		VALUES (?, ?, ?, ?, ?)`,
		username, passwordHash, firstName, lastName, email)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return nil, domainerrors.AlreadyExists("username already exists")
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, int(id))
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}
