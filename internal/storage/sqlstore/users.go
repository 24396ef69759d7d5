package sqlstore

import (
	"context"
	"database/sql"

	"github.com/mmynk/tripledger/internal/models"
)

// CreateUser stores a new user.
func (c *conn) CreateUser(ctx context.Context, user *models.User) error {
	_, err := c.q.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return classify(err, "create user")
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
// Returns nil, nil if the user is not found.
func (c *conn) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.getUser(ctx, "email", email)
}

// GetUserByID retrieves a user by ID.
// Returns nil, nil if the user is not found.
func (c *conn) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return c.getUser(ctx, "id", id)
}

func (c *conn) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := c.q.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users WHERE `+column+` = ?`,
		value,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "get user by %s", column)
	}
	return user, nil
}
