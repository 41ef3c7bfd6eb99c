package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/fjod/dhnaturally/internal/storage"
)

func (r *Repository) getUserBy(ctx context.Context, column, value string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE `+column+` = $1`, value,
	).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	return &u, nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUserBy(ctx, "username", username)
}

func (r *Repository) CreateUser(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	u := &domain.User{ID: newID(), Username: user.Username, Password: user.Password}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password) VALUES ($1, $2, $3)`,
		u.ID, u.Username, u.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repository) CreateContactSubmission(ctx context.Context, submission domain.NewContactSubmission) (*domain.ContactSubmission, error) {
	c := submission.Build(newID(), r.now())

	query := `INSERT INTO contact_submissions (id, first_name, last_name, email, phone, subject, message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.Subject,
		c.Message,
		c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert contact submission: %w", err)
	}
	return c, nil
}
