package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
)

// GetOrCreateUser returns the user with the given name, creating it on
// first use.
func (s *SQLiteStorage) GetOrCreateUser(ctx context.Context, name string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getOrCreateUserTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getOrCreateUserTx(ctx context.Context, q queryable, name string) (*model.User, error) {
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	user, err := s.getUserByNameTx(ctx, q, name)
	if err == nil {
		return user, nil
	}
	if err != common.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO users (name, created_at) VALUES (?, ?)
	`, name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", mapSQLiteErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	slog.Info("created user", "name", name, "id", id)
	return &model.User{ID: id, Name: name, CreatedAt: now}, nil
}

// GetUserByName returns the user with the given name.
func (s *SQLiteStorage) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getUserByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getUserByNameTx(ctx context.Context, q queryable, name string) (*model.User, error) {
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var user model.User
	err := q.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM users WHERE name = ?
	`, name).Scan(&user.ID, &user.Name, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", mapSQLiteErr(err))
	}

	return &user, nil
}
