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

// CreateCategory creates a new category. (name, type) is unique per
// user.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, userID int64, name string, categoryType model.TransactionType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.createCategoryTx(ctx, s.db, userID, name, categoryType)
}

func (s *SQLiteStorage) createCategoryTx(ctx context.Context, q queryable, userID int64, name string, categoryType model.TransactionType) (*model.Category, error) {
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateType(categoryType); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, type, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, name, string(categoryType), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", mapSQLiteErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "name", name, "type", categoryType, "id", id)
	return &model.Category{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		CreatedAt: now,
	}, nil
}

// GetCategory retrieves a category by id.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoryTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getCategoryTx(ctx context.Context, q queryable, id int64) (*model.Category, error) {
	var cat model.Category
	var catType string

	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE id = ?
	`, id).Scan(&cat.ID, &cat.UserID, &cat.Name, &catType, &cat.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", mapSQLiteErr(err))
	}

	cat.Type = model.TransactionType(catType)
	return &cat, nil
}

// GetCategoryByName retrieves a user's category by name and type.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, userID int64, name string, categoryType model.TransactionType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoryByNameTx(ctx, s.db, userID, name, categoryType)
}

func (s *SQLiteStorage) getCategoryByNameTx(ctx context.Context, q queryable, userID int64, name string, categoryType model.TransactionType) (*model.Category, error) {
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateType(categoryType); err != nil {
		return nil, err
	}

	var cat model.Category
	var catType string

	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = ? AND name = ? AND type = ?
	`, userID, name, string(categoryType)).Scan(&cat.ID, &cat.UserID, &cat.Name, &catType, &cat.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", mapSQLiteErr(err))
	}

	cat.Type = model.TransactionType(catType)
	return &cat, nil
}

// GetCategoriesByUser returns a user's categories, optionally filtered
// by type, ordered by type then name.
func (s *SQLiteStorage) GetCategoriesByUser(ctx context.Context, userID int64, categoryType *model.TransactionType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoriesByUserTx(ctx, s.db, userID, categoryType)
}

func (s *SQLiteStorage) getCategoriesByUserTx(ctx context.Context, q queryable, userID int64, categoryType *model.TransactionType) ([]model.Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = ?`
	args := []any{userID}

	if categoryType != nil {
		if err := validateType(*categoryType); err != nil {
			return nil, err
		}
		query += ` AND type = ?`
		args = append(args, string(*categoryType))
	}
	query += ` ORDER BY type, name`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", mapSQLiteErr(err))
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var catType string
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &catType, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Type = model.TransactionType(catType)
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

// RenameCategory changes a category's name. The type is immutable;
// transactions referencing the category keep a valid type agreement.
func (s *SQLiteStorage) RenameCategory(ctx context.Context, id int64, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.renameCategoryTx(ctx, s.db, id, name)
}

func (s *SQLiteStorage) renameCategoryTx(ctx context.Context, q queryable, id int64, name string) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE categories SET name = ? WHERE id = ?
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename category: %w", mapSQLiteErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Dependent transactions survive
// with their category reference nulled; wallet balances are untouched
// since the transactions still exist.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteCategoryTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteCategoryTx(ctx context.Context, q queryable, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", mapSQLiteErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	slog.Info("deleted category", "id", id)
	return nil
}
