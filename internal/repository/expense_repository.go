package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wedding-planner/internal/model"
)

// ExpenseRepository persists the ordered expense list.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// List returns expenses most-recent-first, the display contract of the
// expense list.
func (r *ExpenseRepository) List(ctx context.Context) ([]model.Expense, error) {
	var out []model.Expense
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// Add persists a new record, assigning its identifier and creation time.
func (r *ExpenseRepository) Add(ctx context.Context, e model.Expense, createdAt time.Time) (model.Expense, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = createdAt
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

// Delete removes the record with the given id. Unknown ids are a no-op,
// not a failure.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Expense{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete expense %q: %w", id, err)
	}
	return nil
}
