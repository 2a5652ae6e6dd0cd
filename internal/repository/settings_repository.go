package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedding-planner/internal/model"
)

// SettingsRepository is the key-value store standing in for the browser
// storage the original app used. One writer, last write wins.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored value for key; ok is false when the key is absent.
func (r *SettingsRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var s model.Setting
	err = r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	switch {
	case err == nil:
		return s.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	s := model.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Setting{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}
