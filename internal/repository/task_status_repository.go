package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedding-planner/internal/model"
)

// StatusPatch is a partial task-state update. Nil fields leave the stored
// value untouched.
type StatusPatch struct {
	Done *bool
	Note *string
}

// TaskStatusRepository persists per-task done flags and notes.
type TaskStatusRepository struct {
	db *gorm.DB
}

func NewTaskStatusRepository(db *gorm.DB) *TaskStatusRepository {
	return &TaskStatusRepository{db: db}
}

// Get loads the full status map keyed by template key.
func (r *TaskStatusRepository) Get(ctx context.Context) (map[string]model.TaskStatus, error) {
	var rows []model.TaskStatus
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load task status: %w", err)
	}
	out := make(map[string]model.TaskStatus, len(rows))
	for _, row := range rows {
		out[row.Key] = row
	}
	return out, nil
}

// Set merges patch into the entry for key, creating it when absent.
func (r *TaskStatusRepository) Set(ctx context.Context, key string, patch StatusPatch) (model.TaskStatus, error) {
	db := r.db.WithContext(ctx)

	var row model.TaskStatus
	err := db.First(&row, "key = ?", key).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TaskStatus{}, fmt.Errorf("load task status %q: %w", key, err)
	}
	if !found {
		row = model.TaskStatus{Key: key}
	}

	if patch.Done != nil {
		row.Done = *patch.Done
	}
	if patch.Note != nil {
		row.Note = *patch.Note
	}

	if found {
		err = db.Save(&row).Error
	} else {
		err = db.Create(&row).Error
	}
	if err != nil {
		return model.TaskStatus{}, fmt.Errorf("save task status %q: %w", key, err)
	}
	return row, nil
}

// Clear drops all task status rows. Used when a new plan is started.
func (r *TaskStatusRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.TaskStatus{}).Error; err != nil {
		return fmt.Errorf("clear task status: %w", err)
	}
	return nil
}

// MigrateLegacy upgrades the deprecated boolean-only status blob into
// structured rows. It only acts when the legacy settings key is present and
// deletes that key afterwards, so running it again is a no-op.
func (r *TaskStatusRepository) MigrateLegacy(ctx context.Context, settings *SettingsRepository) error {
	raw, ok, err := settings.Get(ctx, model.SettingLegacyStatus)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var legacy map[string]bool
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return fmt.Errorf("parse legacy task status: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, done := range legacy {
			row := model.TaskStatus{Key: key, Done: done}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"done", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("migrate task status %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return settings.Delete(ctx, model.SettingLegacyStatus)
}
