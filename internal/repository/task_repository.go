package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// ownedTask is the ownership predicate shared by every read and mutation.
const ownedTask = "id = ? AND user_id = ?"

var taskColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"status":      "status",
	"priority":    "priority",
	"category":    "category",
	"dueDate":     "due_date",
	"updatedAt":   "updated_at",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateGormError(r.db.WithContext(ctx).Create(task).Error)
}

// List retrieves the owner's tasks with optional filters, newest first
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(filter.UserID), MatchingFilter(filter)).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindOwned finds a task by ID among the owner's tasks
func (r *GormTaskRepository) FindOwned(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where(ownedTask, taskID, userID).First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// UpdateOwned updates the task under the ownership predicate and reads the
// result back inside the same transaction
func (r *GormTaskRepository) UpdateOwned(ctx context.Context, userID, taskID string, changes TaskChanges) (*models.Task, error) {
	updates := make(map[string]any)
	for key, value := range changes.fields() {
		updates[taskColumns[key]] = value
	}

	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).Where(ownedTask, taskID, userID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.Where(ownedTask, taskID, userID).First(&task).Error
	})
	if err != nil {
		return nil, translateGormError(err)
	}

	return &task, nil
}

// DeleteOwned hard deletes the task under the ownership predicate
func (r *GormTaskRepository) DeleteOwned(ctx context.Context, userID, taskID string) error {
	result := r.db.WithContext(ctx).Where(ownedTask, taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts the owner's tasks per status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Scopes(OwnedBy(userID)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// translateGormError maps driver errors onto the repository sentinels
func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
