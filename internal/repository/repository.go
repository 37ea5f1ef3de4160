package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

var (
	// ErrNotFound is returned when no record matches, including records that
	// exist but belong to another user.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("repository: duplicate key")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUsername renames a user
	UpdateUsername(ctx context.Context, id, username string, updatedAt time.Time) error

	// UpdatePasswordHash replaces the stored password hash
	UpdatePasswordHash(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

// TaskRepository defines the interface for task data access.
// Every method except Create takes the owner's ID and applies it in the same
// statement that reads or mutates the task.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// List returns the owner's tasks, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// FindOwned finds a task by ID among the owner's tasks
	FindOwned(ctx context.Context, userID, taskID string) (*models.Task, error)

	// UpdateOwned applies changes to a task if, and only if, it belongs to the owner
	UpdateOwned(ctx context.Context, userID, taskID string, changes TaskChanges) (*models.Task, error)

	// DeleteOwned deletes a task if, and only if, it belongs to the owner
	DeleteOwned(ctx context.Context, userID, taskID string) error

	// CountByStatus counts the owner's tasks per status
	CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID   string
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Category *string
}

// TaskChanges holds the fields of a partial update. Nil pointers are left
// untouched; ClearDueDate wins over DueDate.
type TaskChanges struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	Category     *string
	DueDate      *string
	ClearDueDate bool
	UpdatedAt    time.Time
}

// fields returns the changed fields keyed by name, with a nil value for a
// cleared due date. Backends translate the keys to their own column names.
func (c TaskChanges) fields() map[string]any {
	fields := map[string]any{"updatedAt": c.UpdatedAt}

	if c.Title != nil {
		fields["title"] = *c.Title
	}
	if c.Description != nil {
		fields["description"] = *c.Description
	}
	if c.Status != nil {
		fields["status"] = *c.Status
	}
	if c.Priority != nil {
		fields["priority"] = *c.Priority
	}
	if c.Category != nil {
		fields["category"] = *c.Category
	}
	if c.ClearDueDate {
		fields["dueDate"] = nil
	} else if c.DueDate != nil {
		fields["dueDate"] = *c.DueDate
	}

	return fields
}
