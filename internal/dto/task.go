package dto

import (
	"time"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"_id"`
	UserID      string              `json:"userId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
	DueDate     *string             `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskStatsDTO represents per-status task counts
type TaskStatsDTO struct {
	Total      int64 `json:"total"`
	NotStarted int64 `json:"not_started"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// GeneratedTasksResponse wraps AI suggestions
type GeneratedTasksResponse struct {
	Tasks []services.GeneratedTask `json:"tasks"`
}

// MessageResponse is returned by operations without a resource body
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a freshly issued session token
type TokenResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Category:    task.Category,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts tasks for a list response. The result is never nil so
// an empty list encodes as [].
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskStatsDTO converts service stats to TaskStatsDTO
func ToTaskStatsDTO(stats services.TaskStats) TaskStatsDTO {
	return TaskStatsDTO{
		Total:      stats.Total,
		NotStarted: stats.NotStarted,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
	}
}
