package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/validation"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic. Every operation is scoped to
// the calling user.
type TaskService struct {
	taskRepo  repository.TaskRepository
	generator TaskGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when no AI
// backend is configured.
func NewTaskService(taskRepo repository.TaskRepository, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		generator: generator,
		now:       time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID   string
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Category *string
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Category    string
	DueDate     *string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	Category     *string
	DueDate      *string
	ClearDueDate bool
}

// TaskStats counts the user's tasks per status
type TaskStats struct {
	Total      int64
	NotStarted int64
	InProgress int64
	Completed  int64
}

// ListTasks returns the user's tasks, newest first
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil {
		if err := validation.Status(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		if err := validation.Priority(*input.Priority); err != nil {
			return nil, err
		}
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		Priority: input.Priority,
		Category: input.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns one of the user's tasks
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if !isTaskID(taskID) {
		return nil, ErrTaskNotFound
	}

	task, err := s.taskRepo.FindOwned(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates the input, applies defaults and stores the task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title, err := validation.Title(input.Title)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusNotStarted
	}
	if err := validation.Status(input.Status); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if err := validation.Priority(input.Priority); err != nil {
		return nil, err
	}

	if input.DueDate != nil {
		if err := validation.DueDate(*input.DueDate); err != nil {
			return nil, err
		}
	}

	now := s.now()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to one of the user's tasks
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	changes := repository.TaskChanges{
		Description:  input.Description,
		Category:     input.Category,
		ClearDueDate: input.ClearDueDate,
	}

	if input.Title != nil {
		title, err := validation.Title(*input.Title)
		if err != nil {
			return nil, err
		}
		changes.Title = &title
	}
	if input.Status != nil {
		if err := validation.Status(*input.Status); err != nil {
			return nil, err
		}
		changes.Status = input.Status
	}
	if input.Priority != nil {
		if err := validation.Priority(*input.Priority); err != nil {
			return nil, err
		}
		changes.Priority = input.Priority
	}
	if input.DueDate != nil && !input.ClearDueDate {
		if err := validation.DueDate(*input.DueDate); err != nil {
			return nil, err
		}
		changes.DueDate = input.DueDate
	}

	if !isTaskID(taskID) {
		return nil, ErrTaskNotFound
	}

	changes.UpdatedAt = s.now()
	task, err := s.taskRepo.UpdateOwned(ctx, userID, taskID, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently deletes one of the user's tasks
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if !isTaskID(taskID) {
		return ErrTaskNotFound
	}

	if err := s.taskRepo.DeleteOwned(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Stats counts the user's tasks per status
func (s *TaskService) Stats(ctx context.Context, userID string) (*TaskStats, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	stats := &TaskStats{
		NotStarted: counts[models.TaskStatusNotStarted],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	stats.Total = stats.NotStarted + stats.InProgress + stats.Completed

	return stats, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text string
}

// GenerateTasks uses AI to suggest tasks from text. Suggestions are cleaned
// up to satisfy the task rules but are not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	today := s.now().Format(time.DateOnly)
	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		title, err := validation.Title(aiTask.Title)
		if err != nil {
			continue
		}
		aiTask.Title = title

		if validation.Priority(aiTask.Priority) != nil {
			aiTask.Priority = models.TaskPriorityMedium
		}

		if aiTask.DueDate != nil {
			// YYYY-MM-DD compares chronologically as a string
			if validation.DueDate(*aiTask.DueDate) != nil || *aiTask.DueDate < today {
				aiTask.DueDate = nil
			}
		}

		validTasks = append(validTasks, aiTask)
		if len(validTasks) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func isTaskID(id string) bool {
	return uuid.Validate(id) == nil
}
