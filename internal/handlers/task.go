package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/validation"
)

type TaskHandler struct {
	taskService *services.TaskService
	logger      *log.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger *log.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks returns the current user's tasks, newest first.
// Can filter by status, priority and category
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{UserID: userID}
	if status, ok := c.GetQuery("status"); ok {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority, ok := c.GetQuery("priority"); ok {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if category, ok := c.GetQuery("category"); ok {
		input.Category = &category
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	body, err := bindObject(c, validation.TaskCreateSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:      userID,
		Title:       stringField(body, "title"),
		Description: stringField(body, "description"),
		Status:      models.TaskStatus(stringField(body, "status")),
		Priority:    models.TaskPriority(stringField(body, "priority")),
		Category:    stringField(body, "category"),
		DueDate:     optionalString(body, "dueDate"),
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates only the fields present in the request body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	// Parse raw JSON to detect which fields were sent
	body, err := bindObject(c, validation.TaskUpdateSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:       optionalString(body, "title"),
		Description: optionalString(body, "description"),
		Category:    optionalString(body, "category"),
		DueDate:     optionalString(body, "dueDate"),
	}
	if status := optionalString(body, "status"); status != nil {
		s := models.TaskStatus(*status)
		input.Status = &s
	}
	if priority := optionalString(body, "priority"); priority != nil {
		p := models.TaskPriority(*priority)
		input.Priority = &p
	}
	if dueDate, ok := body["dueDate"]; ok && dueDate == nil {
		// due_date was provided as null
		input.ClearDueDate = true
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// TaskStats returns per-status counts of the current user's tasks
func (h *TaskHandler) TaskStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.taskService.Stats(c.Request.Context(), userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskStatsDTO(*stats))
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	body, err := bindObject(c, validation.GenerateSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text: stringField(body, "text"),
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GeneratedTasksResponse{Tasks: tasks})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		apierrors.InvalidInput(c, err)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.Unprocessable(c, "No tasks could be generated from the text")
	default:
		logInternal(h.logger, c, err)
		apierrors.InternalError(c, "")
	}
}
