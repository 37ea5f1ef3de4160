package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
)

func TestToTaskDTO_JSONKeys(t *testing.T) {
	task := models.Task{
		ID:        "t1",
		UserID:    "u1",
		Title:     "Buy milk",
		Status:    models.TaskStatusNotStarted,
		Priority:  models.TaskPriorityMedium,
		CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ToTaskDTO(task))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))

	for _, key := range []string{"_id", "userId", "title", "description", "status", "priority", "category", "dueDate", "createdAt", "updatedAt"} {
		assert.Contains(t, body, key)
	}
	assert.Nil(t, body["dueDate"])
	assert.Equal(t, "", body["category"])
}

func TestToTaskDTOs_EmptyEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(ToTaskDTOs(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
