package store

import "github.com/agent-foreman/foreman/internal/models"

// sampleTask builds a minimal valid task for round-trip and store tests.
func sampleTask(id string, version int) *models.Task {
	return &models.Task{
		ID:          id,
		Module:      models.Module(id),
		Priority:    1,
		Status:      models.StatusFailing,
		Description: "do the thing",
		Acceptance:  []string{"it does the thing", "it does not do the other thing"},
		Version:     version,
		TaskType:    models.TaskTypeCode,
		Origin:      models.OriginManual,
	}
}
