package core

import "github.com/google/uuid"

// TaskIDGenerator defines the interface for generating unique task IDs.
type TaskIDGenerator interface {
	GenerateTaskID() string
}

// uuidTaskIDGenerator issues random (version 4) UUIDs, so IDs are never
// reused even across deleted tasks or separate stores.
type uuidTaskIDGenerator struct{}

// NewTaskIDGenerator creates the default TaskIDGenerator.
func NewTaskIDGenerator() TaskIDGenerator {
	return uuidTaskIDGenerator{}
}

func (uuidTaskIDGenerator) GenerateTaskID() string {
	return uuid.NewString()
}
