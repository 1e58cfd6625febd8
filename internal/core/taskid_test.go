package core

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateTaskID_IsUUID(t *testing.T) {
	id := NewTaskIDGenerator().GenerateTaskID()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("expected a UUID, got %q: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected a version 4 UUID, got version %d", parsed.Version())
	}
	if len(id) < minIDPrefixLen {
		t.Errorf("id %q shorter than the minimum prefix length", id)
	}
}

func TestGenerateTaskID_Unique(t *testing.T) {
	gen := NewTaskIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.GenerateTaskID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
