package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Pending", "In Progress", "Done"} {
		status, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, Status(raw), status)
	}

	for _, raw := range []string{"", "pending", "DONE", "Archived", "in progress"} {
		_, ok := ParseStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestParsePriority(t *testing.T) {
	for _, raw := range []string{"Low", "Medium", "High"} {
		priority, ok := ParsePriority(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, Priority(raw), priority)
	}

	for _, raw := range []string{"", "low", "HIGH", "Urgent"} {
		_, ok := ParsePriority(raw)
		assert.False(t, ok, raw)
	}
}

func TestTaskIsDone(t *testing.T) {
	var nilTask *Task
	assert.False(t, nilTask.IsDone())
	assert.False(t, (&Task{Status: StatusPending}).IsDone())
	assert.True(t, (&Task{Status: StatusDone}).IsDone())
}
