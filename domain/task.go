package domain

import "time"

// Status is the lifecycle state of a task. Only the three enumerated
// values are accepted at the write boundary.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority validates a raw priority value.
func ParsePriority(raw string) (Priority, bool) {
	p := Priority(raw)
	return p, p.Valid()
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a user-owned task record. ID and Owner are immutable
// once assigned; every read and mutation is scoped by (id, owner).
type Task struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriorityLevel Priority  `json:"priorityLevel"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (t *Task) IsDone() bool {
	return t != nil && t.Status == StatusDone
}
