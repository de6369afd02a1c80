package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// TaskFilter selects one page of a single owner's tasks.
type TaskFilter struct {
	Owner  string
	Limit  int
	Offset int
}

// TaskPatch carries the fields of a partial update. Nil means the field
// was omitted; a non-nil pointer to an empty string is an explicit clear.
type TaskPatch struct {
	Name          *string
	Description   *string
	PriorityLevel *domain.Priority
	Status        *domain.Status
}

// Empty reports whether the patch carries no field at all.
func (p TaskPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriorityLevel == nil && p.Status == nil
}

// TaskRepository is the owner-scoped contract the task service needs from
// the store. Implementations must filter by (id, owner) inside the query
// itself and must apply updates and deletes atomically.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	GetByID(ctx context.Context, id, owner string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, owner string) (int, error)
	Update(ctx context.Context, id, owner string, patch TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id, owner string) error
}
