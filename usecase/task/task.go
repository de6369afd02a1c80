package task

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taskdeck/backend/domain"
	appLogger "github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// CreateInput carries the create payload. PriorityLevel and Status are
// optional; empty means "use the default".
type CreateInput struct {
	Name          string
	Description   string
	PriorityLevel string
	Status        string
}

// UpdateInput carries a partial update. Nil pointers mean the field was
// omitted, so an explicitly cleared description is distinguishable from
// an absent one.
type UpdateInput struct {
	Name          *string
	Description   *string
	PriorityLevel *string
	Status        *string
}

// PageMeta is the pagination metadata returned with every list call.
type PageMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ListResult is one owner-scoped page of tasks plus its metadata.
type ListResult struct {
	Meta  PageMeta
	Tasks []domain.Task
}

// Service implements the task operations. Every operation takes the
// authenticated subject explicitly and scopes the store query by it.
type Service struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tasks:  tasks,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, subject string, in CreateInput) (*domain.Task, error) {
	if in.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Name is required")
	}

	priority := domain.PriorityMedium
	if in.PriorityLevel != "" {
		parsed, ok := domain.ParsePriority(in.PriorityLevel)
		if !ok {
			return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid priority level")
		}
		priority = parsed
	}

	status := domain.StatusPending
	if in.Status != "" {
		parsed, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid status")
		}
		status = parsed
	}

	task := &domain.Task{
		Owner:         subject,
		Name:          in.Name,
		Description:   in.Description,
		PriorityLevel: priority,
		Status:        status,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		appLogger.WithRequestID(ctx, s.logger).Error("task create failed",
			zap.String("owner", subject), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// List returns one page of the subject's tasks, newest created first.
// The count and page queries have no ordering dependency and run
// concurrently.
func (s *Service) List(ctx context.Context, subject string, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	filter := repository.TaskFilter{
		Owner:  subject,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	var (
		tasks []domain.Task
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.tasks.Count(gctx, subject)
		return err
	})
	if err := g.Wait(); err != nil {
		appLogger.WithRequestID(ctx, s.logger).Error("task list failed",
			zap.String("owner", subject), zap.Error(err))
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &ListResult{
		Meta: PageMeta{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
		Tasks: tasks,
	}, nil
}

func (s *Service) Get(ctx context.Context, subject, id string) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id, subject)
}

func (s *Service) Update(ctx context.Context, subject, id string, in UpdateInput) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	patch := repository.TaskPatch{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.Name != nil && *in.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Name must not be empty")
	}
	if in.PriorityLevel != nil {
		parsed, ok := domain.ParsePriority(*in.PriorityLevel)
		if !ok {
			return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid priority level")
		}
		patch.PriorityLevel = &parsed
	}
	if in.Status != nil {
		parsed, ok := domain.ParseStatus(*in.Status)
		if !ok {
			return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid status")
		}
		patch.Status = &parsed
	}
	if patch.Empty() {
		return nil, domain.NewError(domain.ErrCodeInvalid,
			"At least one field (name, description, priorityLevel, status) must be provided for update")
	}

	return s.tasks.Update(ctx, id, subject, patch)
}

func (s *Service) UpdateStatus(ctx context.Context, subject, id, status string) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if status == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Status is required")
	}
	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid status")
	}
	updated, err := s.tasks.Update(ctx, id, subject, repository.TaskPatch{Status: &parsed})
	if err != nil {
		return nil, err
	}
	if updated.IsDone() {
		appLogger.WithRequestID(ctx, s.logger).Info("task completed",
			zap.String("task_id", id), zap.String("owner", subject))
	}
	return updated, nil
}

func (s *Service) UpdatePriority(ctx context.Context, subject, id, priorityLevel string) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if priorityLevel == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Priority level is required")
	}
	parsed, ok := domain.ParsePriority(priorityLevel)
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid priority level")
	}
	return s.tasks.Update(ctx, id, subject, repository.TaskPatch{PriorityLevel: &parsed})
}

func (s *Service) Delete(ctx context.Context, subject, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id, subject)
}

// validateID rejects anything that is not a 24-character hex identifier
// before the store is touched.
func validateID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return domain.ErrInvalidTaskID
	}
	return nil
}
