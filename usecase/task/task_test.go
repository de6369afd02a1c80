package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskdeck/backend/domain"
	appLogger "github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository"
)

const (
	testSubject = "64a1f0c2e4b0a1b2c3d4e5f6"
	testTaskID  = "64a1f0c2e4b0a1b2c3d4e5f7"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id, owner string) (*domain.Task, error) {
	args := m.Called(ctx, id, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Count(ctx context.Context, owner string) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id, owner string, patch repository.TaskPatch) (*domain.Task, error) {
	args := m.Called(ctx, id, owner, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id, owner string) error {
	args := m.Called(ctx, id, owner)
	return args.Error(0)
}

func newService(t *testing.T) (*Service, *MockTaskRepository) {
	t.Helper()
	repo := new(MockTaskRepository)
	return New(repo, nil), repo
}

func TestServiceCreate(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateInput
		wantErr   bool
		checkTask func(*testing.T, *domain.Task)
	}{
		{
			name:  "defaults applied when optional fields omitted",
			input: CreateInput{Name: "Buy milk"},
			checkTask: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, testSubject, task.Owner)
				assert.Equal(t, domain.PriorityMedium, task.PriorityLevel)
				assert.Equal(t, domain.StatusPending, task.Status)
			},
		},
		{
			name:  "explicit enum values kept",
			input: CreateInput{Name: "Ship release", PriorityLevel: "High", Status: "In Progress"},
			checkTask: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, domain.PriorityHigh, task.PriorityLevel)
				assert.Equal(t, domain.StatusInProgress, task.Status)
			},
		},
		{
			name:    "empty name rejected",
			input:   CreateInput{Name: ""},
			wantErr: true,
		},
		{
			name:    "unknown priority rejected",
			input:   CreateInput{Name: "x", PriorityLevel: "Urgent"},
			wantErr: true,
		},
		{
			name:    "unknown status rejected",
			input:   CreateInput{Name: "x", Status: "Cancelled"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			if !tt.wantErr {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).
					Return(&domain.Task{}, nil).
					Run(func(args mock.Arguments) {
						tt.checkTask(t, args.Get(1).(*domain.Task))
					})
			}

			_, err := svc.Create(context.Background(), testSubject, tt.input)
			if tt.wantErr {
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
				repo.AssertNotCalled(t, "Create")
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestServiceListCoercion(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults for zero values", 0, 0, 1, 10, 0},
		{"negative values coerced", -3, -1, 1, 10, 0},
		{"valid values kept", 3, 5, 3, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			repo.On("List", mock.Anything, repository.TaskFilter{
				Owner:  testSubject,
				Limit:  tt.wantLimit,
				Offset: tt.wantOffset,
			}).Return([]domain.Task{}, nil)
			repo.On("Count", mock.Anything, testSubject).Return(0, nil)

			result, err := svc.List(context.Background(), testSubject, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, result.Meta.Page)
			assert.Equal(t, tt.wantLimit, result.Meta.Limit)
			repo.AssertExpectations(t)
		})
	}
}

func TestServiceListMeta(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		limit       int
		total       int
		wantPages   int
		wantHasNext bool
		wantHasPrev bool
	}{
		{"empty set", 1, 10, 0, 0, false, false},
		{"total equals limit", 1, 10, 10, 1, false, false},
		{"total one past limit", 1, 10, 11, 2, true, false},
		{"middle page", 2, 5, 12, 3, true, true},
		{"last page", 3, 5, 12, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			repo.On("List", mock.Anything, mock.AnythingOfType("repository.TaskFilter")).
				Return([]domain.Task{}, nil)
			repo.On("Count", mock.Anything, testSubject).Return(tt.total, nil)

			result, err := svc.List(context.Background(), testSubject, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.total, result.Meta.Total)
			assert.Equal(t, tt.wantPages, result.Meta.TotalPages)
			assert.Equal(t, tt.wantHasNext, result.Meta.HasNextPage)
			assert.Equal(t, tt.wantHasPrev, result.Meta.HasPrevPage)
		})
	}
}

func TestServiceGet(t *testing.T) {
	t.Run("malformed id rejected before the store", func(t *testing.T) {
		svc, repo := newService(t)
		_, err := svc.Get(context.Background(), testSubject, "xyz")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("not owned surfaces as not found", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("GetByID", mock.Anything, testTaskID, testSubject).
			Return(nil, domain.ErrTaskNotFound)

		_, err := svc.Get(context.Background(), testSubject, testTaskID)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})

	t.Run("owned task returned", func(t *testing.T) {
		svc, repo := newService(t)
		want := &domain.Task{ID: testTaskID, Owner: testSubject, Name: "mine"}
		repo.On("GetByID", mock.Anything, testTaskID, testSubject).Return(want, nil)

		got, err := svc.Get(context.Background(), testSubject, testTaskID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func strptr(s string) *string { return &s }

func TestServiceUpdate(t *testing.T) {
	t.Run("zero fields rejected", func(t *testing.T) {
		svc, repo := newService(t)
		_, err := svc.Update(context.Background(), testSubject, testTaskID, UpdateInput{})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("empty name rejected", func(t *testing.T) {
		svc, repo := newService(t)
		_, err := svc.Update(context.Background(), testSubject, testTaskID, UpdateInput{Name: strptr("")})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("invalid enum rejected", func(t *testing.T) {
		svc, repo := newService(t)
		_, err := svc.Update(context.Background(), testSubject, testTaskID, UpdateInput{Status: strptr("Paused")})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("explicitly cleared description is a real update", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("Update", mock.Anything, testTaskID, testSubject, mock.MatchedBy(func(p repository.TaskPatch) bool {
			return p.Description != nil && *p.Description == "" &&
				p.Name == nil && p.Status == nil && p.PriorityLevel == nil
		})).Return(&domain.Task{ID: testTaskID}, nil)

		_, err := svc.Update(context.Background(), testSubject, testTaskID, UpdateInput{Description: strptr("")})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("patch carries only supplied fields", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("Update", mock.Anything, testTaskID, testSubject, mock.MatchedBy(func(p repository.TaskPatch) bool {
			return p.Name != nil && *p.Name == "renamed" &&
				p.Status != nil && *p.Status == domain.StatusDone &&
				p.Description == nil && p.PriorityLevel == nil
		})).Return(&domain.Task{ID: testTaskID}, nil)

		_, err := svc.Update(context.Background(), testSubject, testTaskID, UpdateInput{
			Name:   strptr("renamed"),
			Status: strptr("Done"),
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestServiceStatusAndPriorityUpdates(t *testing.T) {
	t.Run("missing status rejected", func(t *testing.T) {
		svc, repo := newService(t)
		_, err := svc.UpdateStatus(context.Background(), testSubject, testTaskID, "")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("status update touches only status", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("Update", mock.Anything, testTaskID, testSubject, mock.MatchedBy(func(p repository.TaskPatch) bool {
			return p.Status != nil && *p.Status == domain.StatusDone &&
				p.Name == nil && p.Description == nil && p.PriorityLevel == nil
		})).Return(&domain.Task{ID: testTaskID, Status: domain.StatusDone, UpdatedAt: time.Now()}, nil)

		updated, err := svc.UpdateStatus(context.Background(), testSubject, testTaskID, "Done")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDone, updated.Status)
	})

	t.Run("moving to Done records the completion with the request id", func(t *testing.T) {
		core, recorded := observer.New(zap.InfoLevel)
		repo := new(MockTaskRepository)
		svc := New(repo, zap.New(core))

		repo.On("Update", mock.Anything, testTaskID, testSubject, mock.Anything).
			Return(&domain.Task{ID: testTaskID, Status: domain.StatusDone}, nil)

		ctx := appLogger.ContextWithRequestID(context.Background(), "req-7")
		_, err := svc.UpdateStatus(ctx, testSubject, testTaskID, "Done")
		require.NoError(t, err)

		entries := recorded.FilterMessage("task completed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, testTaskID, entries[0].ContextMap()["task_id"])
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	})

	t.Run("moving to In Progress logs no completion", func(t *testing.T) {
		core, recorded := observer.New(zap.InfoLevel)
		repo := new(MockTaskRepository)
		svc := New(repo, zap.New(core))

		repo.On("Update", mock.Anything, testTaskID, testSubject, mock.Anything).
			Return(&domain.Task{ID: testTaskID, Status: domain.StatusInProgress}, nil)

		_, err := svc.UpdateStatus(context.Background(), testSubject, testTaskID, "In Progress")
		require.NoError(t, err)
		assert.Zero(t, recorded.FilterMessage("task completed").Len())
	})

	t.Run("missing priority rejected", func(t *testing.T) {
		svc, repo := newService(t)
		_, err := svc.UpdatePriority(context.Background(), testSubject, testTaskID, "")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("priority update touches only priority", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("Update", mock.Anything, testTaskID, testSubject, mock.MatchedBy(func(p repository.TaskPatch) bool {
			return p.PriorityLevel != nil && *p.PriorityLevel == domain.PriorityHigh &&
				p.Name == nil && p.Description == nil && p.Status == nil
		})).Return(&domain.Task{ID: testTaskID, PriorityLevel: domain.PriorityHigh}, nil)

		updated, err := svc.UpdatePriority(context.Background(), testSubject, testTaskID, "High")
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, updated.PriorityLevel)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("malformed id rejected before the store", func(t *testing.T) {
		svc, repo := newService(t)
		err := svc.Delete(context.Background(), testSubject, "not-hex")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("delete passes through not found", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("Delete", mock.Anything, testTaskID, testSubject).Return(domain.ErrTaskNotFound)

		err := svc.Delete(context.Background(), testSubject, testTaskID)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})
}
