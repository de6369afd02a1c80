package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

// TaskService is the slice of the task use case the handler consumes.
type TaskService interface {
	Create(ctx context.Context, subject string, in taskUC.CreateInput) (*domain.Task, error)
	List(ctx context.Context, subject string, page, limit int) (*taskUC.ListResult, error)
	Get(ctx context.Context, subject, id string) (*domain.Task, error)
	Update(ctx context.Context, subject, id string, in taskUC.UpdateInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, subject, id, status string) (*domain.Task, error)
	UpdatePriority(ctx context.Context, subject, id, priorityLevel string) (*domain.Task, error)
	Delete(ctx context.Context, subject, id string) error
}

type TaskHandler struct {
	baseHandler
	svc TaskService
}

func NewTaskHandler(svc TaskService, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondMessage(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.svc.Create(stdCtx, subject, taskUC.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		PriorityLevel: req.PriorityLevel,
		Status:        req.Status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// List handles GET /api/tasks?page&limit. Non-numeric or non-positive
// page and limit values coerce to their defaults in the service.
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	page := parseInt(string(ctx.QueryArgs().Peek("page")))
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.svc.List(stdCtx, subject, page, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TaskListResponse{
		Meta: transport.PageMeta{
			Page:        result.Meta.Page,
			Limit:       result.Meta.Limit,
			Total:       result.Meta.Total,
			TotalPages:  result.Meta.TotalPages,
			HasNextPage: result.Meta.HasNextPage,
			HasPrevPage: result.Meta.HasPrevPage,
		},
		Data: result.Tasks,
	})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.svc.Get(stdCtx, subject, pathID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}: any subset of the four mutable
// fields, at least one required.
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondMessage(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.svc.Update(stdCtx, subject, pathID(ctx), taskUC.UpdateInput{
		Name:          req.Name,
		Description:   req.Description,
		PriorityLevel: req.PriorityLevel,
		Status:        req.Status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// UpdateStatus handles PATCH /api/tasks/status/{id}.
func (h *TaskHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	var req transport.StatusUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondMessage(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.svc.UpdateStatus(stdCtx, subject, pathID(ctx), req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// UpdatePriority handles PATCH /api/tasks/priority/{id}.
func (h *TaskHandler) UpdatePriority(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	var req transport.PriorityUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondMessage(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.svc.UpdatePriority(stdCtx, subject, pathID(ctx), req.PriorityLevel)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// Delete handles DELETE /api/tasks/{id}. Deletion is permanent.
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	subject := h.subject(ctx)
	if subject == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.svc.Delete(stdCtx, subject, pathID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Task deleted successfully")
}

func pathID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
