package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// subject returns the authenticated subject set by the gate. An empty
// result means the handler was reached without it, which is a wiring
// error; the request is rejected as unauthorized either way.
func (h baseHandler) subject(ctx *fasthttp.RequestCtx) string {
	subject, _ := ctx.UserValue(middleware.SubjectKey).(string)
	if subject == "" {
		h.respondMessage(ctx, http.StatusUnauthorized, "missing or malformed credential")
	}
	return subject
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	h.respondJSON(ctx, status, transport.Message{Message: message})
}

// respondError maps a domain error onto its status class. Anything
// outside the taxonomy is a store or downstream failure and surfaces as
// a bare 500 so storage detail never leaks.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		h.respondMessage(ctx, http.StatusUnauthorized, err.Error())
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		h.respondMessage(ctx, http.StatusBadRequest, err.Error())
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		h.respondMessage(ctx, http.StatusNotFound, err.Error())
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		h.respondMessage(ctx, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", zap.ByteString("path", ctx.Path()), zap.Error(err))
		h.respondMessage(ctx, http.StatusInternalServerError, "Internal server error")
	}
}
