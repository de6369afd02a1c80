package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdeck/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New wires the REST surface. Every task route sits behind the
// authorization gate; auth issuance routes do not.
func New(handlers Handlers, authenticate, cors Middleware) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/auth/register", handlers.Auth.Register)
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/logout", authenticate(handlers.Auth.Logout))

	r.POST("/api/tasks", authenticate(handlers.Task.Create))
	r.GET("/api/tasks", authenticate(handlers.Task.List))
	r.GET("/api/tasks/{id}", authenticate(handlers.Task.Get))
	r.PUT("/api/tasks/{id}", authenticate(handlers.Task.Update))
	r.PATCH("/api/tasks/status/{id}", authenticate(handlers.Task.UpdateStatus))
	r.PATCH("/api/tasks/priority/{id}", authenticate(handlers.Task.UpdatePriority))
	r.DELETE("/api/tasks/{id}", authenticate(handlers.Task.Delete))

	return cors(r.Handler)
}
