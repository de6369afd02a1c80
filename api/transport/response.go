package transport

import "github.com/taskdeck/backend/domain"

// Message is the body of confirmations and every error response.
type Message struct {
	Message string `json:"message"`
}

// PageMeta mirrors the pagination metadata computed by the task service.
type PageMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// TaskListResponse is the GET /api/tasks body.
type TaskListResponse struct {
	Meta PageMeta      `json:"meta"`
	Data []domain.Task `json:"data"`
}

// LoginResponse is the POST /api/auth/login body.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
