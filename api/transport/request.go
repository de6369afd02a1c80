package transport

// TaskCreateRequest is the POST /api/tasks body. PriorityLevel and
// Status fall back to their defaults when omitted.
type TaskCreateRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriorityLevel string `json:"priorityLevel"`
	Status        string `json:"status"`
}

// TaskUpdateRequest is the PUT /api/tasks/{id} body. Pointer fields
// distinguish an omitted field from one explicitly set to its zero
// value, so clearing the description is a real update.
type TaskUpdateRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PriorityLevel *string `json:"priorityLevel"`
	Status        *string `json:"status"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type PriorityUpdateRequest struct {
	PriorityLevel string `json:"priorityLevel"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
