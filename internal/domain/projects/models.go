package projects

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on_hold"

	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

var Statuses = []string{StatusActive, StatusCompleted, StatusOnHold}

var TaskStatuses = []string{TaskTodo, TaskInProgress, TaskDone}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AssignedTo  []string  `json:"assignedTo"`
	Tasks       []Task    `json:"tasks"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProjectInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=4000"`
	Status      string   `json:"status"`
	AssignedTo  []string `json:"assignedTo" validate:"dive,uuid"`
	Tasks       []Task   `json:"tasks" validate:"dive"`
}

// ProjectUpdate is a partial update; nil fields are left alone.
type ProjectUpdate struct {
	Name        *string   `json:"name" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=4000"`
	Status      *string   `json:"status"`
	AssignedTo  *[]string `json:"assignedTo" validate:"omitempty,dive,uuid"`
	Tasks       *[]Task   `json:"tasks" validate:"omitempty,dive"`
}

type Actor struct {
	UserID string
	Role   string
}
