package employees

import "time"

type Employee struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type NewEmployee struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=320"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	Role       string `json:"role"`
	Department string `json:"department" validate:"max=200"`
	Position   string `json:"position" validate:"max=200"`
}

type Filter struct {
	Role       string
	Department string
	Search     string
	Limit      int
	Offset     int
}
