package api

import (
	"time"

	"github.com/google/uuid"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	pageHandler        pageHandler
	projectFormHandler projectFormHandler
	contactHandler     contactHandler
	authHandler        authHandler
	projectHandler     projectHandler
	technologyHandler  technologyHandler
	categoryHandler    categoryHandler
	healthHandler      healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectResponse is the API representation of a project
type ProjectResponse struct {
	URL          string    `json:"url"`
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Link         *string   `json:"link"`
	Image        *string   `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Category     *string   `json:"category"`
	Technologies []string  `json:"technologies"`
}

// NamedResponse is the API representation of a technology or category
type NamedResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TokenResponse is returned by the token endpoint
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
