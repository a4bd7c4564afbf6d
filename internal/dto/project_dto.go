package dto

import (
	"time"

	"sitebuilder-be/internal/builder/document"

	"github.com/google/uuid"
)

type SaveProjectRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

type SaveProjectResponse struct {
	Id uuid.UUID `json:"id"`
}

type OpenProjectRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type ProjectSummaryResponse struct {
	Id             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	ComponentCount int        `json:"component_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

type ProjectDetailResponse struct {
	Id         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Components []*document.Component `json:"components"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  *time.Time            `json:"updated_at"`
}
