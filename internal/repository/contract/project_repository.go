package contract

import (
	"context"

	"sitebuilder-be/internal/entity"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindAll(ctx context.Context) ([]*entity.Project, error)
}
