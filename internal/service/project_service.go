package service

import (
	"context"
	"encoding/json"
	"time"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/dto"
	"sitebuilder-be/internal/entity"
	"sitebuilder-be/internal/pkg/logger"
	"sitebuilder-be/internal/repository/contract"
	"sitebuilder-be/pkg/events"
	pktNats "sitebuilder-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IProjectService implements the document load/save boundary: a project row
// holds the serialized component tree; opening replaces a session's tree
// wholesale and resets its history.
type IProjectService interface {
	Save(ctx context.Context, req *dto.SaveProjectRequest) (*dto.SaveProjectResponse, error)
	Open(ctx context.Context, projectID uuid.UUID, req *dto.OpenProjectRequest) error
	GetAll(ctx context.Context) ([]*dto.ProjectSummaryResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ProjectDetailResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	repo    contract.ProjectRepository
	builder IBuilderService
	natsPub *pktNats.Publisher
	logger  logger.ILogger
}

func NewProjectService(
	repo contract.ProjectRepository,
	builder IBuilderService,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IProjectService {
	return &projectService{
		repo:    repo,
		builder: builder,
		natsPub: natsPub,
		logger:  log,
	}
}

func (s *projectService) Save(ctx context.Context, req *dto.SaveProjectRequest) (*dto.SaveProjectResponse, error) {
	sess, err := s.builder.Session(req.SessionId)
	if err != nil {
		return nil, err
	}

	componentsJSON, err := json.Marshal(sess.Components())
	if err != nil {
		return nil, err
	}

	// Re-save into the session's current project if it has one, otherwise
	// create a new row.
	var project *entity.Project
	if pid, parseErr := uuid.Parse(sess.ProjectID()); parseErr == nil {
		project, err = s.repo.FindOne(ctx, pid)
		if err != nil {
			return nil, err
		}
	}

	if project == nil {
		project = &entity.Project{
			Id:         uuid.New(),
			Name:       req.Name,
			Components: datatypes.JSON(componentsJSON),
			CreatedAt:  time.Now(),
		}
		if err := s.repo.Create(ctx, project); err != nil {
			return nil, err
		}
	} else {
		project.Name = req.Name
		project.Components = datatypes.JSON(componentsJSON)
		if err := s.repo.Update(ctx, project); err != nil {
			return nil, err
		}
	}

	sess.AdoptProject(project.Id.String(), project.Name)
	s.publishEvent(ctx, "PROJECT_SAVED", project)

	return &dto.SaveProjectResponse{Id: project.Id}, nil
}

func (s *projectService) Open(ctx context.Context, projectID uuid.UUID, req *dto.OpenProjectRequest) error {
	sess, err := s.builder.Session(req.SessionId)
	if err != nil {
		return err
	}

	project, err := s.repo.FindOne(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return gorm.ErrRecordNotFound
	}

	components, err := decodeComponents(project.Components)
	if err != nil {
		return err
	}

	return sess.LoadProject(components, project.Id.String(), project.Name)
}

func (s *projectService) GetAll(ctx context.Context) ([]*dto.ProjectSummaryResponse, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ProjectSummaryResponse, 0, len(projects))
	for _, p := range projects {
		components, err := decodeComponents(p.Components)
		if err != nil {
			s.logger.Warn("ProjectService", "Skipping project with corrupt payload", map[string]interface{}{
				"project_id": p.Id, "error": err.Error(),
			})
			continue
		}
		result = append(result, &dto.ProjectSummaryResponse{
			Id:             p.Id,
			Name:           p.Name,
			ComponentCount: document.CountNodes(components),
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		})
	}
	return result, nil
}

func (s *projectService) Show(ctx context.Context, id uuid.UUID) (*dto.ProjectDetailResponse, error) {
	project, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, gorm.ErrRecordNotFound
	}

	components, err := decodeComponents(project.Components)
	if err != nil {
		return nil, err
	}

	return &dto.ProjectDetailResponse{
		Id:         project.Id,
		Name:       project.Name,
		Components: components,
		CreatedAt:  project.CreatedAt,
		UpdatedAt:  project.UpdatedAt,
	}, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	project, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return gorm.ErrRecordNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, "PROJECT_DELETED", project)
	return nil
}

func (s *projectService) publishEvent(ctx context.Context, eventType string, project *entity.Project) {
	if s.natsPub == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"project_id":   project.Id.String(),
			"project_name": project.Name,
		},
		OccurredAt: time.Now(),
	}
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("ProjectService", "Failed to publish event", map[string]interface{}{
			"type": eventType, "error": err.Error(),
		})
	}
}

func decodeComponents(raw datatypes.JSON) ([]*document.Component, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var components []*document.Component
	if err := json.Unmarshal(raw, &components); err != nil {
		return nil, err
	}
	return components, nil
}
