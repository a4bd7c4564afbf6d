package service

import (
	"errors"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/builder/session"
	"sitebuilder-be/internal/dto"
	"sitebuilder-be/internal/pkg/logger"
	"sitebuilder-be/internal/repository/memory"
)

// ErrSessionNotFound is returned when a session id does not resolve to a
// live editing session (expired or never created).
var ErrSessionNotFound = errors.New("service: editing session not found")

type IBuilderService interface {
	CreateSession() *dto.CreateSessionResponse
	GetState(sessionID string) (*dto.SessionStateResponse, error)
	AddComponent(sessionID string, req *dto.AddComponentRequest) (*dto.ComponentResponse, error)
	UpdateComponent(sessionID, componentID string, req *dto.UpdateComponentRequest) error
	DeleteComponent(sessionID, componentID string) error
	DuplicateComponent(sessionID, componentID string) (*dto.ComponentResponse, error)
	MoveComponent(sessionID, componentID string, req *dto.MoveComponentRequest) error
	CopyComponent(sessionID, componentID string) error
	PasteComponent(sessionID string, req *dto.PasteComponentRequest) (*dto.ComponentResponse, error)
	SetSelection(sessionID string, req *dto.SelectionRequest) error
	Undo(sessionID string) (*dto.SessionStateResponse, error)
	Redo(sessionID string) (*dto.SessionStateResponse, error)
	LoadDocument(sessionID string, req *dto.LoadDocumentRequest) error
	ClearDocument(sessionID string) error

	// Session exposes the live session to sibling services (persistence,
	// generation). Controllers go through the DTO methods instead.
	Session(sessionID string) (*session.Session, error)
}

type builderService struct {
	sessions     *memory.SessionRepository
	notifier     session.Notifier
	historyLimit int
	logger       logger.ILogger
}

func NewBuilderService(
	sessions *memory.SessionRepository,
	notifier session.Notifier,
	historyLimit int,
	log logger.ILogger,
) IBuilderService {
	return &builderService{
		sessions:     sessions,
		notifier:     notifier,
		historyLimit: historyLimit,
		logger:       log,
	}
}

func (s *builderService) CreateSession() *dto.CreateSessionResponse {
	sess := session.New("", s.notifier, s.historyLimit)
	s.sessions.Save(sess)
	s.logger.Info("BuilderService", "Session created", map[string]interface{}{"session_id": sess.ID()})
	return &dto.CreateSessionResponse{SessionId: sess.ID()}
}

func (s *builderService) Session(sessionID string) (*session.Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *builderService) GetState(sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.stateOf(sess), nil
}

func (s *builderService) AddComponent(sessionID string, req *dto.AddComponentRequest) (*dto.ComponentResponse, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	added, err := sess.AddComponent(req.Component, req.ParentId, dto.IndexOrAppend(req.Index))
	if err != nil {
		return nil, err
	}
	return &dto.ComponentResponse{Component: added}, nil
}

func (s *builderService) UpdateComponent(sessionID, componentID string, req *dto.UpdateComponentRequest) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.UpdateComponent(componentID, document.Patch{
		Name:     req.Name,
		Props:    req.Props,
		Styles:   req.Styles,
		IsLocked: req.IsLocked,
		IsHidden: req.IsHidden,
	})
}

func (s *builderService) DeleteComponent(sessionID, componentID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.DeleteComponent(componentID)
}

func (s *builderService) DuplicateComponent(sessionID, componentID string) (*dto.ComponentResponse, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	clone, err := sess.DuplicateComponent(componentID)
	if err != nil {
		return nil, err
	}
	return &dto.ComponentResponse{Component: clone}, nil
}

func (s *builderService) MoveComponent(sessionID, componentID string, req *dto.MoveComponentRequest) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.MoveComponent(componentID, req.ParentId, dto.IndexOrAppend(req.Index))
}

func (s *builderService) CopyComponent(sessionID, componentID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.CopyComponent(componentID)
}

func (s *builderService) PasteComponent(sessionID string, req *dto.PasteComponentRequest) (*dto.ComponentResponse, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	pasted, err := sess.PasteComponent(req.ParentId, dto.IndexOrAppend(req.Index))
	if err != nil {
		return nil, err
	}
	return &dto.ComponentResponse{Component: pasted}, nil
}

func (s *builderService) SetSelection(sessionID string, req *dto.SelectionRequest) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	if req.SelectedId != nil {
		sess.Select(*req.SelectedId)
	}
	if req.HoveredId != nil {
		sess.SetHovered(*req.HoveredId)
	}
	return nil
}

func (s *builderService) Undo(sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Undo()
	return s.stateOf(sess), nil
}

func (s *builderService) Redo(sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Redo()
	return s.stateOf(sess), nil
}

func (s *builderService) LoadDocument(sessionID string, req *dto.LoadDocumentRequest) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.LoadProject(req.Components, req.ProjectId, req.ProjectName)
}

func (s *builderService) ClearDocument(sessionID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	sess.ClearProject()
	return nil
}

func (s *builderService) stateOf(sess *session.Session) *dto.SessionStateResponse {
	selected, hovered := sess.Selection()
	return &dto.SessionStateResponse{
		SessionId:   sess.ID(),
		ProjectId:   sess.ProjectID(),
		ProjectName: sess.ProjectName(),
		Components:  sess.Components(),
		SelectedId:  selected,
		HoveredId:   hovered,
		CanUndo:     sess.CanUndo(),
		CanRedo:     sess.CanRedo(),
	}
}
