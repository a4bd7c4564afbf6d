package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/dto"
	"sitebuilder-be/internal/pkg/logger"
	"sitebuilder-be/pkg/generation"
)

// ErrGenerationFailed wraps any provider or parse failure. The document is
// guaranteed untouched when this is returned; a generation result is only
// ever applied whole or not at all.
var ErrGenerationFailed = errors.New("service: generation failed")

type IGenerationService interface {
	Generate(ctx context.Context, sessionID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type generationService struct {
	builder  IBuilderService
	provider generation.Provider
	logger   logger.ILogger
}

func NewGenerationService(builder IBuilderService, provider generation.Provider, log logger.ILogger) IGenerationService {
	return &generationService{
		builder:  builder,
		provider: provider,
		logger:   log,
	}
}

func (s *generationService) Generate(ctx context.Context, sessionID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	sess, err := s.builder.Session(sessionID)
	if err != nil {
		return nil, err
	}
	component, err := sess.FindComponent(req.ComponentId)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case "content":
		return s.generateContent(ctx, sessionID, component, req)
	case "styles":
		return s.generateStyles(ctx, sessionID, component, req)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrGenerationFailed, req.Kind)
	}
}

func (s *generationService) generateContent(ctx context.Context, sessionID string, component *document.Component, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	field := req.Field
	if field == "" {
		field = "text"
	}

	current := ""
	if v, ok := component.Props[field]; ok {
		current = fmt.Sprintf("%v", v)
	}

	prompt := fmt.Sprintf(
		"You write short website copy. Component: %s (%s). Field: %s. Current value: %q. %s\n"+
			"Respond with only the new text for that field, no quotes, no explanation.",
		component.Category, component.Type, field, current, req.Context,
	)

	raw, err := s.provider.Generate(ctx, prompt, generation.WithTemperature(0.8))
	if err != nil {
		s.logger.Warn("GenerationService", "Content generation failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	value := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if value == "" {
		return nil, fmt.Errorf("%w: provider returned empty content", ErrGenerationFailed)
	}

	// Apply only after the full result parsed cleanly.
	if err := s.builder.UpdateComponent(sessionID, component.ID, &dto.UpdateComponentRequest{
		Props: map[string]interface{}{field: value},
	}); err != nil {
		return nil, err
	}

	return &dto.GenerateResponse{
		Kind:        req.Kind,
		ComponentId: component.ID,
		Value:       value,
	}, nil
}

func (s *generationService) generateStyles(ctx context.Context, sessionID string, component *document.Component, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	currentStyles, err := json.Marshal(component.Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	prompt := fmt.Sprintf(
		"You style website components. Component: %s (%s). Current styles: %s. %s\n"+
			"Respond with only a JSON object of CSS property/value pairs to merge, nothing else.",
		component.Category, component.Type, string(currentStyles), req.Context,
	)

	raw, err := s.provider.Generate(ctx, prompt, generation.WithTemperature(0.4))
	if err != nil {
		s.logger.Warn("GenerationService", "Style generation failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	patch, err := parseStylePatch(raw)
	if err != nil {
		return nil, err
	}

	if err := s.builder.UpdateComponent(sessionID, component.ID, &dto.UpdateComponentRequest{
		Styles: patch,
	}); err != nil {
		return nil, err
	}

	return &dto.GenerateResponse{
		Kind:        req.Kind,
		ComponentId: component.ID,
		Styles:      patch,
	}, nil
}

// parseStylePatch extracts the first JSON object from a model response.
// Models often wrap the object in prose or code fences.
func parseStylePatch(raw string) (map[string]interface{}, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrGenerationFailed)
	}

	var patch map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty style patch", ErrGenerationFailed)
	}
	return patch, nil
}
