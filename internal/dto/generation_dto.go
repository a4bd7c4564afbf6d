package dto

// GenerateRequest asks the AI boundary for new content or a style patch for
// one component. Kind selects what gets generated.
type GenerateRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=content styles"`
	ComponentId string `json:"component_id" validate:"required"`
	Field       string `json:"field"`   // prop key for kind=content
	Context     string `json:"context"` // free-form user guidance
}

type GenerateResponse struct {
	Kind        string                 `json:"kind"`
	ComponentId string                 `json:"component_id"`
	Value       string                 `json:"value,omitempty"`  // kind=content
	Styles      map[string]interface{} `json:"styles,omitempty"` // kind=styles
}
