package dto

import "sitebuilder-be/internal/builder/document"

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

type AddComponentRequest struct {
	Component *document.Component `json:"component" validate:"required"`
	ParentId  string              `json:"parent_id"`
	Index     *int                `json:"index"`
}

type UpdateComponentRequest struct {
	Name     *string                `json:"name"`
	Props    map[string]interface{} `json:"props"`
	Styles   map[string]interface{} `json:"styles"`
	IsLocked *bool                  `json:"is_locked"`
	IsHidden *bool                  `json:"is_hidden"`
}

type MoveComponentRequest struct {
	ParentId string `json:"parent_id"`
	Index    *int   `json:"index"`
}

type PasteComponentRequest struct {
	ParentId string `json:"parent_id"`
	Index    *int   `json:"index"`
}

type SelectionRequest struct {
	SelectedId *string `json:"selected_id"`
	HoveredId  *string `json:"hovered_id"`
}

type LoadDocumentRequest struct {
	Components  []*document.Component `json:"components"`
	ProjectId   string                `json:"project_id"`
	ProjectName string                `json:"project_name"`
}

type ComponentResponse struct {
	Component *document.Component `json:"component"`
}

type SessionStateResponse struct {
	SessionId   string                `json:"session_id"`
	ProjectId   string                `json:"project_id,omitempty"`
	ProjectName string                `json:"project_name,omitempty"`
	Components  []*document.Component `json:"components"`
	SelectedId  string                `json:"selected_id,omitempty"`
	HoveredId   string                `json:"hovered_id,omitempty"`
	CanUndo     bool                  `json:"can_undo"`
	CanRedo     bool                  `json:"can_redo"`
}

// IndexOrAppend converts an optional index into the tree's append sentinel.
func IndexOrAppend(index *int) int {
	if index == nil {
		return -1
	}
	return *index
}
