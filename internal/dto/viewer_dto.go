package dto

import "github.com/google/uuid"

type OpenViewerRequest struct {
	DocumentId uuid.UUID `json:"document_id" validate:"required"`
	ViewportW  int       `json:"viewport_w" validate:"omitempty,min=1"`
	ViewportH  int       `json:"viewport_h" validate:"omitempty,min=1"`
}

type ViewerStateResponse struct {
	SessionId   string  `json:"session_id"`
	FileName    string  `json:"file_name"`
	State       string  `json:"state"`
	Failure     string  `json:"failure,omitempty"`
	Zoom        float64 `json:"zoom"`
	PositionX   float64 `json:"position_x"`
	PositionY   float64 `json:"position_y"`
	Fullscreen  bool    `json:"fullscreen"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	Rendering   bool    `json:"rendering"`
	PageError   string  `json:"page_error,omitempty"`
	Closed      bool    `json:"closed,omitempty"`
}

type ViewerZoomRequest struct {
	Delta float64 `json:"delta" validate:"required"`
}

type ViewerPanRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ViewerPageRequest struct {
	Page int `json:"page" validate:"required"`
}

type ViewerKeyRequest struct {
	Key string `json:"key" validate:"required"`
}
