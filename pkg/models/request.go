package models

// CaptureRequest represents the request payload for capturing a job posting
type CaptureRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// StatusUpdateRequest represents the payload for updating a role's status
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=active applied rejected archived"`
}
