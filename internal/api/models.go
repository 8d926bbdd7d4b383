package api

// DraftRequest defines the payload for PUT /api/draft.
// Text is a pointer so that an explicit empty string (clearing the input)
// is accepted while a missing field is rejected.
type DraftRequest struct {
	Text *string `json:"text" validate:"required"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
