package dtos

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// For webhook check endpoint
type WebhookCheckResponse struct {
	Message string `json:"message"`
}
