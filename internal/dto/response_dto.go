package dto

type ErrorResponse struct {
	Message   string   `json:"message"`
	Kind      string   `json:"kind,omitempty"`
	Retryable bool     `json:"retryable,omitempty"`
	Details   []string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
