// Package classifier provides a client for the external audio inference service
package classifier

import "time"

// Prediction is the classification result returned by the inference service.
// The wire contract is fixed: a species code, a confidence value and the
// service-side processing time.
type Prediction struct {
	EBirdCode      string  `json:"ebird_code"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
}

// Config holds configuration for the classifier client
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: 30 * time.Second,
	}
}
