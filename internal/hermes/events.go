package hermes

import "time"

type EvaluationCompletedEvent struct {
	EvaluationID string    `json:"evaluation_id"`
	Name         string    `json:"name,omitempty"`
	Winner       string    `json:"winner"`
	Closeness    float64   `json:"closeness"`
	Alternatives int       `json:"alternatives"`
	Criteria     int       `json:"criteria"`
	Degenerate   []string  `json:"degenerate,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type EvaluationRejectedEvent struct {
	EvaluationID string    `json:"evaluation_id"`
	Name         string    `json:"name,omitempty"`
	Error        string    `json:"error"`
	Timestamp    time.Time `json:"timestamp"`
}
