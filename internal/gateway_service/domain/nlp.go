package domain

// NlpResult is the classifier's verdict for a working-language message.
// Confidence is in [0,1]; the pipeline passes it through without applying
// any threshold.
type NlpResult struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Response   string            `json:"response"`
	Entities   map[string]string `json:"entities,omitempty"`
	NeedsVoice bool              `json:"needs_voice"`
}

// DeliveryResult is the outcome of one channel send. It is logged but not
// persisted.
type DeliveryResult struct {
	MessageID string `json:"message_id"`
	Accepted  bool   `json:"accepted"`
}
