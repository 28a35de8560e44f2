package domain

// Candidate is an externally generated card proposal. It is transient:
// it only becomes a MemoryItem by passing through the ingestion
// pipeline, which sanitizes and deduplicates it.
type Candidate struct {
	Kind       string   `json:"kind"`
	Front      string   `json:"front"`
	Back       string   `json:"back"`
	Language   string   `json:"language,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason,omitempty"`
}
