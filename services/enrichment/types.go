package enrichment

import "context"

// Request is a single polishing job
type Request struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// Result is the outcome of a successful polishing job
type Result struct {
	OriginalText string `json:"originalText"`
	PolishedText string `json:"polishedText"`
	Model        string `json:"model"`
	Attempts     int    `json:"-"`
}

// Polisher delivers polished text or fails with an enrichment error kind
type Polisher interface {
	Polish(ctx context.Context, req Request) (*Result, error)
}
