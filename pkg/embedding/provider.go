// Package embedding generates text embeddings for semantic report search.
package embedding

// Response carries the generated embedding vector.
type Response struct {
	Values []float32
}

// Provider generates text embeddings. taskType hints the intended use
// ("RETRIEVAL_DOCUMENT" or "RETRIEVAL_QUERY"); providers may ignore it.
type Provider interface {
	Generate(text string, taskType string) (*Response, error)
}
