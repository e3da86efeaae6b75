package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must reject input shorter than 3 characters after
// trimming without calling the provider, and truncate over-long input to
// the provider's limit before the call. A failure embedding one chunk is
// absorbed by the caller and never aborts a whole document.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-ada-002)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
