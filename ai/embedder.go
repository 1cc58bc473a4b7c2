package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/quire/domain"
)

// Embedder generates vector embeddings from text. Implementations must
// be safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for a batch, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder returns an embedder for the configured embedding model.
// Embeddings always go through the OpenAI API, so an OpenAI key is
// required regardless of which provider serves completions.
func (r *Registry) Embedder() (Embedder, error) {
	r.mu.RLock()
	settings := r.settings
	r.mu.RUnlock()

	key, ok := settings.APIKey(domain.ProviderOpenAI)
	if !ok {
		return nil, fmt.Errorf("%w: embeddings need an openai api key", ErrModelNotConfigured)
	}

	client, err := openai.New(
		openai.WithToken(key),
		openai.WithEmbeddingModel(settings.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &langchainEmbedder{
		embedder: embedder,
		logger:   r.logger.With("model", settings.EmbeddingModel),
	}, nil
}

type langchainEmbedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

func (e *langchainEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("embedding text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vectors[0], nil
}

func (e *langchainEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("embedding batch", "count", len(texts))
	return e.embedder.EmbedDocuments(ctx, texts)
}
