// Package llm provides an OpenAI-compatible embedding client.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// EmbeddingClient generates embedding vectors for text. Satisfied by
// *Client; services depend on this so tests can substitute fakes.
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
	CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)
}

// Client talks to an OpenAI-compatible embeddings endpoint.
type Client struct {
	client   *openai.Client
	endpoint string
	model    string
	logger   *zap.Logger
}

var _ EmbeddingClient = (*Client)(nil)

// Config holds configuration for creating an embedding client.
type Config struct {
	Endpoint string // Base URL, e.g., "https://api.openai.com/v1"
	Model    string // Model name, e.g., "text-embedding-3-small"
	APIKey   string // Optional for local endpoints
}

// NewClient creates a new OpenAI-compatible embedding client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		logger:   logger.Named("llm"),
	}, nil
}

// CreateEmbedding generates an embedding vector for the input text.
func (c *Client) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	embeddings, err := c.CreateEmbeddings(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// CreateEmbeddings generates embeddings for multiple inputs in one request.
// The result is ordered to match inputs.
func (c *Client) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	start := time.Now()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: inputs,
	})
	if err != nil {
		c.logger.Error("embedding request failed",
			zap.Int("inputs", len(inputs)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", d.Index)
		}
		embeddings[d.Index] = d.Embedding
	}

	c.logger.Debug("embedding request completed",
		zap.Int("inputs", len(inputs)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Duration("elapsed", time.Since(start)))

	return embeddings, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}
