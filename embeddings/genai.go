// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package embeddings

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

var _ Embedder = (*GenAIClient)(nil)

// taskSemanticSimilarity tunes Gemini vectors for text-to-text comparison
const taskSemanticSimilarity = "SEMANTIC_SIMILARITY"

// GenAIClient generates embeddings with the Gemini API
type GenAIClient struct {
	client    *genai.Client
	model     string
	dimension int32
}

// NewGenAIClient creates a Gemini embedding client. A positive dimension is
// sent as the requested output dimensionality.
func NewGenAIClient(ctx context.Context, apiKey, model string, dimension int) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:    client,
		model:     model,
		dimension: int32(dimension),
	}, nil
}

// Embed generates an embedding for a single text string
func (c *GenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	cfg := &genai.EmbedContentConfig{TaskType: taskSemanticSimilarity}
	if c.dimension > 0 {
		dim := c.dimension
		cfg.OutputDimensionality = &dim
	}

	result, err := c.client.Models.EmbedContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}

	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}

func (c *GenAIClient) Name() string {
	return ProviderGenAI + ":" + c.model
}
