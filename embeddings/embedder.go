// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package embeddings

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// Provider names accepted by NewEmbedder
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGenAI  = "genai"
)

var (
	ErrUnavailable       = errors.New("embedding unavailable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrCorruptVector     = errors.New("corrupt stored vector")
	ErrNonFinite         = errors.New("embedding has NaN or infinite component")
)

// Embedder is implemented by each embedding provider client
type Embedder interface {
	// Embed returns the vector for a single text. One call is one provider request.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name identifies the provider and model for logs
	Name() string
}

// Config selects and configures a provider. Timeout and Concurrency are
// applied by OpenGateway.
type Config struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Dimension   int
	Timeout     time.Duration
	Concurrency int
}

// NewEmbedder creates a provider client based on cfg.Provider.
// Empty BaseURL and Model fall back to the provider defaults.
func NewEmbedder(ctx context.Context, cfg Config) (Embedder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultURL(cfg.Provider)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaClient(baseURL, model), nil
	case ProviderOpenAI:
		return NewOpenAIClient(baseURL, model, cfg.APIKey), nil
	case ProviderGenAI:
		return NewGenAIClient(ctx, cfg.APIKey, model, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (supported: ollama, openai, genai)", cfg.Provider)
	}
}

// DefaultURL returns the default base URL for a given provider
func DefaultURL(provider string) string {
	switch provider {
	case ProviderOllama:
		return "http://localhost:11434"
	case ProviderOpenAI:
		return "http://localhost:1234"
	default:
		return ""
	}
}

// DefaultModel returns the default model name for a given provider
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOllama:
		return "mxbai-embed-large"
	case ProviderOpenAI:
		return "text-embedding-mxbai-embed-large-v1"
	case ProviderGenAI:
		return "gemini-embedding-001"
	default:
		return ""
	}
}

// Encode converts a float32 vector to little-endian bytes for storage
func Encode(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Decode converts stored bytes back to a float32 vector
func Decode(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptVector, len(data))
	}

	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
