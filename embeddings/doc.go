// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package embeddings turns submission text into fixed-length vectors.

# Providers

NewEmbedder selects a client by name:

  - ollama: POST {base}/api/embed
  - openai: POST {base}/v1/embeddings (LM Studio and other compatible servers)
  - genai: Gemini via google.golang.org/genai, task SEMANTIC_SIMILARITY

# Gateway

The contest core never calls a provider directly. Gateway adds a per-call
timeout, caps concurrent provider requests, and rejects vectors whose
length differs from the configured dimension or that carry NaN or
infinite components:

	gw, err := embeddings.OpenGateway(ctx, embeddings.Config{
		Provider:    embeddings.ProviderOllama,
		Dimension:   1024,
		Timeout:     10 * time.Second,
		Concurrency: 4,
	})
	vec, err := gw.Embed(ctx, "old pond frog jumps in")
	if errors.Is(err, embeddings.ErrUnavailable) {
		// provider error, timeout, or malformed response
	}

# Storage Encoding

Vectors are stored as little-endian float32 bytes:

	blob := embeddings.Encode(vec)
	vec, err := embeddings.Decode(blob)
*/
package embeddings
