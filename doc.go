// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the talk-box API server.

talk-box runs a timed phrase contest. Participants submit a short phrase
and receive an entry number and a one-time token. When the operator closes
submissions and runs judging, every phrase is ranked by embedding
similarity to a secret target phrase and the top k are marked as winners.
Participants then look up their own outcome with their number and token.

# Starting the Server

	DATABASE_URL=talkbox.db ADMIN_KEY=... TARGET_PHRASE="..." go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -k 5

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_KEY (--admin-key): Operator key for /admin routes
  - TARGET_PHRASE (--target): Phrase submissions are judged against

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - WINNER_COUNT (-k): Number of winners (default: 3)
  - WINNER_LABEL (--winner-label): Label stored on winners (default: Winner)
  - GOODS_COUNT (--goods): Prizes available, 0 for no limit (default: 0)
  - EMBED_PROVIDER (--embed-provider): ollama, openai, or genai (default: ollama)
  - EMBED_URL, EMBED_MODEL, EMBED_API_KEY: Provider endpoint, model, key
  - EMBED_DIMENSION (--embed-dim): Vector length (default: 1024)
  - EMBED_TIMEOUT (--embed-timeout): Per-request timeout (default: 10s)
  - EMBED_CONCURRENCY (--embed-concurrency): In-flight requests (default: 4)

# Architecture

  - contest: Submission lifecycle, phases, judging, result lookup
  - ranking: Inner-product ranking and top-k selection
  - embeddings: Provider clients and the timeout/concurrency gateway
  - store: Submission repository and append-only settings history
  - handlers, router, middleware: HTTP surface
  - models, auth, db, cliparse: Shared types, tokens, schema, config

See package documentation for each component.
*/
package main
