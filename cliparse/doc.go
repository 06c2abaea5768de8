// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads a .env file with godotenv before calling ParseFlags, so values
there behave like ordinary environment variables.

# CLI Flags and Environment Variables

CLI flags take precedence over environment variables:

	-p                  PORT               Server port (default 3318)
	-d                  DATABASE_URL       Database URL (required)
	-t                  DATABASE_TYPE      sqlite or postgres (default sqlite)
	-admin-key          ADMIN_KEY          Operator key (required)
	-target             TARGET_PHRASE      Secret phrase submissions are ranked against (required)
	-k                  WINNER_COUNT       Number of winners (default 3)
	-winner-label       WINNER_LABEL       Label stored on winners (default "Winner")
	-goods              GOODS_COUNT        Prizes available, 0 = unlimited (default 0)
	-embed-provider     EMBED_PROVIDER     ollama, openai or genai (default ollama)
	-embed-url          EMBED_URL          Provider base URL
	-embed-model        EMBED_MODEL        Provider model name
	-embed-api-key      EMBED_API_KEY      Provider API key (genai, hosted openai)
	-embed-dim          EMBED_DIMENSION    Vector dimension (default 1024)
	-embed-timeout      EMBED_TIMEOUT      Per-request timeout (default 10s)
	-embed-concurrency  EMBED_CONCURRENCY  In-flight provider requests (default 4)

# Validation

ParseFlags returns an error if required values are missing or a numeric
value does not parse. Winner and goods counts must not be negative; the
embedding dimension must be positive.
*/
package cliparse
