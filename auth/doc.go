// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and credential checks.

# Submission Tokens

Each submission gets a random UUIDv4 token when it is created:

	token, err := auth.GenerateSubmissionToken()

The token is returned once, in the submit response, and is the only
credential for reading that submission's result. It is stored alongside the
row and never logged or listed. ValidateToken rejects values that could not
have been issued, before any database lookup.

# Admin Key

Operator endpoints compare the X-Admin-Key header with the configured key:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

The comparison is constant time. An empty configured key never validates.
*/
package auth
