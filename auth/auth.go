// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid token format")
)

// GenerateSubmissionToken creates the bearer credential for one submission.
// A random (version 4) UUID carries 122 bits of entropy.
func GenerateSubmissionToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate submission token: %w", err)
	}
	return id.String(), nil
}

// ValidateToken checks that token has the shape GenerateSubmissionToken
// produces, so malformed values can be rejected before touching the store.
func ValidateToken(token string) error {
	id, err := uuid.Parse(token)
	if err != nil || id.Version() != 4 || id.String() != token {
		return ErrInvalidToken
	}
	return nil
}

// ValidateAdminKey compares the provided key with the configured one in
// constant time
func ValidateAdminKey(provided, expected string) error {
	if expected == "" || !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}
