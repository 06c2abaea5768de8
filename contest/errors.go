// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/talk-box/embeddings"
	"github.com/danielhkuo/talk-box/store"
)

// Every error returned by Service matches exactly one of these with errors.Is
var (
	ErrValidation           = errors.New("invalid input")
	ErrContestClosed        = errors.New("submissions are closed")
	ErrContestStillOpen     = errors.New("submissions are still open")
	ErrNotJudgedYet         = errors.New("judging has not completed")
	ErrDuplicateText        = store.ErrDuplicateText
	ErrEmbeddingUnavailable = embeddings.ErrUnavailable
	ErrNotFound             = store.ErrNotFound
	ErrStore                = errors.New("store failure")
)

// ValidationError names the offending field and a message safe to show
// the submitter
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// storeError tags an unexpected persistence failure with ErrStore. The cause
// is kept as text only so it cannot also match another sentinel.
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
