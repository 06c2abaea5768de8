// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/talk-box/contest"
	"github.com/danielhkuo/talk-box/middleware"
)

// Messages shown to participants; no internal detail leaves the server.
const (
	msgContestClosed   = "Submissions are closed"
	msgStillOpen       = "Submissions are still open"
	msgDuplicate       = "That phrase has already been submitted, please try another"
	msgEmbedding       = "We could not process your phrase right now, please try again"
	msgNotFound        = "No matching entry, please check your number and code and try again"
	msgInternal        = "Something went wrong, please try again"
	msgPending         = "Results are not available yet"
	msgWinner          = "Congratulations, you won!"
	msgNotSelected     = "Thank you for taking part. This entry was not selected."
	msgInvalidJSON     = "Invalid JSON"
	msgInvalidID       = "Invalid entry number"
	msgSubmissionToken = "X-Submission-Token header is required"
)

// writeServiceError maps a contest error onto its HTTP status and a short
// message. Unexpected failures are logged with their cause.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *contest.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, contest.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contest.ErrContestClosed):
		middleware.ErrorResponse(w, http.StatusConflict, msgContestClosed)
	case errors.Is(err, contest.ErrContestStillOpen):
		middleware.ErrorResponse(w, http.StatusConflict, msgStillOpen)
	case errors.Is(err, contest.ErrDuplicateText):
		middleware.ErrorResponse(w, http.StatusConflict, msgDuplicate)
	case errors.Is(err, contest.ErrEmbeddingUnavailable):
		slog.Warn(op+" failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgEmbedding)
	case errors.Is(err, contest.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, msgNotFound)
	default:
		slog.Error(op+" failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
	}
}
