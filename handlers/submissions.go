// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhkuo/talk-box/contest"
	"github.com/danielhkuo/talk-box/middleware"
	"github.com/danielhkuo/talk-box/models"
)

// SubmissionHandler serves the participant-facing endpoints
type SubmissionHandler struct {
	svc *contest.Service
}

func NewSubmissionHandler(svc *contest.Service) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit handles POST /submissions
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	res, err := h.svc.Submit(r.Context(), req.Text, req.AuthorName)
	if err != nil {
		writeServiceError(w, "submit", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponse{
		ID:      res.ID,
		Token:   res.Token,
		Message: res.Message,
	})
}

// GetResult handles GET /submissions/{id}/result
// Returns "pending" until judging has completed with submissions closed.
func (h *SubmissionHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	token := r.Header.Get("X-Submission-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgSubmissionToken)
		return
	}

	out, err := h.svc.CheckResult(r.Context(), id, token)
	if errors.Is(err, contest.ErrNotJudgedYet) {
		middleware.JSONResponse(w, http.StatusOK, models.ResultResponse{
			Status:  models.ResultPending,
			Message: msgPending,
		})
		return
	}
	if err != nil {
		writeServiceError(w, "check result", err)
		return
	}

	resp := models.ResultResponse{Status: out.Status, Label: out.Label}
	if out.Status == models.ResultWinner {
		resp.Message = msgWinner
	} else {
		resp.Message = msgNotSelected
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetContest handles GET /contest
func (h *SubmissionHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Status(r.Context())
	if err != nil {
		writeServiceError(w, "contest status", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}
