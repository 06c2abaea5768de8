// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/talk-box/cliparse"
	"github.com/danielhkuo/talk-box/contest"
	"github.com/danielhkuo/talk-box/middleware"
	"github.com/danielhkuo/talk-box/models"
)

// AdminHandler serves the operator endpoints. Routes wrap every method in
// middleware.RequireAdminKey.
type AdminHandler struct {
	svc *contest.Service
	cfg cliparse.Config
}

func NewAdminHandler(svc *contest.Service, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{svc: svc, cfg: cfg}
}

// ToggleSubmissions handles POST /admin/contest/toggle
func (h *AdminHandler) ToggleSubmissions(w http.ResponseWriter, r *http.Request) {
	open, err := h.svc.ToggleSubmissionsOpen(r.Context())
	if err != nil {
		writeServiceError(w, "toggle submissions", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ToggleResponse{SubmissionsOpen: open})
}

// Judge handles POST /admin/contest/judge
// An empty body judges against the configured target and winner count.
func (h *AdminHandler) Judge(w http.ResponseWriter, r *http.Request) {
	var req models.JudgeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	target := req.Target
	if target == "" {
		target = h.cfg.TargetPhrase
	}
	k := h.cfg.WinnerCount
	if req.K != nil {
		k = *req.K
	}

	res, err := h.svc.RunJudging(r.Context(), target, k)
	if err != nil {
		writeServiceError(w, "judging", err)
		return
	}

	slog.Info("judging requested", "k", k, "winners", len(res.Winners))

	middleware.JSONResponse(w, http.StatusOK, models.JudgeResponse{
		Winners:     res.Winners,
		Total:       res.Total,
		CompletedAt: res.CompletedAt,
	})
}

// ListSubmissions handles GET /admin/submissions?filter=&scores=true
// With scores=true each entry carries its similarity to the target phrase.
func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := query.Get("filter")

	var subs []models.Submission
	var err error
	if withScores, _ := strconv.ParseBool(query.Get("scores")); withScores {
		subs, err = h.svc.ListSubmissionsWithScores(r.Context(), filter)
	} else {
		subs, err = h.svc.ListSubmissions(r.Context(), filter)
	}
	if err != nil {
		writeServiceError(w, "list submissions", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, subs)
}

// ToggleHandover handles POST /admin/submissions/{id}/handover
func (h *AdminHandler) ToggleHandover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	value, err := h.svc.ToggleHandover(r.Context(), id)
	if err != nil {
		writeServiceError(w, "toggle handover", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HandoverResponse{ID: id, HandOver: value})
}
