// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/talk-box/cliparse"
	"github.com/danielhkuo/talk-box/contest"
	"github.com/danielhkuo/talk-box/handlers"
	"github.com/danielhkuo/talk-box/middleware"
)

func NewRouter(svc *contest.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	submissionHandler := handlers.NewSubmissionHandler(svc)
	adminHandler := handlers.NewAdminHandler(svc, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminKey(cfg.AdminKey, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Participant operations (public)
	mux.HandleFunc("GET /contest", middleware.WithLogging(submissionHandler.GetContest))
	mux.HandleFunc("POST /submissions", middleware.WithLogging(submissionHandler.Submit))
	mux.HandleFunc("GET /submissions/{id}/result", middleware.WithLogging(submissionHandler.GetResult))

	// Operator operations
	mux.HandleFunc("POST /admin/contest/toggle", admin(adminHandler.ToggleSubmissions))
	mux.HandleFunc("POST /admin/contest/judge", admin(adminHandler.Judge))
	mux.HandleFunc("GET /admin/submissions", admin(adminHandler.ListSubmissions))
	mux.HandleFunc("POST /admin/submissions/{id}/handover", admin(adminHandler.ToggleHandover))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("talk-box API v1"))
	})

	return mux
}
