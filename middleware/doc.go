// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /contest", middleware.WithLogging(handler))

Logs request start (method, path, client) and completion (status,
duration_ms). Headers and bodies are never logged, so tokens stay out of
the log.

# Operator Routes

	mux.HandleFunc("POST /admin/contest/judge",
		middleware.WithLogging(middleware.RequireAdminKey(cfg.AdminKey, h.Judge)))

Requests without a matching X-Admin-Key get 401 before the handler runs.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, OPTIONS with headers Content-Type, X-Admin-Key,
X-Submission-Token.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
