// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the talk-box API.

# Handler Types

Each handler is a struct over the contest service and config:

  - SubmissionHandler: submit a phrase, look up a result, contest status
  - AdminHandler: open/close submissions, judging, listing, prize handover

	subs := handlers.NewSubmissionHandler(svc)
	admin := handlers.NewAdminHandler(svc, cfg)

# Participant Flow

	POST /submissions              → Submit (returns id, token, message)
	GET  /submissions/{id}/result  → GetResult (X-Submission-Token)
	GET  /contest                  → GetContest

The token is shown once at submission. GetResult answers "pending" until
the contest is closed and judged; a wrong id or token gets the same 404.

# Operator Flow

	POST /admin/contest/toggle              → ToggleSubmissions
	POST /admin/contest/judge {target?, k?} → Judge (closed only)
	GET  /admin/submissions?filter=         → ListSubmissions
	POST /admin/submissions/{id}/handover   → ToggleHandover

Operator routes require the X-Admin-Key header.

# Errors

Validation 400, phase conflicts and duplicates 409, unknown entry 404,
embedding provider down 503, anything else 500. Bodies carry a short
message only.
*/
package handlers
