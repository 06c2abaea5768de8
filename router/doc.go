// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the talk-box API.

	mux := router.NewRouter(svc, cfg)

# Endpoints

Health:

	GET /health

Participants (public):

	GET  /contest                  - Phase, entry count, prizes left
	POST /submissions              - Submit a phrase
	GET  /submissions/{id}/result  - Outcome (X-Submission-Token)

Operator (requires X-Admin-Key):

	POST /admin/contest/toggle              - Open or close submissions
	POST /admin/contest/judge               - Rank and mark winners
	GET  /admin/submissions?filter=         - all|unhanded|handed|winning
	POST /admin/submissions/{id}/handover   - Toggle prize handed over

Every route except /health and / is wrapped in middleware.WithLogging.
*/
package router
