// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitRequest: text, author_name
  - JudgeRequest: target, k (both optional)

# Response Types

Types for JSON responses:

  - SubmitResponse: id, token, message
  - ResultResponse: status, label, message
  - ToggleResponse: submissions_open
  - JudgeResponse: winners, total, completed_at
  - HandoverResponse: id, hand_over
  - StatusResponse: phase, flags, counts
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Submission: one contest entry; Token and Embedding never serialize
  - NewSubmission: insert shape
  - Settings: one row of the append-only contest settings history

# Constants

Result statuses:

	ResultPending     = "pending"
	ResultWinner      = "winner"
	ResultNotSelected = "not_selected"

Phases (see Settings.Phase):

	PhaseOpen     = "open"
	PhaseClosed   = "closed"
	PhaseJudged   = "judged"
	PhaseReopened = "reopened"

Admin list filters:

	FilterAll, FilterUnhanded, FilterHanded, FilterWinning
*/
package models
