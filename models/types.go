// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Result status constants
const (
	ResultPending     = "pending"
	ResultWinner      = "winner"
	ResultNotSelected = "not_selected"
)

// Admin list filters
const (
	FilterAll      = "all"
	FilterUnhanded = "unhanded"
	FilterHanded   = "handed"
	FilterWinning  = "winning"
)

// Contest phase names, derived from the two settings flags
const (
	PhaseOpen     = "open"
	PhaseClosed   = "closed"
	PhaseJudged   = "judged"
	PhaseReopened = "reopened"
)

// Request types

type SubmitRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
}

// Zero values fall back to the configured target phrase and winner count.
type JudgeRequest struct {
	Target string `json:"target"`
	K      *int   `json:"k,omitempty"`
}

// Response types

type SubmitResponse struct {
	ID      int64  `json:"id"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type ResultResponse struct {
	Status  string `json:"status"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

type ToggleResponse struct {
	SubmissionsOpen bool `json:"submissions_open"`
}

type JudgeResponse struct {
	Winners     []int64   `json:"winners"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
}

type HandoverResponse struct {
	ID       int64 `json:"id"`
	HandOver int   `json:"hand_over"`
}

type StatusResponse struct {
	Phase           string `json:"phase"`
	SubmissionsOpen bool   `json:"submissions_open"`
	JudgingComplete bool   `json:"judging_complete"`
	Submissions     int    `json:"submissions"`
	GoodsRemaining  *int   `json:"goods_remaining,omitempty"`
}

// Domain types

type Submission struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Token      string    `json:"-"` // Never expose in JSON
	Embedding  []float32 `json:"-"`
	WinnerMark *string   `json:"winner_mark,omitempty"`
	HandOver   int       `json:"hand_over"`
	CreatedAt  time.Time `json:"created_at"`

	// Similarity to the configured target, only on scored admin listings
	Similarity *float64 `json:"similarity,omitempty"`
}

// NewSubmission is the insert shape; the store assigns ID and CreatedAt.
type NewSubmission struct {
	Text       string
	AuthorName string
	Token      string
	Embedding  []float32
}

type Settings struct {
	SequenceID      int64     `json:"sequence_id"`
	SubmissionsOpen bool      `json:"submissions_open"`
	JudgingComplete bool      `json:"judging_complete"`
	CreatedAt       time.Time `json:"created_at"`
}

// Phase names the state-machine position of these flags.
func (s Settings) Phase() string {
	switch {
	case s.SubmissionsOpen && s.JudgingComplete:
		return PhaseReopened
	case s.SubmissionsOpen:
		return PhaseOpen
	case s.JudgingComplete:
		return PhaseJudged
	default:
		return PhaseClosed
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
