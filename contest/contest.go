// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/talk-box/auth"
	"github.com/danielhkuo/talk-box/models"
	"github.com/danielhkuo/talk-box/ranking"
	"github.com/danielhkuo/talk-box/store"
)

// Length limits in runes, applied after trimming
const (
	MinTextLen   = 6
	MaxTextLen   = 25
	MinAuthorLen = 1
	MaxAuthorLen = 25
)

// Embedder is the embedding gateway as seen by the service
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SubmissionRepository is the submission store as seen by the service
type SubmissionRepository interface {
	Insert(ctx context.Context, sub models.NewSubmission) (int64, error)
	All(ctx context.Context) ([]models.Submission, error)
	List(ctx context.Context, filter string) ([]models.Submission, error)
	GetByIDAndToken(ctx context.Context, id int64, token string) (models.Submission, error)
	ReplaceWinnerMarks(ctx context.Context, ids []int64, label string) (models.Settings, error)
	ToggleHandover(ctx context.Context, id int64) (int, error)
	SumHandover(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// SettingsStore is the settings history as seen by the service
type SettingsStore interface {
	Latest(ctx context.Context) (models.Settings, error)
	ToggleSubmissionsOpen(ctx context.Context) (models.Settings, error)
}

// Config carries the externally supplied contest parameters
type Config struct {
	TargetPhrase string
	WinnerCount  int
	WinnerLabel  string
	GoodsCount   int // 0 means no prize limit
}

// SubmitResult is returned to the submitter once. Token is not
// retrievable afterwards.
type SubmitResult struct {
	ID      int64
	Token   string
	Message string
}

// JudgeResult reports a completed judging run
type JudgeResult struct {
	Winners     []int64
	Total       int
	CompletedAt time.Time
}

// Outcome is a participant's result once judging is complete
type Outcome struct {
	Status string // models.ResultWinner or models.ResultNotSelected
	Label  string
}

// Service runs the contest lifecycle: submit, open/close, judge, and the
// token-gated result lookup.
type Service struct {
	subs     SubmissionRepository
	settings SettingsStore
	embedder Embedder
	cfg      Config

	// phaseMu serializes judging runs and phase toggles in this process
	phaseMu sync.Mutex
}

func NewService(subs SubmissionRepository, settings SettingsStore, embedder Embedder, cfg Config) *Service {
	return &Service{
		subs:     subs,
		settings: settings,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Config returns the contest parameters the service was built with
func (s *Service) Config() Config {
	return s.cfg
}

// Submit validates and stores a new entry. Checks run in a fixed order:
// input, phase, embedding, insert, then the capacity message.
func (s *Service) Submit(ctx context.Context, text, authorName string) (SubmitResult, error) {
	text = strings.TrimSpace(text)
	authorName = strings.TrimSpace(authorName)

	if err := validateSubmission(text, authorName); err != nil {
		return SubmitResult{}, err
	}

	cur, err := s.settings.Latest(ctx)
	if err != nil {
		return SubmitResult{}, storeError("read settings", err)
	}
	if !cur.SubmissionsOpen {
		return SubmitResult{}, ErrContestClosed
	}

	vec, err := s.embed(ctx, text)
	if err != nil {
		return SubmitResult{}, err
	}

	token, err := auth.GenerateSubmissionToken()
	if err != nil {
		return SubmitResult{}, storeError("generate token", err)
	}

	id, err := s.subs.Insert(ctx, models.NewSubmission{
		Text:       text,
		AuthorName: authorName,
		Token:      token,
		Embedding:  vec,
	})
	if errors.Is(err, store.ErrDuplicateText) {
		return SubmitResult{}, ErrDuplicateText
	}
	if err != nil {
		return SubmitResult{}, storeError("insert submission", err)
	}

	slog.Info("submission created", "id", id, "author", authorName)

	return SubmitResult{
		ID:      id,
		Token:   token,
		Message: s.capacityMessage(ctx, id),
	}, nil
}

// ToggleSubmissionsOpen flips whether new submissions are accepted and
// returns the new value
func (s *Service) ToggleSubmissionsOpen(ctx context.Context) (bool, error) {
	s.phaseMu.Lock()
	defer s.phaseMu.Unlock()

	next, err := s.settings.ToggleSubmissionsOpen(ctx)
	if err != nil {
		return false, storeError("toggle submissions", err)
	}

	slog.Info("submissions toggled", "open", next.SubmissionsOpen, "setting_id", next.SequenceID)
	return next.SubmissionsOpen, nil
}

// RunJudging ranks every submission against target and marks the top k as
// winners, replacing any earlier result. Submissions must be closed.
func (s *Service) RunJudging(ctx context.Context, target string, k int) (JudgeResult, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return JudgeResult{}, &ValidationError{Field: "target", Message: "target phrase is required"}
	}
	if k < 0 {
		return JudgeResult{}, &ValidationError{Field: "k", Message: "winner count must not be negative"}
	}

	s.phaseMu.Lock()
	defer s.phaseMu.Unlock()

	cur, err := s.settings.Latest(ctx)
	if err != nil {
		return JudgeResult{}, storeError("read settings", err)
	}
	if cur.SubmissionsOpen {
		return JudgeResult{}, ErrContestStillOpen
	}

	targetVec, err := s.embed(ctx, target)
	if err != nil {
		return JudgeResult{}, err
	}

	subs, err := s.subs.All(ctx)
	if err != nil {
		return JudgeResult{}, storeError("load submissions", err)
	}

	candidates := make([]ranking.Candidate, len(subs))
	for i, sub := range subs {
		candidates[i] = ranking.Candidate{ID: sub.ID, Vector: sub.Embedding}
	}

	ranked, err := ranking.Rank(targetVec, candidates)
	if err != nil {
		return JudgeResult{}, storeError("rank submissions", err)
	}
	winners := ranking.TopK(ranked, k)

	judged, err := s.subs.ReplaceWinnerMarks(ctx, winners, s.cfg.WinnerLabel)
	if errors.Is(err, store.ErrSubmissionsOpen) {
		return JudgeResult{}, ErrContestStillOpen
	}
	if err != nil {
		return JudgeResult{}, storeError("replace winner marks", err)
	}

	slog.Info("judging complete", "winners", len(winners), "total", len(subs), "setting_id", judged.SequenceID)

	return JudgeResult{
		Winners:     winners,
		Total:       len(subs),
		CompletedAt: judged.CreatedAt,
	}, nil
}

// CheckResult is the only way a participant learns their outcome. It needs
// the exact id and token pair, and answers only after judging with
// submissions closed.
func (s *Service) CheckResult(ctx context.Context, id int64, token string) (Outcome, error) {
	cur, err := s.settings.Latest(ctx)
	if err != nil {
		return Outcome{}, storeError("read settings", err)
	}
	if cur.SubmissionsOpen || !cur.JudgingComplete {
		return Outcome{}, ErrNotJudgedYet
	}

	if err := auth.ValidateToken(token); err != nil {
		return Outcome{}, ErrNotFound
	}

	sub, err := s.subs.GetByIDAndToken(ctx, id, token)
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{}, ErrNotFound
	}
	if err != nil {
		return Outcome{}, storeError("lookup submission", err)
	}

	if sub.WinnerMark == nil {
		return Outcome{Status: models.ResultNotSelected}, nil
	}
	return Outcome{Status: models.ResultWinner, Label: *sub.WinnerMark}, nil
}

// Status reports the public contest state
func (s *Service) Status(ctx context.Context) (models.StatusResponse, error) {
	cur, err := s.settings.Latest(ctx)
	if err != nil {
		return models.StatusResponse{}, storeError("read settings", err)
	}

	count, err := s.subs.Count(ctx)
	if err != nil {
		return models.StatusResponse{}, storeError("count submissions", err)
	}

	status := models.StatusResponse{
		Phase:           cur.Phase(),
		SubmissionsOpen: cur.SubmissionsOpen,
		JudgingComplete: cur.JudgingComplete,
		Submissions:     count,
	}

	if s.cfg.GoodsCount > 0 {
		handed, err := s.subs.SumHandover(ctx)
		if err != nil {
			return models.StatusResponse{}, storeError("sum handover", err)
		}
		remaining := max(s.cfg.GoodsCount-handed, 0)
		status.GoodsRemaining = &remaining
	}

	return status, nil
}

// ListSubmissions returns entries for the operator view
func (s *Service) ListSubmissions(ctx context.Context, filter string) ([]models.Submission, error) {
	switch filter {
	case "", models.FilterAll, models.FilterUnhanded, models.FilterHanded, models.FilterWinning:
	default:
		return nil, &ValidationError{Field: "filter", Message: "filter must be all, unhanded, handed or winning"}
	}

	subs, err := s.subs.List(ctx, filter)
	if err != nil {
		return nil, storeError("list submissions", err)
	}
	return subs, nil
}

// ListSubmissionsWithScores is ListSubmissions plus each entry's cosine
// similarity to the configured target phrase. It costs one embedding call
// and never changes winner marks.
func (s *Service) ListSubmissionsWithScores(ctx context.Context, filter string) ([]models.Submission, error) {
	subs, err := s.ListSubmissions(ctx, filter)
	if err != nil {
		return nil, err
	}

	targetVec, err := s.embed(ctx, s.cfg.TargetPhrase)
	if err != nil {
		return nil, err
	}

	all, err := s.subs.All(ctx)
	if err != nil {
		return nil, storeError("load submissions", err)
	}
	vectors := make(map[int64][]float32, len(all))
	for _, sub := range all {
		vectors[sub.ID] = sub.Embedding
	}

	for i := range subs {
		vec, ok := vectors[subs[i].ID]
		if !ok {
			continue
		}
		score := ranking.Cosine(targetVec, vec)
		subs[i].Similarity = &score
	}
	return subs, nil
}

// ToggleHandover flips the prize-handed-over flag for one entry
func (s *Service) ToggleHandover(ctx context.Context, id int64) (int, error) {
	value, err := s.subs.ToggleHandover(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, storeError("toggle handover", err)
	}

	slog.Info("handover toggled", "id", id, "hand_over", value)
	return value, nil
}

// embed calls the gateway once and guarantees the error matches
// ErrEmbeddingUnavailable
func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}

	slog.Warn("embedding failed", "error", err)
	if errors.Is(err, ErrEmbeddingUnavailable) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
}

// capacityMessage is informational only; a failure here never fails the
// submission that has already been stored.
func (s *Service) capacityMessage(ctx context.Context, id int64) string {
	msg := fmt.Sprintf("Thank you! Yours is the %s entry.", humanize.Ordinal(int(id)))
	if s.cfg.GoodsCount <= 0 {
		return msg
	}

	handed, err := s.subs.SumHandover(ctx)
	if err != nil {
		slog.Warn("failed to sum handover", "error", err)
		return msg
	}

	remaining := s.cfg.GoodsCount - handed
	if remaining <= 0 {
		return msg + " All prizes have already been handed out."
	}
	return fmt.Sprintf("%s %s of %s prizes remain.", msg,
		humanize.Comma(int64(remaining)), humanize.Comma(int64(s.cfg.GoodsCount)))
}

func validateSubmission(text, authorName string) error {
	if n := utf8.RuneCountInString(text); n < MinTextLen || n > MaxTextLen {
		return &ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("must be %d to %d characters", MinTextLen, MaxTextLen),
		}
	}
	if n := utf8.RuneCountInString(authorName); n < MinAuthorLen || n > MaxAuthorLen {
		return &ValidationError{
			Field:   "author_name",
			Message: fmt.Sprintf("must be %d to %d characters", MinAuthorLen, MaxAuthorLen),
		}
	}
	return nil
}
