// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/talk-box/models"
)

// maxAppendAttempts bounds retries when a concurrent writer takes latest+1
const maxAppendAttempts = 3

// Settings is the append-only contest settings history. The row with the
// highest setting_id is authoritative.
type Settings struct {
	db *sql.DB
}

func NewSettings(db *sql.DB) *Settings {
	return &Settings{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Latest returns the current settings row
func (s *Settings) Latest(ctx context.Context) (models.Settings, error) {
	return latestSetting(ctx, s.db)
}

// ToggleSubmissionsOpen flips submissions_open and returns the new row
func (s *Settings) ToggleSubmissionsOpen(ctx context.Context) (models.Settings, error) {
	return s.update(ctx, func(cur models.Settings) (models.Settings, error) {
		cur.SubmissionsOpen = !cur.SubmissionsOpen
		return cur, nil
	})
}

// update appends mutate(latest) as a new row, retrying the whole
// transaction when another writer appended first.
func (s *Settings) update(ctx context.Context, mutate func(models.Settings) (models.Settings, error)) (models.Settings, error) {
	var next models.Settings
	err := retryConflicts(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		next, err = appendSetting(ctx, tx, mutate)
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit settings: %w", err)
		}
		return nil
	})
	return next, err
}

func retryConflicts(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return err
}

func latestSetting(ctx context.Context, q queryer) (models.Settings, error) {
	var cur models.Settings
	err := q.QueryRowContext(ctx, `
		SELECT setting_id, submissions_open, judging_complete, created_at
		FROM setting
		ORDER BY setting_id DESC
		LIMIT 1
	`).Scan(&cur.SequenceID, &cur.SubmissionsOpen, &cur.JudgingComplete, &cur.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Settings{}, fmt.Errorf("no contest settings row: %w", err)
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("query latest setting: %w", err)
	}
	return cur, nil
}

// appendSetting writes mutate(latest) with setting_id = latest+1. A key
// collision means the latest row moved under us and is reported as
// ErrConflict; the existing rows are never modified.
func appendSetting(ctx context.Context, q queryer, mutate func(models.Settings) (models.Settings, error)) (models.Settings, error) {
	cur, err := latestSetting(ctx, q)
	if err != nil {
		return models.Settings{}, err
	}

	next, err := mutate(cur)
	if err != nil {
		return models.Settings{}, err
	}
	next.SequenceID = cur.SequenceID + 1
	next.CreatedAt = time.Now().UTC()

	_, err = q.ExecContext(ctx, `
		INSERT INTO setting (setting_id, submissions_open, judging_complete, created_at)
		VALUES ($1, $2, $3, $4)
	`, next.SequenceID, next.SubmissionsOpen, next.JudgingComplete, next.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Settings{}, fmt.Errorf("append setting %d: %w", next.SequenceID, ErrConflict)
		}
		return models.Settings{}, fmt.Errorf("append setting: %w", err)
	}

	return next, nil
}
