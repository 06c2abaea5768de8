// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/talk-box/embeddings"
	"github.com/danielhkuo/talk-box/models"
)

// Submissions is the repository over the submission table
type Submissions struct {
	db *sql.DB
}

func NewSubmissions(db *sql.DB) *Submissions {
	return &Submissions{db: db}
}

// Insert stores a complete submission row in one statement and returns its
// id. Text collisions are rejected by the UNIQUE constraint, never updated.
func (s *Submissions) Insert(ctx context.Context, sub models.NewSubmission) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO submission (text, author_name, token, winner_mark, embedding, hand_over, created_at)
		VALUES ($1, $2, $3, NULL, $4, 0, $5)
		RETURNING id
	`, sub.Text, sub.AuthorName, sub.Token, embeddings.Encode(sub.Embedding), time.Now().UTC()).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateText
		}
		return 0, fmt.Errorf("insert submission: %w", err)
	}

	return id, nil
}

// All returns every submission with its vector, ordered by ascending id
func (s *Submissions) All(ctx context.Context) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, author_name, token, winner_mark, embedding, hand_over, created_at
		FROM submission
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		var sub models.Submission
		var mark sql.NullString
		var blob []byte
		if err := rows.Scan(&sub.ID, &sub.Text, &sub.AuthorName, &sub.Token,
			&mark, &blob, &sub.HandOver, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if mark.Valid {
			sub.WinnerMark = &mark.String
		}
		sub.Embedding, err = embeddings.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("submission %d: %w", sub.ID, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, nil
}

// List returns submissions for the operator view, without tokens or vectors
func (s *Submissions) List(ctx context.Context, filter string) ([]models.Submission, error) {
	query := `
		SELECT id, text, author_name, winner_mark, hand_over, created_at
		FROM submission
	`
	switch filter {
	case models.FilterUnhanded:
		query += " WHERE hand_over = 0"
	case models.FilterHanded:
		query += " WHERE hand_over > 0"
	case models.FilterWinning:
		query += " WHERE winner_mark IS NOT NULL"
	case models.FilterAll, "":
	default:
		return nil, fmt.Errorf("unknown filter %q", filter)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		var sub models.Submission
		var mark sql.NullString
		if err := rows.Scan(&sub.ID, &sub.Text, &sub.AuthorName, &mark, &sub.HandOver, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if mark.Valid {
			sub.WinnerMark = &mark.String
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, nil
}

// GetByIDAndToken returns the submission only if both id and token match.
// A wrong id and a wrong token are indistinguishable to the caller.
func (s *Submissions) GetByIDAndToken(ctx context.Context, id int64, token string) (models.Submission, error) {
	var sub models.Submission
	var mark sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, text, author_name, winner_mark, hand_over, created_at
		FROM submission
		WHERE id = $1 AND token = $2
	`, id, token).Scan(&sub.ID, &sub.Text, &sub.AuthorName, &mark, &sub.HandOver, &sub.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Submission{}, ErrNotFound
	}
	if err != nil {
		return models.Submission{}, fmt.Errorf("query submission: %w", err)
	}
	if mark.Valid {
		sub.WinnerMark = &mark.String
	}

	return sub, nil
}

// ReplaceWinnerMarks clears every winner mark, sets label on ids, and
// appends a settings row with judging_complete = true, all in one
// transaction. It refuses with ErrSubmissionsOpen if submissions were
// reopened before the transaction took the latest settings row.
func (s *Submissions) ReplaceWinnerMarks(ctx context.Context, ids []int64, label string) (models.Settings, error) {
	var judged models.Settings
	err := retryConflicts(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `
			UPDATE submission SET winner_mark = NULL WHERE winner_mark IS NOT NULL
		`); err != nil {
			return fmt.Errorf("clear winner marks: %w", err)
		}

		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `
				UPDATE submission SET winner_mark = $1 WHERE id = $2
			`, label, id)
			if err != nil {
				return fmt.Errorf("set winner mark on %d: %w", id, err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return fmt.Errorf("set winner mark on %d: %w", id, err)
			} else if n != 1 {
				return fmt.Errorf("set winner mark on %d: %w", id, ErrNotFound)
			}
		}

		judged, err = appendSetting(ctx, tx, func(cur models.Settings) (models.Settings, error) {
			if cur.SubmissionsOpen {
				return cur, ErrSubmissionsOpen
			}
			cur.JudgingComplete = true
			return cur, nil
		})
		if err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit judging: %w", err)
		}
		return nil
	})

	return judged, err
}

// ToggleHandover flips the handover flag between 0 and 1 and returns the
// new value
func (s *Submissions) ToggleHandover(ctx context.Context, id int64) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `
		UPDATE submission
		SET hand_over = CASE WHEN hand_over = 0 THEN 1 ELSE 0 END
		WHERE id = $1
		RETURNING hand_over
	`, id).Scan(&value)

	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("toggle handover: %w", err)
	}

	return value, nil
}

// SumHandover returns how many prizes have been handed over
func (s *Submissions) SumHandover(ctx context.Context) (int, error) {
	var sum int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(hand_over), 0) FROM submission
	`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum handover: %w", err)
	}
	return sum, nil
}

// Count returns the number of submissions
func (s *Submissions) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submission").Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}
