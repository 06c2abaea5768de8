// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists submissions and the contest settings history over
database/sql. Both SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq) are
supported with the same queries.

	conn, err := store.Open(ctx, "sqlite", "talkbox.db")
	subs := store.NewSubmissions(conn)
	settings := store.NewSettings(conn)

# Settings History

Settings rows are never updated. Each change inserts latest+1; a writer
that loses the race on the key gets ErrConflict internally and the whole
transaction is retried.

# Judging Writes

ReplaceWinnerMarks clears all marks, sets the new ones, and appends the
judged settings row in one transaction. Readers never see a partial
winner set.
*/
package store
