// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/talk-box/auth"
	"github.com/danielhkuo/talk-box/models"
	"github.com/danielhkuo/talk-box/store"
	"github.com/danielhkuo/talk-box/testutil"
)

func newSubmission(t *testing.T, text string) models.NewSubmission {
	t.Helper()
	token, err := auth.GenerateSubmissionToken()
	if err != nil {
		t.Fatal(err)
	}
	return models.NewSubmission{
		Text:       text,
		AuthorName: "Basho",
		Token:      token,
		Embedding:  testutil.BagOfWords(text),
	}
}

func TestOpenSeedsSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cur, err := store.NewSettings(db).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if cur.SequenceID != 1 || !cur.SubmissionsOpen || cur.JudgingComplete {
		t.Errorf("seed settings = %+v, want row 1 open and not judged", cur)
	}
	if cur.Phase() != models.PhaseOpen {
		t.Errorf("Phase() = %q, want %q", cur.Phase(), models.PhaseOpen)
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	if _, err := store.Open(context.Background(), "mysql", "whatever"); err == nil {
		t.Error("Open() with unsupported type should fail")
	}
}

func TestInsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)
	ctx := context.Background()

	first := newSubmission(t, "old pond frog jumps in")
	id1, err := subs.Insert(ctx, first)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	id2, err := subs.Insert(ctx, newSubmission(t, "silent garden moss"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	got, err := subs.GetByIDAndToken(ctx, id1, first.Token)
	if err != nil {
		t.Fatalf("GetByIDAndToken() error = %v", err)
	}
	if got.Text != first.Text || got.AuthorName != first.AuthorName || got.WinnerMark != nil || got.HandOver != 0 {
		t.Errorf("GetByIDAndToken() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	if _, err := subs.GetByIDAndToken(ctx, id2, first.Token); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByIDAndToken(wrong id) error = %v, want ErrNotFound", err)
	}
	if _, err := subs.GetByIDAndToken(ctx, id1, "not-the-token"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByIDAndToken(wrong token) error = %v, want ErrNotFound", err)
	}
}

func TestInsertDuplicateText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)
	ctx := context.Background()

	if _, err := subs.Insert(ctx, newSubmission(t, "old pond frog jumps in")); err != nil {
		t.Fatal(err)
	}

	_, err := subs.Insert(ctx, newSubmission(t, "old pond frog jumps in"))
	if !errors.Is(err, store.ErrDuplicateText) {
		t.Errorf("Insert(duplicate) error = %v, want ErrDuplicateText", err)
	}

	n, err := subs.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestConcurrentInsertSameText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)

	const workers = 10
	var ok, dup atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		sub := newSubmission(t, "cherry blossoms fall")
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := subs.Insert(context.Background(), sub)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, store.ErrDuplicateText):
				dup.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || dup.Load() != workers-1 {
		t.Errorf("got %d inserts and %d duplicates, want 1 and %d", ok.Load(), dup.Load(), workers-1)
	}
}

func TestAllDecodesEmbeddings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)
	ctx := context.Background()

	in := newSubmission(t, "old pond frog jumps in")
	if _, err := subs.Insert(ctx, in); err != nil {
		t.Fatal(err)
	}

	all, err := subs.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("All() returned %d rows, want 1", len(all))
	}
	if diff := cmp.Diff(in.Embedding, all[0].Embedding); diff != "" {
		t.Errorf("embedding mismatch (-want +got):\n%s", diff)
	}
	if all[0].Token != in.Token {
		t.Error("All() should carry the token for internal use")
	}
}

func TestReplaceWinnerMarks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)
	ctx := context.Background()

	id1, _ := testutil.CreateTestSubmission(t, db, "old pond frog jumps in", "Basho")
	id2, _ := testutil.CreateTestSubmission(t, db, "silent garden moss", "Buson")
	id3, _ := testutil.CreateTestSubmission(t, db, "old pond a frog leaps", "Issa")

	// Refused while submissions are open, and nothing changes
	if _, err := subs.ReplaceWinnerMarks(ctx, []int64{id1}, "Winner"); !errors.Is(err, store.ErrSubmissionsOpen) {
		t.Fatalf("ReplaceWinnerMarks() while open error = %v, want ErrSubmissionsOpen", err)
	}
	if got := testutil.WinnerIDs(t, db); len(got) != 0 {
		t.Fatalf("winner marks written while open: %v", got)
	}

	testutil.SetPhase(t, db, false, false)

	judged, err := subs.ReplaceWinnerMarks(ctx, []int64{id1, id3}, "Winner")
	if err != nil {
		t.Fatalf("ReplaceWinnerMarks() error = %v", err)
	}
	if !judged.JudgingComplete || judged.SubmissionsOpen {
		t.Errorf("returned settings = %+v, want judged and closed", judged)
	}
	if diff := cmp.Diff([]int64{id1, id3}, testutil.WinnerIDs(t, db)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}

	// Replacing clears the previous set entirely
	if _, err := subs.ReplaceWinnerMarks(ctx, []int64{id2}, "Grand Prize"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{id2}, testutil.WinnerIDs(t, db)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}

	winning, err := subs.List(ctx, models.FilterWinning)
	if err != nil {
		t.Fatal(err)
	}
	if len(winning) != 1 || winning[0].WinnerMark == nil || *winning[0].WinnerMark != "Grand Prize" {
		t.Errorf("winning list = %+v", winning)
	}
}

func TestReplaceWinnerMarksUnknownIDRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)
	settings := store.NewSettings(db)
	ctx := context.Background()

	id1, _ := testutil.CreateTestSubmission(t, db, "old pond frog jumps in", "Basho")
	testutil.SetPhase(t, db, false, false)
	before, err := settings.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := subs.ReplaceWinnerMarks(ctx, []int64{id1, id1 + 50}, "Winner"); err == nil {
		t.Fatal("ReplaceWinnerMarks() with unknown id should fail")
	}

	if got := testutil.WinnerIDs(t, db); len(got) != 0 {
		t.Errorf("partial winner marks left behind: %v", got)
	}
	after, err := settings.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.SequenceID != before.SequenceID || after.JudgingComplete {
		t.Errorf("settings changed by failed judging: before %+v, after %+v", before, after)
	}
}

func TestToggleSubmissionsOpenAppends(t *testing.T) {
	db := testutil.SetupTestDB(t)
	settings := store.NewSettings(db)
	ctx := context.Background()

	want := []bool{false, true, false}
	for i, open := range want {
		next, err := settings.ToggleSubmissionsOpen(ctx)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if next.SubmissionsOpen != open {
			t.Errorf("toggle %d: open = %v, want %v", i, next.SubmissionsOpen, open)
		}
		if next.SequenceID != int64(i+2) {
			t.Errorf("toggle %d: setting_id = %d, want %d", i, next.SequenceID, i+2)
		}
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM setting").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != len(want)+1 {
		t.Errorf("settings history has %d rows, want %d", rows, len(want)+1)
	}
}

func TestToggleKeepsJudgedFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	settings := store.NewSettings(db)
	testutil.SetPhase(t, db, false, true)

	next, err := settings.ToggleSubmissionsOpen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !next.SubmissionsOpen || !next.JudgingComplete {
		t.Errorf("reopened settings = %+v, want open with judged flag kept", next)
	}
	if next.Phase() != models.PhaseReopened {
		t.Errorf("Phase() = %q, want %q", next.Phase(), models.PhaseReopened)
	}
}

func TestConcurrentTogglesNoLostUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	settings := store.NewSettings(db)

	const toggles = 6
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := settings.ToggleSubmissionsOpen(context.Background()); err != nil {
				t.Errorf("toggle error: %v", err)
			}
		}()
	}
	wg.Wait()

	cur, err := settings.Latest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// An even number of toggles from open ends open
	if !cur.SubmissionsOpen || cur.SequenceID != toggles+1 {
		t.Errorf("after %d toggles settings = %+v", toggles, cur)
	}
}

func TestHandover(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subs := store.NewSubmissions(db)
	ctx := context.Background()

	id1, _ := testutil.CreateTestSubmission(t, db, "old pond frog jumps in", "Basho")
	id2, _ := testutil.CreateTestSubmission(t, db, "silent garden moss", "Buson")
	testutil.CreateTestSubmission(t, db, "old pond a frog leaps", "Issa")

	for _, id := range []int64{id1, id2} {
		v, err := subs.ToggleHandover(ctx, id)
		if err != nil || v != 1 {
			t.Fatalf("ToggleHandover(%d) = %d, %v", id, v, err)
		}
	}
	if v, err := subs.ToggleHandover(ctx, id2); err != nil || v != 0 {
		t.Fatalf("second ToggleHandover(%d) = %d, %v", id2, v, err)
	}

	sum, err := subs.SumHandover(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 1 {
		t.Errorf("SumHandover() = %d, want 1", sum)
	}

	if _, err := subs.ToggleHandover(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ToggleHandover(unknown) error = %v, want ErrNotFound", err)
	}

	tests := []struct {
		filter string
		want   int
	}{
		{models.FilterAll, 3},
		{"", 3},
		{models.FilterHanded, 1},
		{models.FilterUnhanded, 2},
		{models.FilterWinning, 0},
	}
	for _, tt := range tests {
		list, err := subs.List(ctx, tt.filter)
		if err != nil {
			t.Fatalf("List(%q) error = %v", tt.filter, err)
		}
		if len(list) != tt.want {
			t.Errorf("List(%q) returned %d, want %d", tt.filter, len(list), tt.want)
		}
		for _, s := range list {
			if s.Token != "" || s.Embedding != nil {
				t.Errorf("List(%q) exposes token or embedding for %d", tt.filter, s.ID)
			}
		}
	}

	if _, err := subs.List(ctx, "bogus"); err == nil {
		t.Error("List(bogus) should fail")
	}
}

func TestSumHandoverEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sum, err := store.NewSubmissions(db).SumHandover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum != 0 {
		t.Errorf("SumHandover() = %d, want 0", sum)
	}
}
