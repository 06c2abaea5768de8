// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/talk-box/cliparse"
	"github.com/danielhkuo/talk-box/contest"
	"github.com/danielhkuo/talk-box/embeddings"
	"github.com/danielhkuo/talk-box/models"
	"github.com/danielhkuo/talk-box/store"
	"github.com/danielhkuo/talk-box/testutil"
)

type testEnv struct {
	db    *sql.DB
	cfg   cliparse.Config
	svc   *contest.Service
	subs  *SubmissionHandler
	admin *AdminHandler
}

func setupTestEnv(t *testing.T, embedder embeddings.Embedder) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := contest.NewService(
		store.NewSubmissions(db),
		store.NewSettings(db),
		testutil.NewTestGateway(embedder),
		contest.Config{
			TargetPhrase: cfg.TargetPhrase,
			WinnerCount:  cfg.WinnerCount,
			WinnerLabel:  cfg.WinnerLabel,
			GoodsCount:   cfg.GoodsCount,
		},
	)

	return &testEnv{
		db:    db,
		cfg:   cfg,
		svc:   svc,
		subs:  NewSubmissionHandler(svc),
		admin: NewAdminHandler(svc, cfg),
	}
}

func (e *testEnv) submit(t *testing.T, text, author string) models.SubmitResponse {
	t.Helper()
	req := testutil.MakeRequest("POST", "/submissions", models.SubmitRequest{Text: text, AuthorName: author}, nil)
	w := httptest.NewRecorder()
	e.subs.Submit(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Submit(%q) failed: %d - %s", text, w.Code, w.Body.String())
	}
	var resp models.SubmitResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func (e *testEnv) result(t *testing.T, id int64, token string) *httptest.ResponseRecorder {
	t.Helper()
	idStr := strconv.FormatInt(id, 10)
	req := testutil.MakeRequest("GET", "/submissions/"+idStr+"/result", nil,
		map[string]string{"X-Submission-Token": token})
	req.SetPathValue("id", idStr)
	w := httptest.NewRecorder()
	e.subs.GetResult(w, req)
	return w
}

func TestSubmit(t *testing.T) {
	env := setupTestEnv(t, testutil.NewFakeEmbedder())

	req := testutil.MakeRequest("POST", "/submissions",
		models.SubmitRequest{Text: "old pond frog jumps in", AuthorName: "Basho"}, nil)
	w := httptest.NewRecorder()
	env.subs.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ID != 1 {
		t.Errorf("Expected id 1, got %d", resp.ID)
	}
	if resp.Token == "" {
		t.Error("Expected token in response")
	}
	if !strings.Contains(resp.Message, "1st entry") {
		t.Errorf("Expected entry number in message, got %q", resp.Message)
	}

	var stored string
	if err := env.db.QueryRow("SELECT token FROM submission WHERE id = $1", resp.ID).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored != resp.Token {
		t.Error("Returned token does not match stored token")
	}
}

func TestSubmitErrors(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		closed     bool
		wantStatus int
	}{
		{"invalid JSON", `{not json}`, false, http.StatusBadRequest},
		{"empty body", ``, false, http.StatusBadRequest},
		{"text too short", `{"text":"frog","author_name":"Basho"}`, false, http.StatusBadRequest},
		{"text too long", `{"text":"` + strings.Repeat("x", 26) + `","author_name":"Basho"}`, false, http.StatusBadRequest},
		{"missing author", `{"text":"old pond frog jumps in"}`, false, http.StatusBadRequest},
		{"contest closed", `{"text":"old pond frog jumps in","author_name":"Basho"}`, true, http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupTestEnv(t, testutil.NewFakeEmbedder())
			if tc.closed {
				testutil.SetPhase(t, env.db, false, false)
			}

			req := httptest.NewRequest("POST", "/submissions", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			env.subs.Submit(w, req)

			testutil.AssertStatus(t, w, tc.wantStatus)

			var count int
			env.db.QueryRow("SELECT COUNT(*) FROM submission").Scan(&count)
			if count != 0 {
				t.Errorf("Expected no rows, got %d", count)
			}
		})
	}
}

func TestSubmitDuplicate(t *testing.T) {
	env := setupTestEnv(t, testutil.NewFakeEmbedder())
	env.submit(t, "old pond frog jumps in", "Basho")

	req := testutil.MakeRequest("POST", "/submissions",
		models.SubmitRequest{Text: "old pond frog jumps in", AuthorName: "Copycat"}, nil)
	w := httptest.NewRecorder()
	env.subs.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != msgDuplicate {
		t.Errorf("Expected duplicate message, got %q", resp.Message)
	}
}

func TestSubmitEmbeddingUnavailable(t *testing.T) {
	env := setupTestEnv(t, &testutil.FailingEmbedder{})

	req := testutil.MakeRequest("POST", "/submissions",
		models.SubmitRequest{Text: "old pond frog jumps in", AuthorName: "Basho"}, nil)
	w := httptest.NewRecorder()
	env.subs.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	body := w.Body.String()
	if strings.Contains(body, "connection refused") || strings.Contains(body, "fake:") {
		t.Errorf("Response leaks internal detail: %s", body)
	}
}

func TestGetResultPending(t *testing.T) {
	env := setupTestEnv(t, testutil.NewFakeEmbedder())
	sub := env.submit(t, "old pond frog jumps in", "Basho")

	w := env.result(t, sub.ID, sub.Token)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.ResultPending {
		t.Errorf("Expected pending, got %+v", resp)
	}
	if resp.Label != "" {
		t.Error("Pending result must not carry a label")
	}
}

func TestGetResultBadRequests(t *testing.T) {
	env := setupTestEnv(t, testutil.NewFakeEmbedder())
	sub := env.submit(t, "old pond frog jumps in", "Basho")

	t.Run("missing token", func(t *testing.T) {
		w := env.result(t, sub.ID, "")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/submissions/abc/result", nil,
			map[string]string{"X-Submission-Token": sub.Token})
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()
		env.subs.GetResult(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetResultNotFoundIsGeneric(t *testing.T) {
	env := setupTestEnv(t, testutil.NewFakeEmbedder())
	first := env.submit(t, "old pond frog jumps in", "Basho")
	second := env.submit(t, "silent garden moss", "Buson")
	testutil.SetPhase(t, env.db, false, false)
	if _, err := env.svc.RunJudging(t.Context(), env.cfg.TargetPhrase, 1); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		id    int64
		token string
	}{
		{"wrong token", first.ID, second.Token},
		{"wrong id", second.ID + 10, first.Token},
		{"garbage token", first.ID, "abc"},
	}

	var bodies []string
	for _, tc := range cases {
		w := env.result(t, tc.id, tc.token)
		testutil.AssertStatus(t, w, http.StatusNotFound)
		bodies = append(bodies, w.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("Not-found responses differ:\n%s\n%s", bodies[0], bodies[i])
		}
	}
}

func TestGetContest(t *testing.T) {
	env := setupTestEnv(t, testutil.NewFakeEmbedder())
	env.submit(t, "old pond frog jumps in", "Basho")

	req := testutil.MakeRequest("GET", "/contest", nil, nil)
	w := httptest.NewRecorder()
	env.subs.GetContest(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Phase != models.PhaseOpen || !resp.SubmissionsOpen || resp.Submissions != 1 {
		t.Errorf("Unexpected status %+v", resp)
	}
	if resp.GoodsRemaining == nil || *resp.GoodsRemaining != env.cfg.GoodsCount {
		t.Errorf("Expected %d goods remaining, got %v", env.cfg.GoodsCount, resp.GoodsRemaining)
	}
}
