// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/talk-box/auth"
	"github.com/danielhkuo/talk-box/cliparse"
	"github.com/danielhkuo/talk-box/embeddings"
	"github.com/danielhkuo/talk-box/store"
)

// TestDimension is the vector length produced by FakeEmbedder
const TestDimension = 256

// TestAdminKey is the operator key in GetTestConfig
const TestAdminKey = "test-admin-key"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The settings table starts with submissions open and not judged.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "talkbox.db")
	db, err := store.Open(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		AdminKey:         TestAdminKey,
		TargetPhrase:     "old pond frog jumps in water",
		WinnerCount:      2,
		WinnerLabel:      "Winner",
		GoodsCount:       10,
		EmbedProvider:    "ollama",
		EmbedDimension:   TestDimension,
		EmbedTimeout:     time.Second,
		EmbedConcurrency: 4,
	}
}

// FakeEmbedder maps text to a bag-of-words count vector: each lowercased
// word adds 1 to the bucket its FNV-1a hash selects. Texts sharing more
// words have a larger inner product.
type FakeEmbedder struct {
	Calls atomic.Int32
}

func NewFakeEmbedder() *FakeEmbedder {
	return &FakeEmbedder{}
}

func (f *FakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.Calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BagOfWords(text), nil
}

func (f *FakeEmbedder) Name() string { return "fake:bag-of-words" }

// BagOfWords is the vector FakeEmbedder returns for text
func BagOfWords(text string) []float32 {
	vec := make([]float32, TestDimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(word))
		vec[h.Sum64()%TestDimension]++
	}
	return vec
}

// FailingEmbedder always fails, like an unreachable provider
type FailingEmbedder struct {
	Calls atomic.Int32
}

func (f *FailingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.Calls.Add(1)
	return nil, errors.New("connection refused")
}

func (f *FailingEmbedder) Name() string { return "fake:failing" }

// NewTestGateway wraps embedder with the test dimension and timeout
func NewTestGateway(embedder embeddings.Embedder) *embeddings.Gateway {
	return embeddings.NewGateway(embedder, TestDimension, time.Second, 4)
}

// CreateTestSubmission inserts a submission directly and returns its id
// and token
func CreateTestSubmission(t *testing.T, db *sql.DB, text, authorName string) (int64, string) {
	t.Helper()

	token, _ := auth.GenerateSubmissionToken()
	var id int64
	err := db.QueryRow(`
		INSERT INTO submission (text, author_name, token, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, text, authorName, token, embeddings.Encode(BagOfWords(text)), time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test submission: %v", err)
	}

	return id, token
}

// SetPhase appends a settings row with the given flags
func SetPhase(t *testing.T, db *sql.DB, submissionsOpen, judgingComplete bool) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO setting (setting_id, submissions_open, judging_complete, created_at)
		SELECT MAX(setting_id) + 1, $1, $2, $3 FROM setting
	`, submissionsOpen, judgingComplete, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to set phase: %v", err)
	}
}

// WinnerIDs returns the ids of all submissions with a winner mark
func WinnerIDs(t *testing.T, db *sql.DB) []int64 {
	t.Helper()

	rows, err := db.Query("SELECT id FROM submission WHERE winner_mark IS NOT NULL ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query winners: %v", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Failed to scan winner: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
