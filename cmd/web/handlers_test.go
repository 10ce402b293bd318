package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testScores = `[
  {"player_name": "amy", "score": 40, "difficulty": "Hard", "timestamp": "2026-01-02T10:00:00Z"},
  {"player_name": "bob", "score": 120, "difficulty": "Normal", "timestamp": "2026-01-02T11:00:00Z"},
  {"player_name": "cat", "score": 300, "difficulty": "Normal", "timestamp": "2026-01-03T11:00:00Z"}
]`

func newTestMux(t *testing.T, contents string) *http.ServeMux {
	t.Helper()
	path := filepath.Join(t.TempDir(), "high_scores.json")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return newMux("<p>ssh {{.SSHHost}}</p>", "snake.example.com", path, log.New(io.Discard))
}

func get(t *testing.T, mux http.Handler, target string) (*httptest.ResponseRecorder, scoresResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body scoresResponse
	if rec.Code == http.StatusOK && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, body
}

func TestIndexSubstitutesHost(t *testing.T) {
	rec, _ := get(t, newTestMux(t, ""), "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ssh snake.example.com") {
		t.Fatalf("index: %d %q", rec.Code, rec.Body.String())
	}

	rec, _ = get(t, newTestMux(t, ""), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path: %d", rec.Code)
	}
}

func TestScoresAll(t *testing.T) {
	_, body := get(t, newTestMux(t, testScores), "/api/scores")
	if body.Status != "ok" || len(body.Scores) != 3 {
		t.Fatalf("unexpected body %+v", body)
	}
	// Normal sorts before Hard, best first within a difficulty.
	if body.Scores[0].PlayerName != "cat" || body.Scores[2].PlayerName != "amy" {
		t.Fatalf("order: %+v", body.Scores)
	}
}

func TestScoresFilteredByDifficulty(t *testing.T) {
	_, body := get(t, newTestMux(t, testScores), "/api/scores?difficulty=normal")
	if body.Difficulty != "Normal" || len(body.Scores) != 2 || body.Scores[0].Score != 300 {
		t.Fatalf("unexpected body %+v", body)
	}

	_, body = get(t, newTestMux(t, testScores), "/api/scores?difficulty=extreme")
	if body.Scores == nil || len(body.Scores) != 0 {
		t.Fatalf("want empty list, got %+v", body.Scores)
	}
}

func TestScoresBadDifficulty(t *testing.T) {
	rec, _ := get(t, newTestMux(t, testScores), "/api/scores?difficulty=nightmare")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestScoresMissingAndCorruptFiles(t *testing.T) {
	_, body := get(t, newTestMux(t, ""), "/api/scores")
	if body.Status != "missing" || len(body.Scores) != 0 {
		t.Fatalf("missing file: %+v", body)
	}

	_, body = get(t, newTestMux(t, "{not json"), "/api/scores")
	if body.Status != "corrupt" || len(body.Scores) != 0 {
		t.Fatalf("corrupt file: %+v", body)
	}
}

func TestScoresRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t, "").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scores", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
