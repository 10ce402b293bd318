package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/scores"
)

// scoresResponse is the body of /api/scores.
type scoresResponse struct {
	Difficulty string          `json:"difficulty,omitempty"`
	Status     string          `json:"status"`
	Scores     []scores.Record `json:"scores"`
}

func newMux(page, sshHost, scoresPath string, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	page = strings.ReplaceAll(page, "{{.SSHHost}}", sshHost)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})

	mux.HandleFunc("/api/scores", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		res := scores.ReadFile(scoresPath)
		if !res.OK() && res.Status != scores.LoadMissing {
			logger.Warn("serving empty high scores", "path", scoresPath, "status", res.Status, "err", res.Err)
		}
		body := scoresResponse{Status: res.Status.String(), Scores: res.Records}

		if name := r.URL.Query().Get("difficulty"); name != "" {
			level, err := difficulty.Parse(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			body.Difficulty = level.String()
			body.Scores = slices.DeleteFunc(body.Scores, func(rec scores.Record) bool {
				return rec.Difficulty != level
			})
		}
		slices.SortStableFunc(body.Scores, func(a, b scores.Record) int {
			if a.Difficulty != b.Difficulty {
				return int(a.Difficulty) - int(b.Difficulty)
			}
			return b.Score - a.Score
		})

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("encode scores", "err", err)
		}
	})

	return mux
}
