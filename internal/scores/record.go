package scores

import (
	"cmp"
	"slices"
	"time"

	"github.com/tomz197/snake/internal/difficulty"
)

// Record is one finished game. Field names match the on-disk format.
type Record struct {
	PlayerName string           `json:"player_name"`
	Score      int              `json:"score"`
	Difficulty difficulty.Level `json:"difficulty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// normalize groups records by difficulty (easiest first), sorts each group by
// score descending and keeps at most max entries per group (0 means no cap).
// Ties keep their existing relative order, so older records rank first.
// Records with a negative score or unknown difficulty are dropped.
func normalize(records []Record, max int) []Record {
	out := make([]Record, 0, len(records))
	for _, level := range difficulty.All() {
		var group []Record
		for _, r := range records {
			if r.Difficulty == level && r.Score >= 0 {
				group = append(group, r)
			}
		}
		slices.SortStableFunc(group, func(a, b Record) int {
			return cmp.Compare(b.Score, a.Score)
		})
		if max > 0 && len(group) > max {
			group = group[:max]
		}
		out = append(out, group...)
	}
	return out
}

// filter returns the records for one difficulty, preserving order.
func filter(records []Record, level difficulty.Level) []Record {
	var out []Record
	for _, r := range records {
		if r.Difficulty == level {
			out = append(out, r)
		}
	}
	return out
}
