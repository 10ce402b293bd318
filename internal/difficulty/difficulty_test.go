package difficulty

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestHarderLevelsTickFasterAndScoreMore(t *testing.T) {
	levels := All()
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1].Settings(), levels[i].Settings()
		if cur.Interval >= prev.Interval {
			t.Fatalf("%v interval %v not shorter than %v interval %v", levels[i], cur.Interval, levels[i-1], prev.Interval)
		}
		if cur.Multiplier <= prev.Multiplier {
			t.Fatalf("%v multiplier %v not above %v multiplier %v", levels[i], cur.Multiplier, levels[i-1], prev.Multiplier)
		}
	}
}

func TestNextPrevWrap(t *testing.T) {
	if Extreme.Next() != Easy {
		t.Fatalf("Extreme.Next: got %v", Extreme.Next())
	}
	if Easy.Prev() != Extreme {
		t.Fatalf("Easy.Prev: got %v", Easy.Prev())
	}
	for _, l := range All() {
		if l.Next().Prev() != l {
			t.Fatalf("Next/Prev not inverse for %v", l)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"Easy", Easy},
		{"normal", Normal},
		{" HARD ", Hard},
		{"Extreme", Extreme},
		{"Medium", Normal},
		{"Expert", Extreme},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q): got %v want %v", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("nightmare"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestJSONUsesNames(t *testing.T) {
	data, err := json.Marshal(struct {
		D Level `json:"difficulty"`
	}{Hard})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"difficulty":"Hard"}` {
		t.Fatalf("unexpected encoding: %s", data)
	}

	var out struct {
		D Level `json:"difficulty"`
	}
	if err := json.Unmarshal([]byte(`{"difficulty":"Expert"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.D != Extreme {
		t.Fatalf("legacy name decoded to %v", out.D)
	}
}

func TestInvalidLevelFallsBackToNormal(t *testing.T) {
	if Level(42).Settings() != Normal.Settings() {
		t.Fatalf("invalid level should use Normal settings")
	}
	if _, err := Level(-1).MarshalText(); err == nil {
		t.Fatalf("expected error marshalling invalid level")
	}
}
