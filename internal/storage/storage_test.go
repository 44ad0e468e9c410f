package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRank(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var scores []HighScore
	for i := 0; i < 12; i++ {
		scores = append(scores, HighScore{Score: (i % 4) * 100, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	ranked := Rank(scores)
	if len(ranked) != MaxHighScores {
		t.Fatalf("Rank() kept %d, expected %d", len(ranked), MaxHighScores)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("not sorted at %d", i)
		}
	}
	// ties: most recent first
	if !ranked[0].CreatedAt.After(ranked[1].CreatedAt) || ranked[0].Score != ranked[1].Score {
		t.Errorf("tie order wrong: %+v %+v", ranked[0], ranked[1])
	}
}

func TestIsNewBest(t *testing.T) {
	table := []HighScore{{Score: 500}, {Score: 300}}

	tests := []struct {
		name  string
		table []HighScore
		score int
		want  bool
	}{
		{"beats top", table, 501, true},
		{"ties top", table, 500, false},
		{"below top", table, 400, false},
		{"empty table", nil, 1, true},
		{"zero score", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNewBest(tt.table, tt.score); got != tt.want {
				t.Errorf("IsNewBest(%d) = %v, expected %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestQualifies(t *testing.T) {
	full := make([]HighScore, MaxHighScores)
	for i := range full {
		full[i] = HighScore{Score: 1000 - i*100}
	}

	if !Qualifies(full[:3], 1) {
		t.Error("a short table accepts any positive score")
	}
	if Qualifies(full, 100) {
		t.Error("tying the last entry should not qualify")
	}
	if !Qualifies(full, 101) {
		t.Error("beating the last entry should qualify")
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("sqlite", filepath.Join(dir, "a.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Open(sqlite) returned %T", s)
	}
	s.Close()

	s, err = Open("json", filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("Open(json) failed: %v", err)
	}
	if _, ok := s.(*JSONStore); !ok {
		t.Errorf("Open(json) returned %T", s)
	}

	if _, err := Open("redis", "x"); err == nil {
		t.Error("Open(redis) should fail")
	}
	if _, err := Open("json", ""); err == nil {
		t.Error("empty path should fail")
	}
}
