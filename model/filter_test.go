package model

import "testing"

func f(v float64) *float64 { return &v }

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name string
		rng  Range
		v    float64
		want bool
	}{
		{"unbounded", Range{}, 42, true},
		{"inside", Range{Min: f(10), Max: f(50)}, 42, true},
		{"inclusive min", Range{Min: f(42)}, 42, true},
		{"inclusive max", Range{Max: f(42)}, 42, true},
		{"below min", Range{Min: f(43)}, 42, false},
		{"above max", Range{Max: f(41)}, 42, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rng.Contains(tc.v); got != tc.want {
				t.Fatalf("Contains(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestCriteriaEmpty(t *testing.T) {
	if !(Criteria{}).Empty() {
		t.Fatal("zero criteria should be empty")
	}
	if (Criteria{Genres: []string{"ambient"}}).Empty() {
		t.Fatal("populated categorical should not be empty")
	}
	if (Criteria{Tempo: Range{Min: f(90)}}).Empty() {
		t.Fatal("populated range should not be empty")
	}
}

func TestPlaylistContains(t *testing.T) {
	p := &Playlist{TrackIDs: []string{"a", "b"}}
	if !p.Contains("a") || p.Contains("z") {
		t.Fatal("membership check wrong")
	}
}

func TestTrackPlayable(t *testing.T) {
	if (&Track{}).Playable() {
		t.Fatal("empty audio url must not be playable")
	}
	if !(&Track{AudioURL: "https://x/1.mp3"}).Playable() {
		t.Fatal("http audio url must be playable")
	}
}
