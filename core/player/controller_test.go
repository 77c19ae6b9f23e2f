package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/VYD3N/tezos-music-player/model"
)

// fakeSource hands each Play call a result channel so tests decide exactly
// when and how every attempt completes.
type fakeSource struct {
	mu      sync.Mutex
	loads   []string
	pauses  int
	plays   []chan error
	started chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{started: make(chan struct{}, 16)}
}

func (f *fakeSource) Load(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, url)
}

func (f *fakeSource) Play(ctx context.Context) error {
	f.mu.Lock()
	ch := make(chan error, 1)
	f.plays = append(f.plays, ch)
	f.mu.Unlock()
	f.started <- struct{}{}
	return <-ch
}

func (f *fakeSource) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
}

// waitStarted blocks until one more Play attempt is running.
func (f *fakeSource) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a play attempt to start")
	}
}

// finish resolves the i-th Play attempt.
func (f *fakeSource) finish(t *testing.T, i int, err error) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.plays) {
		t.Fatalf("no play attempt %d, only %d started", i, len(f.plays))
	}
	f.plays[i] <- err
}

func waitState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Snapshot().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", c.Snapshot().State, want)
}

func playableTrack(id string) *model.Track {
	return &model.Track{ID: id, Title: "Track " + id, AudioURL: "https://ipfs.io/ipfs/" + id}
}

func TestPlaySuccess(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)
	src.finish(t, 0, nil)

	waitState(t, c, StatePlaying)
	snap := c.Snapshot()
	if !snap.Playing || snap.Error != "" {
		t.Fatalf("snapshot = %+v, want playing with no error", snap)
	}
}

func TestStaleCompletionDiscarded(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)

	// Switching tracks while play intent is active starts a fresh attempt.
	c.SetTrack(playableTrack("b"))
	src.waitStarted(t)

	// The superseded attempt failing must not disturb the new session.
	src.finish(t, 0, errors.New("network failure on stale attempt"))
	time.Sleep(20 * time.Millisecond)
	if snap := c.Snapshot(); snap.State == StateError {
		t.Fatalf("stale failure leaked into session: %+v", snap)
	}

	src.finish(t, 1, nil)
	waitState(t, c, StatePlaying)
	if got := c.Track().ID; got != "b" {
		t.Fatalf("current track = %s, want b", got)
	}
}

func TestInterruptedAttemptIsSilent(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)

	// A second Play replaces the attempt; the first one aborts with
	// ErrInterrupted and must not surface as an error.
	c.Play()
	src.waitStarted(t)
	src.finish(t, 0, ErrInterrupted)
	src.finish(t, 1, nil)

	waitState(t, c, StatePlaying)
	if snap := c.Snapshot(); snap.Error != "" {
		t.Fatalf("interrupted attempt surfaced an error: %q", snap.Error)
	}
}

func TestUnplayableTrackIsTerminalError(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(&model.Track{ID: "x", Title: "No Audio"})
	waitState(t, c, StateError)

	snap := c.Snapshot()
	if snap.Error == "" {
		t.Fatal("expected an error message in the snapshot")
	}
	if snap.Playing {
		t.Fatal("play intent must be cleared on a terminal error")
	}
	if len(src.plays) != 0 {
		t.Fatalf("no play attempt should start for an unplayable track, got %d", len(src.plays))
	}
}

func TestPlayFailureReportsError(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	var reported error
	var mu sync.Mutex
	c.OnError(func(err error) {
		mu.Lock()
		reported = err
		mu.Unlock()
	})

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)
	src.finish(t, 0, errors.New("media unreachable"))

	waitState(t, c, StateError)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := reported != nil
		mu.Unlock()
		if done {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("error callback never fired")
}

func TestPauseClearsError(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(&model.Track{ID: "x"})
	waitState(t, c, StateError)

	c.Pause()
	waitState(t, c, StatePaused)
	if snap := c.Snapshot(); snap.Error != "" {
		t.Fatalf("pause must clear the error, got %q", snap.Error)
	}
}

func TestPauseDuringLoadStaysPaused(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)

	// Pausing does not cancel the in-flight attempt; its success must not
	// override the pause.
	c.Pause()
	waitState(t, c, StatePaused)
	src.finish(t, 0, nil)

	time.Sleep(20 * time.Millisecond)
	if snap := c.Snapshot(); snap.State != StatePaused || snap.Playing {
		t.Fatalf("late success overrode pause: %+v", snap)
	}
}

func TestPauseDuringLoadDiscardsLateFailure(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)

	// Pausing aborts the media element's play promise; the rejection that
	// provokes must not surface after the session settled on Paused.
	c.Pause()
	waitState(t, c, StatePaused)
	src.finish(t, 0, errors.New("network failure"))

	time.Sleep(20 * time.Millisecond)
	snap := c.Snapshot()
	if snap.State != StatePaused || snap.Playing || snap.Error != "" {
		t.Fatalf("late failure overrode pause: %+v", snap)
	}
}

func TestStateEventsDeliveredInOrder(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	var mu sync.Mutex
	var got []State
	c.OnStateChange(func(e Event) {
		mu.Lock()
		got = append(got, e.State)
		mu.Unlock()
	})

	c.SetTrack(playableTrack("a")) // loading
	c.Pause()                      // paused
	c.SetTrack(nil)                // idle

	want := []State{StateLoading, StatePaused, StateIdle}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= len(want) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("delivered %d events, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event order = %v, want %v", got, want)
		}
	}
}

func TestSetTrackNilResetsToIdle(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	c.SetTrack(playableTrack("a"))
	c.SetTrack(nil)

	waitState(t, c, StateIdle)
	if c.Track() != nil {
		t.Fatal("track should be nil after reset")
	}
}

func TestEndedInvokesCallback(t *testing.T) {
	src := newFakeSource()
	c := NewController(src)

	ended := make(chan struct{}, 1)
	c.OnEnded(func() { ended <- struct{}{} })

	c.SetTrack(playableTrack("a"))
	c.Play()
	src.waitStarted(t)
	src.finish(t, 0, nil)
	waitState(t, c, StatePlaying)

	c.Ended()
	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("end callback never fired")
	}
	waitState(t, c, StatePaused)
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateIdle:    "idle",
		StateLoading: "loading",
		StatePlaying: "playing",
		StatePaused:  "paused",
		StateError:   "error",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
