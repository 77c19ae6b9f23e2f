// Package player owns the single playback session: source assignment,
// play/pause transitions, error recovery, and suppression of results from
// superseded play attempts.
package player

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
)

// ErrInterrupted marks a play attempt aborted because a newer request replaced
// it. It is expected during rapid track switching and never surfaces to the
// user.
var ErrInterrupted = errors.New("playback interrupted by a newer request")

// ErrNotPlayable marks a track with no usable audio source. Terminal: there is
// nothing to retry.
var ErrNotPlayable = errors.New("track has no playable audio source")

// State is the playback lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Source abstracts the underlying media element. Load assigns a new source
// URL; Play blocks until playback is confirmed (or fails) and is called from
// its own goroutine; Pause stops playback.
type Source interface {
	Load(url string)
	Play(ctx context.Context) error
	Pause()
}

// Event is a snapshot of the controller emitted on every state transition.
type Event struct {
	State   State        `json:"state"`
	Track   *model.Track `json:"track,omitempty"`
	Playing bool         `json:"playing"`
	Error   string       `json:"error,omitempty"`
}

// Controller is the playback state machine. Every play request is tagged with
// a monotonically increasing attempt number; a completion whose tag no longer
// matches the current counter is discarded wholesale, so stale asynchronous
// results never overwrite newer state.
type Controller struct {
	mu      sync.Mutex
	source  Source
	track   *model.Track
	state   State
	playing bool // play intent
	attempt uint64
	lastErr error

	onEnded func()
	onError func(error)
	onState func(Event)
	events  chan Event
}

// NewController creates a Controller over the given media source.
func NewController(source Source) *Controller {
	c := &Controller{source: source, state: StateIdle, events: make(chan Event, 64)}
	go c.dispatchEvents()
	return c
}

// dispatchEvents delivers state events to the observer one at a time, in
// transition order.
func (c *Controller) dispatchEvents() {
	for event := range c.events {
		c.mu.Lock()
		fn := c.onState
		c.mu.Unlock()
		if fn != nil {
			fn(event)
		}
	}
}

// OnEnded registers the natural-end notification. The caller is responsible
// for advancing to the next track.
func (c *Controller) OnEnded(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEnded = fn
}

// OnError registers the terminal playback error notification.
func (c *Controller) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// OnStateChange registers an observer for every state transition.
func (c *Controller) OnStateChange(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

func validSource(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// SetTrack switches the session to a new track. Any in-flight play attempt is
// logically cancelled; when play intent is active the new track starts
// immediately with a fresh attempt number.
func (c *Controller) SetTrack(track *model.Track) {
	c.mu.Lock()

	// Invalidate whatever is in flight.
	c.attempt++
	c.track = track
	c.lastErr = nil

	if track == nil {
		c.playing = false
		c.setStateLocked(StateIdle)
		c.mu.Unlock()
		return
	}

	if !track.Playable() || !validSource(track.AudioURL) {
		c.failLocked(ErrNotPlayable)
		c.mu.Unlock()
		return
	}

	c.source.Load(track.AudioURL)
	if c.playing {
		c.startPlayLocked()
	} else {
		c.setStateLocked(StateLoading)
	}
	c.mu.Unlock()
}

// Play sets play intent and issues a new play attempt for the current track.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}
	if !c.track.Playable() || !validSource(c.track.AudioURL) {
		c.failLocked(ErrNotPlayable)
		return
	}

	c.playing = true
	c.lastErr = nil
	c.startPlayLocked()
}

// startPlayLocked launches an asynchronous play attempt tagged with a fresh
// attempt number. Caller holds the lock.
func (c *Controller) startPlayLocked() {
	c.attempt++
	seq := c.attempt
	c.setStateLocked(StateLoading)

	go func() {
		err := c.source.Play(context.Background())
		c.completePlay(seq, err)
	}()
}

// completePlay resolves one play attempt. Outcomes of superseded attempts are
// discarded regardless of success or failure.
func (c *Controller) completePlay(seq uint64, err error) {
	c.mu.Lock()

	if seq != c.attempt {
		// A newer request owns the session now.
		c.mu.Unlock()
		return
	}

	if errors.Is(err, ErrInterrupted) {
		// Expected during rapid switching, not a user-visible error.
		logger.Debug("play attempt interrupted", logger.Int64("attempt", int64(seq)))
		c.mu.Unlock()
		return
	}

	if !c.playing {
		// Paused while the attempt was in flight. Pause discards the
		// outcome either way: a success must not resume, and a failure a
		// pause provoked must not surface. Error stays reachable only from
		// an active attempt.
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		return
	}

	c.setStateLocked(StatePlaying)
	c.mu.Unlock()
}

// Pause stops playback and clears any pending error. A pending load is not
// cancelled.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.source.Pause()
	c.playing = false
	c.lastErr = nil
	if c.state != StateIdle {
		c.setStateLocked(StatePaused)
	}
}

// Ended reports that the current track finished naturally. The registered
// OnEnded callback decides what plays next.
func (c *Controller) Ended() {
	c.mu.Lock()
	c.playing = false
	if c.state != StateIdle {
		c.setStateLocked(StatePaused)
	}
	ended := c.onEnded
	c.mu.Unlock()

	if ended != nil {
		ended()
	}
}

// failLocked records a terminal playback error. Caller holds the lock.
func (c *Controller) failLocked(err error) {
	c.playing = false
	c.lastErr = err
	c.setStateLocked(StateError)
	logger.Warn("playback failed", logger.ErrorField(err))

	if c.onError != nil {
		fn := c.onError
		go fn(err)
	}
}

// setStateLocked transitions the state and queues the event for ordered
// delivery. Caller holds the lock; the send never blocks. Every event is a
// full snapshot, so under backpressure the oldest one is the right drop.
func (c *Controller) setStateLocked(state State) {
	c.state = state
	event := c.snapshotLocked()

	select {
	case c.events <- event:
	default:
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- event:
		default:
		}
	}
}

func (c *Controller) snapshotLocked() Event {
	event := Event{State: c.state, Track: c.track, Playing: c.playing}
	if c.lastErr != nil {
		event.Error = c.lastErr.Error()
	}
	return event
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Track returns the current track, nil when idle.
func (c *Controller) Track() *model.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.track
}
