// Package timeline owns the planner's battle clock: a current-time
// value in [0, maxTime] minutes and an optional autoplay mode that
// advances it on a fixed-period ticker.
package timeline

import (
	"sync"
	"time"
)

// Preset bundles a tick period with the minutes each tick advances.
type Preset struct {
	Name       string
	TickPeriod time.Duration
	Step       float64
}

// The two playback presets observed in the planner. Fine playback
// redraws smoothly; coarse playback steps a whole minute at a time.
var (
	PresetFine   = Preset{Name: "fine", TickPeriod: 100 * time.Millisecond, Step: 0.2}
	PresetCoarse = Preset{Name: "coarse", TickPeriod: 500 * time.Millisecond, Step: 1}
)

// PresetByName resolves a configured preset name, defaulting to coarse.
func PresetByName(name string) Preset {
	if name == PresetFine.Name {
		return PresetFine
	}
	return PresetCoarse
}

// State is a snapshot of the clock for observers.
type State struct {
	Current float64 `json:"currentTime"`
	MaxTime float64 `json:"maxTime"`
	Playing bool    `json:"playing"`
}

// Engine is the timeline state machine. It is either idle or playing;
// while playing, a ticker goroutine owned by the engine advances the
// clock. The goroutine is stopped on every exit path (pause, seek,
// end of battle, Close), never left to advance a dead timeline.
type Engine struct {
	mu      sync.Mutex
	current float64
	maxTime float64
	preset  Preset
	playing bool

	// stop identifies the active playback session. Closing it stops
	// the session's goroutine; comparing identity keeps a stale
	// goroutine from ticking a newer session.
	stop chan struct{}

	onChange func(State)
}

// New creates an idle engine at t=0.
func New(maxTime float64, preset Preset) *Engine {
	return &Engine{maxTime: maxTime, preset: preset}
}

// SetOnChange registers a callback invoked (outside the engine lock)
// after every state transition. Used by the live broadcast hub.
func (e *Engine) SetOnChange(fn func(State)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// State returns a snapshot of the clock.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Current returns the clock value in minutes.
func (e *Engine) Current() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// IsPlaying reports whether autoplay is active.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// MaxTime returns the configured battle length in minutes.
func (e *Engine) MaxTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxTime
}

// Seek sets the clock to t, clamped into [0, maxTime]. A manual seek
// always cancels playback so the clock is not advancing underneath
// the user's scrub.
func (e *Engine) Seek(t float64) {
	e.mu.Lock()
	e.current = clamp(t, 0, e.maxTime)
	if e.playing {
		e.stopLocked()
	}
	st, fn := e.stateLocked(), e.onChange
	e.mu.Unlock()

	notify(fn, st)
}

// Play starts autoplay. Playing from the end restarts at 0; playing
// from anywhere else resumes from the current value. A no-op while
// already playing.
func (e *Engine) Play() {
	e.mu.Lock()
	if e.playing {
		e.mu.Unlock()
		return
	}
	if e.current >= e.maxTime {
		e.current = 0
	}
	e.playing = true
	e.stop = make(chan struct{})
	go e.run(e.stop)
	st, fn := e.stateLocked(), e.onChange
	e.mu.Unlock()

	notify(fn, st)
}

// Pause stops autoplay, keeping the clock where it is.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.stopLocked()
	st, fn := e.stateLocked(), e.onChange
	e.mu.Unlock()

	notify(fn, st)
}

// Close releases the ticker goroutine. Safe to call when idle.
func (e *Engine) Close() {
	e.Pause()
}

// run is the playback goroutine for one session.
func (e *Engine) run(session chan struct{}) {
	ticker := time.NewTicker(e.preset.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-session:
			return
		case <-ticker.C:
			if !e.advance(session) {
				return
			}
		}
	}
}

// advance moves the clock one step. Returns false when the session is
// over, either because playback was cancelled or the clock reached
// the end of the battle.
func (e *Engine) advance(session chan struct{}) bool {
	e.mu.Lock()
	if !e.playing || e.stop != session {
		e.mu.Unlock()
		return false
	}

	e.current = clamp(e.current+e.preset.Step, 0, e.maxTime)
	done := e.current >= e.maxTime
	if done {
		// Playback stops at the end; it does not loop automatically.
		e.stopLocked()
	}
	st, fn := e.stateLocked(), e.onChange
	e.mu.Unlock()

	notify(fn, st)
	return !done
}

// stopLocked ends the active session. Caller holds e.mu.
func (e *Engine) stopLocked() {
	close(e.stop)
	e.stop = nil
	e.playing = false
}

func (e *Engine) stateLocked() State {
	return State{Current: e.current, MaxTime: e.maxTime, Playing: e.playing}
}

func notify(fn func(State), st State) {
	if fn != nil {
		fn(st)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
