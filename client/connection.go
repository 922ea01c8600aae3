package client

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type listener struct {
	id int64
	fn func(connected bool)
}

// connState is the per-client connectivity flag and its observers.
//
// Flips are serialised by flipMu so observers see every transition exactly
// once and in order, even when requests finish on several goroutines.
// Observers run while flipMu is held: they must not block, and must not
// issue requests through the same client.
type connState struct {
	connected atomic.Bool

	flipMu sync.Mutex

	mu        sync.Mutex // guards listeners and nextID
	listeners []listener
	nextID    int64

	log   *zerolog.Logger
	gauge prometheus.Gauge
	label string // base_url metric label
}

func newConnState(initial bool, baseURL string, log *zerolog.Logger) *connState {
	s := &connState{
		log:   log,
		gauge: connectionState.WithLabelValues(baseURL),
		label: baseURL,
	}
	s.connected.Store(initial)
	s.gauge.Set(boolGauge(initial))
	return s
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func (s *connState) get() bool { return s.connected.Load() }

// subscribe registers fn and returns a function that removes it.
func (s *connState) subscribe(fn func(bool)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// set stores v and notifies observers if the state actually changed. It
// reports whether a flip happened.
func (s *connState) set(v bool) bool {
	if s.connected.Load() == v {
		return false
	}

	s.flipMu.Lock()
	defer s.flipMu.Unlock()
	// re-check: another goroutine may have flipped while we waited
	if s.connected.Load() == v {
		return false
	}
	s.connected.Store(v)

	s.mu.Lock()
	snapshot := make([]listener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	state := "disconnected"
	if v {
		state = "connected"
	}
	s.gauge.Set(boolGauge(v))
	connectionChangesTotal.WithLabelValues(s.label, state).Inc()
	s.log.Info().Bool("connected", v).Int("listeners", len(snapshot)).Msg("connection state changed")

	for _, l := range snapshot {
		s.notify(l, v)
	}
	return true
}

func (s *connState) notify(l listener, v bool) {
	// Guard against panics in the user-supplied observer.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Int64("listener", l.id).Msg("connection listener panic")
		}
	}()
	l.fn(v)
}
