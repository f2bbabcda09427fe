// Package debounce runs deferred actions keyed by identity, where a later
// registration under the same key silently supersedes an earlier one.
package debounce

import (
	"sync"
	"time"

	"github.com/bethropolis/gotoflash/internal/clock"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// entry is one registration. Holder checks compare entry pointers, so two
// structurally equal actions scheduled separately are never confused.
type entry[A any] struct {
	action A
	timer  clock.Timer
}

// Scheduler holds at most one pending action per key and hands due actions to run.
type Scheduler[K comparable, A any] struct {
	clock clock.Clock
	run   func(A)

	mu      sync.Mutex
	holders map[K]*entry[A]
}

// New creates a scheduler that interprets actions with run.
func New[K comparable, A any](c clock.Clock, run func(A)) *Scheduler[K, A] {
	if c == nil {
		c = clock.System
	}
	return &Scheduler[K, A]{
		clock:   c,
		run:     run,
		holders: make(map[K]*entry[A]),
	}
}

// Schedule makes action the holder of key and runs it after delay unless a
// later Schedule or FireNow for the same key gets there first.
func (s *Scheduler[K, A]) Schedule(key K, delay time.Duration, action A) {
	e := &entry[A]{action: action}

	s.mu.Lock()
	if prev, ok := s.holders[key]; ok && prev.timer != nil {
		prev.timer.Stop()
		logger.DebugTagf("debounce", "Scheduler: superseding pending action for %v", key)
	}
	s.holders[key] = e
	// Assigned under the lock so a superseding call always sees the timer.
	e.timer = s.clock.AfterFunc(delay, func() { s.expire(key, e) })
	s.mu.Unlock()
}

// expire runs e only if it still holds key.
func (s *Scheduler[K, A]) expire(key K, e *entry[A]) {
	s.mu.Lock()
	current, ok := s.holders[key]
	if !ok || current != e {
		s.mu.Unlock()
		logger.DebugTagf("debounce", "Scheduler: stale timer for %v ignored", key)
		return
	}
	delete(s.holders, key)
	s.mu.Unlock()

	s.run(e.action)
}

// FireNow runs and clears the current holder of key. It reports whether there was one.
func (s *Scheduler[K, A]) FireNow(key K) bool {
	s.mu.Lock()
	e, ok := s.holders[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.holders, key)
	if e.timer != nil {
		e.timer.Stop()
	}
	s.mu.Unlock()

	logger.DebugTagf("debounce", "Scheduler: firing %v early", key)
	s.run(e.action)
	return true
}

// Pending reports whether key currently has a holder.
func (s *Scheduler[K, A]) Pending(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.holders[key]
	return ok
}

// Keys returns the keys that currently have a pending action.
func (s *Scheduler[K, A]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]K, 0, len(s.holders))
	for k := range s.holders {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of keys with a pending action.
func (s *Scheduler[K, A]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.holders)
}
