package editor

// Diff is the result of a committed session: parallel slices of the touched keys,
// their values before the stroke, and their values after it.
type Diff[K comparable, V any] struct {
	Keys   []K
	Before []V
	After  []V
}

// Len returns the number of touched keys.
func (d Diff[K, V]) Len() int { return len(d.Keys) }

// Session records the first-seen value of every key a stroke touches.
//
// A session is owned by one stroke at a time and is reused across strokes:
// Start clears the map without reallocating it.
type Session[K, V comparable] struct {
	original func(K) V // pre-edit value, read on first touch
	current  func(K) V // live value, read at commit

	before map[K]V
	order  []K
	active bool
}

// NewSession creates a session. original samples the value a key had before the
// stroke; current samples its live value. For most targets both read the same place.
func NewSession[K, V comparable](original, current func(K) V) *Session[K, V] {
	return &Session[K, V]{
		original: original,
		current:  current,
		before:   make(map[K]V),
	}
}

// Start begins a new stroke, dropping anything left from the previous one.
func (s *Session[K, V]) Start() {
	clear(s.before)
	s.order = s.order[:0]
	s.active = true
}

// Active reports whether a stroke is in progress.
func (s *Session[K, V]) Active() bool { return s.active }

// Len returns the number of distinct keys touched so far.
func (s *Session[K, V]) Len() int { return len(s.order) }

// Change records the pre-mutation value of k. Only the first call per key counts.
// Call it before writing to k.
func (s *Session[K, V]) Change(k K) {
	if !s.active {
		return
	}
	if _, seen := s.before[k]; seen {
		return
	}
	s.before[k] = s.original(k)
	s.order = append(s.order, k)
}

// Original returns the recorded pre-stroke value of k.
func (s *Session[K, V]) Original(k K) (V, bool) {
	v, ok := s.before[k]
	return v, ok
}

// Commit ends the stroke and returns the diff, re-sampling every touched key for
// its final value. Keys whose final value equals the original are left out.
// ok is false when no key actually changed.
func (s *Session[K, V]) Commit() (diff Diff[K, V], ok bool) {
	if !s.active {
		return Diff[K, V]{}, false
	}
	defer s.Discard()

	n := len(s.order)
	if n == 0 {
		return Diff[K, V]{}, false
	}

	diff = Diff[K, V]{
		Keys:   make([]K, 0, n),
		Before: make([]V, 0, n),
		After:  make([]V, 0, n),
	}
	for _, k := range s.order {
		before, after := s.before[k], s.current(k)
		if before == after {
			continue
		}
		diff.Keys = append(diff.Keys, k)
		diff.Before = append(diff.Before, before)
		diff.After = append(diff.After, after)
	}
	if len(diff.Keys) == 0 {
		return Diff[K, V]{}, false
	}
	return diff, true
}

// Rollback restores every touched key to its original value through restore,
// then discards the session.
func (s *Session[K, V]) Rollback(restore func(keys []K, values []V)) {
	if s.active && len(s.order) > 0 {
		values := make([]V, len(s.order))
		for i, k := range s.order {
			values[i] = s.before[k]
		}
		restore(s.order, values)
	}
	s.Discard()
}

// Discard ends the stroke without producing a diff.
func (s *Session[K, V]) Discard() {
	clear(s.before)
	s.order = s.order[:0]
	s.active = false
}
