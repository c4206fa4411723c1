// Package event provides a minimal typed publish/subscribe stream for
// run-to-completion firmware. Unlike a queued message bus there are no
// goroutines, channels or locks: Publish calls every handler inline, in
// subscription order, before returning. Callers that mutate streams from
// an interrupt context must bracket the call in their own critical
// section.
package event

// Stream fans a value out to its subscribers.
type Stream[T any] struct {
	subs []*handler[T]
}

type handler[T any] struct {
	fn func(T)
}

// Subscribe registers fn and returns a cancel function. Cancel is
// idempotent.
func (s *Stream[T]) Subscribe(fn func(T)) (cancel func()) {
	h := &handler[T]{fn: fn}
	s.subs = append(s.subs, h)
	return func() {
		for i, cur := range s.subs {
			if cur == h {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers v to every subscriber inline.
func (s *Stream[T]) Publish(v T) {
	for _, h := range s.subs {
		h.fn(v)
	}
}
