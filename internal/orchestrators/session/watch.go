package session

import (
	"context"
)

// Watch streams views until ctx ends or the session closes. The channel
// starts with the current view and only ever holds the newest one, so a
// slow reader skips intermediate versions. It is closed when the watch
// ends.
func (s *Session) Watch(ctx context.Context) <-chan View {
	ch := make(chan View, 1)

	s.mu.Lock()
	if s.closed {
		ch <- s.viewLocked()
		close(ch)
		s.mu.Unlock()
		return ch
	}
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	ch <- s.viewLocked()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
	}()

	return ch
}

// publishLocked bumps the version and hands the new view to every watcher
func (s *Session) publishLocked() {
	s.version++
	if len(s.watchers) == 0 {
		return
	}
	v := s.viewLocked()
	for _, ch := range s.watchers {
		offer(ch, v)
	}
}

// offer replaces whatever is buffered in ch with v
func offer(ch chan View, v View) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
