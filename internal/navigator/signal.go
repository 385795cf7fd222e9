package navigator

// signal is a named notification with any number of subscribers.
// Subscribers run synchronously, in subscription order.
type signal[T any] struct {
	seq       int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// subscribe registers fn and returns a function that removes it.
func (s *signal[T]) subscribe(fn func(T)) func() {
	s.seq++
	id := s.seq
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *signal[T]) emit(v T) {
	// Listeners may unsubscribe while we iterate.
	listeners := s.listeners
	for _, l := range listeners {
		l.fn(v)
	}
}
