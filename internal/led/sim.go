package led

import "sync"

// Sim keeps the last frame in memory instead of driving hardware.
type Sim struct {
	mu     sync.Mutex
	last   []byte
	frames int
	closed bool
}

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.last = append(s.last[:0], rgb...)
	s.frames++
	return nil
}

func (s *Sim) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Last returns a copy of the last frame and the number of frames written.
func (s *Sim) Last() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...), s.frames
}
