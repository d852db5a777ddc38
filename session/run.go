package session

import (
	"context"
	"time"
)

// Start begins auto-trading: one goroutine ticks every TickInterval until
// Stop, Close or ctx cancellation. Starting a running session is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.runMu.Lock()
	started := s.startLocked(ctx)
	s.runMu.Unlock()

	if started {
		s.notify(s.Snapshot())
	}
}

// Stop halts auto-trading and returns once the tick goroutine has exited.
// No tick runs after Stop returns. Stopping a stopped session is a no-op.
func (s *Session) Stop() {
	s.runMu.Lock()
	stopped := s.stopLocked()
	s.runMu.Unlock()

	if stopped {
		s.notify(s.Snapshot())
	}
}

// Toggle flips between stopped and running and reports the new state.
func (s *Session) Toggle(ctx context.Context) bool {
	s.runMu.Lock()
	var flipped bool
	if s.Running() {
		flipped = s.stopLocked()
	} else {
		flipped = s.startLocked(ctx)
	}
	running := s.Running()
	s.runMu.Unlock()

	if flipped {
		s.notify(s.Snapshot())
	}
	return running
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Close stops the session and closes the journal sink.
func (s *Session) Close() error {
	s.Stop()
	return s.sink.Close()
}

// startLocked requires runMu.
func (s *Session) startLocked(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.running = true
	s.seq++
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.log.WithField("interval", s.cfg.TickInterval.String()).Info("auto-trading started")
	go s.loop(ctx, done)
	return true
}

// stopLocked requires runMu. It must not hold mu while waiting, since the
// loop needs mu to finish an in-flight tick.
func (s *Session) stopLocked() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	s.running = false
	s.seq++
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	cancel()
	<-done
	s.log.Info("auto-trading stopped")
	return true
}

func (s *Session) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			// parent context cancelled without Stop
			if s.done == done {
				s.running = false
				s.seq++
				s.cancel, s.done = nil, nil
			}
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.running {
				s.mu.Unlock()
				return
			}
			s.tickLocked()
			snap := s.snapshotLocked()
			s.mu.Unlock()

			s.notify(snap)
		}
	}
}
