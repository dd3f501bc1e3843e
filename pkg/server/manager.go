package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// SessionManager tracks connected clients.
type SessionManager struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byID    map[string]*Client
	closing bool

	maxSessions int

	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64
	peak         int

	logger *slog.Logger
}

// ManagerStats is a snapshot of session counts.
type ManagerStats struct {
	Active       int
	TotalCreated uint64
	TotalClosed  uint64
	Peak         int
}

// NewSessionManager creates a manager. maxSessions 0 means no limit.
func NewSessionManager(maxSessions int, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		clients:     make(map[*Client]struct{}),
		byID:        make(map[string]*Client),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// reserve reports whether another session may connect.
func (sm *SessionManager) reserve() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.closing {
		return ErrServerClosed
	}
	if sm.maxSessions > 0 && len(sm.clients) >= sm.maxSessions {
		return ErrMaxSessionsReached
	}
	return nil
}

func (sm *SessionManager) add(c *Client) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.closing {
		return ErrServerClosed
	}
	if sm.maxSessions > 0 && len(sm.clients) >= sm.maxSessions {
		return ErrMaxSessionsReached
	}
	sm.clients[c] = struct{}{}
	// A reconnecting browser reuses its session cookie; the newest
	// connection wins the id.
	sm.byID[c.session.ID()] = c
	if n := len(sm.clients); n > sm.peak {
		sm.peak = n
	}
	sm.totalCreated.Add(1)
	return nil
}

func (sm *SessionManager) remove(c *Client) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.clients[c]; !ok {
		return
	}
	delete(sm.clients, c)
	if sm.byID[c.session.ID()] == c {
		delete(sm.byID, c.session.ID())
	}
	sm.totalClosed.Add(1)
}

// Get returns the client whose session has id, or nil.
func (sm *SessionManager) Get(id string) *Client {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.byID[id]
}

// Count returns the number of connected clients.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.clients)
}

// Stats returns a snapshot of the counters.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return ManagerStats{
		Active:       len(sm.clients),
		TotalCreated: sm.totalCreated.Load(),
		TotalClosed:  sm.totalClosed.Load(),
		Peak:         sm.peak,
	}
}

// Shutdown refuses new clients and closes every connected one. It returns
// ctx's error if the clients do not finish closing before ctx is done.
func (sm *SessionManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	sm.closing = true
	clients := make([]*Client, 0, len(sm.clients))
	for c := range sm.clients {
		clients = append(clients, c)
	}
	sm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, c := range clients {
			wg.Add(1)
			go func(c *Client) {
				defer wg.Done()
				c.Close()
			}(c)
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		sm.logger.Info("sessions closed", "count", len(clients))
		return nil
	case <-ctx.Done():
		sm.logger.Warn("shutdown timed out", "remaining", sm.Count())
		return ctx.Err()
	}
}
