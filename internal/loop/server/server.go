// Package server tracks the sessions hosted by one process. It shares the
// score store between them, relays new-record notices and coordinates
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/scores"
	"github.com/tomz197/snake/internal/session"
)

// Lobby is the interface clients use to talk to the hosting server.
type Lobby interface {
	Register(username string) (*ClientHandle, error)
	Unregister(clientID string)
	Listener(clientID string) session.Listener
	Snapshot() *Snapshot
	Store() *scores.Store
}

// ErrFull is returned by Register when the client limit is reached.
var ErrFull = errors.New("server is full")

// Server is the in-process Lobby implementation.
type Server struct {
	store      *scores.Store
	logger     *log.Logger
	clients    map[string]*ClientHandle
	maxClients int // 0 means no limit
	snapshot   atomic.Pointer[Snapshot]
	mu         sync.RWMutex
}

// Compile-time check that Server implements Lobby.
var _ Lobby = (*Server)(nil)

// ClientHandle represents a client's registration with the server.
type ClientHandle struct {
	ID       string
	Username string
	Joined   time.Time
	EventsCh chan ClientEvent // Events sent to the client; closed on Unregister
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type   ClientEventType
	Notice string // For EventNotice
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventNotice ClientEventType = iota
	EventServerShutdown
)

// Snapshot is an immutable summary of the lobby, rebuilt periodically by Run.
type Snapshot struct {
	Players int
	Leaders map[difficulty.Level]scores.Record // Best record per difficulty, if any
	Built   time.Time
}

// New creates a server around a shared score store. store may be nil.
func New(store *scores.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:   store,
		logger:  logger,
		clients: make(map[string]*ClientHandle),
	}
	s.rebuildSnapshot()
	return s
}

// Run rebuilds the lobby snapshot on a fixed tick. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.LobbyTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.rebuildSnapshot()
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. The caller should cancel the Run context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Count())
			return
		case <-ticker.C:
		}
	}
}

// SetMaxClients limits how many clients may be registered at once. n <= 0
// removes the limit. Clients already registered are kept.
func (s *Server) SetMaxClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxClients = max(n, 0)
}

// Register adds a client and returns its handle, or ErrFull when the server
// is at its client limit.
func (s *Server) Register(username string) (*ClientHandle, error) {
	handle := &ClientHandle{
		ID:       uuid.NewString(),
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, config.ClientEventsBuffer),
	}

	s.mu.Lock()
	if limit := s.maxClients; limit > 0 && len(s.clients) >= limit {
		s.mu.Unlock()
		s.logger.Warn("client rejected, server full", "user", username, "max", limit)
		return nil, ErrFull
	}
	s.clients[handle.ID] = handle
	n := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("client registered", "id", handle.ID, "user", username, "clients", n)
	return handle, nil
}

// Unregister removes a client and closes its event channel. Unknown IDs are ignored.
func (s *Server) Unregister(clientID string) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		close(handle.EventsCh)
		delete(s.clients, clientID)
	}
	n := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "id", clientID, "user", handle.Username,
			"session", time.Since(handle.Joined).Round(time.Second), "clients", n)
	}
}

// Count returns the number of registered clients.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Store returns the shared score store.
func (s *Server) Store() *scores.Store {
	return s.store
}

// Snapshot returns the latest lobby snapshot.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Listener returns a session listener that announces new records set by the
// given client to everyone else.
func (s *Server) Listener(clientID string) session.Listener {
	return session.ListenerFunc(func(e session.Event) {
		if e.Kind != session.EventScoreRecorded || !e.NewBest {
			return
		}
		s.Broadcast(clientID, fmt.Sprintf("%s set a new %s record: %d",
			e.Record.PlayerName, e.Record.Difficulty, e.Record.Score))
		s.rebuildSnapshot()
	})
}

// Broadcast sends a notice to every client except the sender. Clients with a
// full event buffer miss the notice.
func (s *Server) Broadcast(fromID, notice string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, handle := range s.clients {
		if id == fromID {
			continue
		}
		select {
		case handle.EventsCh <- ClientEvent{Type: EventNotice, Notice: notice}:
		default:
		}
	}
	s.logger.Info("notice", "from", fromID, "text", notice)
}

func (s *Server) rebuildSnapshot() {
	snap := &Snapshot{
		Players: s.Count(),
		Leaders: make(map[difficulty.Level]scores.Record),
		Built:   time.Now(),
	}
	if s.store != nil {
		for _, level := range difficulty.All() {
			if best, ok := s.store.Best(level); ok {
				snap.Leaders[level] = best
			}
		}
	}
	s.snapshot.Store(snap)
}
