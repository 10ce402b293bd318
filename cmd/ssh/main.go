package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/loop"
	loopconfig "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/scores"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultMaxSessions = 64
	defaultDrainTime   = 15 * time.Second
)

// Lobby shared by all SSH sessions.
var (
	lobby  *server.Server
	logger *log.Logger
)

func main() {
	logger = config.NewLogger(os.Stderr, "ssh")
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("could not load .env", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scoresPath := config.GetEnv("SNAKE_SCORES_FILE", loopconfig.DefaultScoresFile)
	maxSessions := config.GetEnvInt("SSH_MAX_SESSIONS", defaultMaxSessions)
	drainTime := config.GetEnvDuration("SSH_DRAIN_TIMEOUT", defaultDrainTime)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath,
		"scores", scoresPath, "maxSessions", maxSessions, "drain", drainTime)

	store, _ := scores.Open(scoresPath, scores.Options{
		MaxPerDifficulty: loopconfig.MaxScoresPerDifficulty,
		Logger:           logger,
	})

	ctx, cancelLobby := context.WithCancel(context.Background())
	lobby = server.New(store, logger)
	lobby.SetMaxClients(maxSessions)
	go lobby.Run(ctx)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "players", lobby.Count())

	// Notify players and give them time to finish before closing connections.
	lobby.Shutdown(drainTime)
	cancelLobby()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}

// gameMiddleware runs a game client for each SSH session.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c, err := loop.NewClient(bufio.NewReader(sess), sess, loop.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Player:       sess.User(),
			Difficulty:   difficulty.Normal,
			Lobby:        lobby,
			Logger:       logger,
		})
		if errors.Is(err, server.ErrFull) {
			fmt.Fprintln(sess, "Server is full, please try again later.")
			return
		}
		if err != nil {
			logger.Error("could not start session", "user", sess.User(), "err", err)
			return
		}

		logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)
		if err := c.Run(); err != nil {
			logger.Error("game error", "user", sess.User(), "err", err)
		}

		logger.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
