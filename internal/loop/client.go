package loop

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/effects"
	"github.com/tomz197/snake/internal/input"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/scores"
	"github.com/tomz197/snake/internal/session"
)

// DefaultPlayer is used when no player name is configured.
const DefaultPlayer = "player"

// Client handles rendering and input for a single terminal.
type Client struct {
	ctrl   *session.Controller
	lobby  server.Lobby // nil when playing locally
	handle *server.ClientHandle
	sparks *effects.Sparks
	logger *log.Logger

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	screen       screenState

	running       bool
	delta         time.Duration
	lastInput     time.Time
	isInactive    bool
	shuttingDown  bool
	shutdownTimer float64
	notice        string
	noticeTimer   float64
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Player       string
	Difficulty   difficulty.Level
	Store        *scores.Store // Ignored when Lobby is set; the lobby's store is used
	Lobby        server.Lobby  // Set when hosted; enables notices and inactivity checks
	Logger       *log.Logger
	Listeners    []session.Listener // Extra event listeners, e.g. audio
	Rand         *rand.Rand
}

// NewClient creates a client reading keys from r and drawing to w.
// With a Lobby, the client registers itself until Run returns; registration
// errors such as server.ErrFull are returned before any input is read.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	player := opts.Player
	if player == "" {
		player = DefaultPlayer
	}

	var handle *server.ClientHandle
	if opts.Lobby != nil {
		h, err := opts.Lobby.Register(player)
		if err != nil {
			return nil, err
		}
		handle = h
	}

	c := &Client{
		lobby:        opts.Lobby,
		handle:       handle,
		sparks:       effects.NewSparks(opts.Rand),
		logger:       logger,
		canvas:       draw.NewCanvas(config.BoardWidth, config.BoardHeight),
		chunkWriter:  draw.NewChunkWriter(w, 0, 0),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		running:      true,
		lastInput:    time.Now(),
	}

	store := opts.Store
	listeners := []session.Listener{c.sparks}
	if c.lobby != nil {
		store = c.lobby.Store()
		c.logger = logger.With("client", c.handle.ID)
		listeners = append(listeners, c.lobby.Listener(c.handle.ID))
	}
	listeners = append(listeners, opts.Listeners...)

	c.ctrl = session.New(store, session.Options{
		Difficulty: opts.Difficulty,
		Player:     player,
		Rand:       opts.Rand,
		Logger:     c.logger,
		Listeners:  listeners,
	})
	return c, nil
}

// Run starts the Input → Update → Draw loop. Blocks until the player quits,
// the input closes, or the server disconnects the client.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	if c.handle != nil {
		defer c.lobby.Unregister(c.handle.ID)
	}

	lastTime := time.Now()

	for c.running {
		frameStart := time.Now()
		c.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads pending key presses and feeds them to the session.
func (c *Client) processInput() {
	cmds := input.ReadCommands(c.inputStream)

	if len(cmds) > 0 {
		c.lastInput = time.Now()
		c.isInactive = false
	} else if c.lobby != nil {
		idle := time.Since(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting idle client", "idle", time.Since(c.lastInput).Round(time.Second))
			c.running = false
		} else if idle > config.InactivityWarnUser {
			c.isInactive = true
		}
	}

	for _, cmd := range cmds {
		if c.shuttingDown && cmd != session.CmdQuit {
			continue
		}
		c.ctrl.Handle(cmd)
	}
	if c.ctrl.Done() {
		c.running = false
	}
}

// processServerEvents handles events from the lobby.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.running = false
				return
			}
			switch event.Type {
			case server.EventNotice:
				c.notice = event.Notice
				c.noticeTimer = config.NoticeSeconds
			case server.EventServerShutdown:
				c.shuttingDown = true
				c.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// update advances the session, effects and timers by one frame.
func (c *Client) update() {
	dt := c.delta.Seconds()

	if c.shuttingDown {
		c.shutdownTimer -= dt
		if c.shutdownTimer <= 0 {
			c.running = false
		}
		return
	}

	if c.noticeTimer > 0 {
		c.noticeTimer -= dt
		if c.noticeTimer <= 0 {
			c.notice = ""
		}
	}

	c.ctrl.Update(c.delta)
	c.sparks.Update(c.delta)
}
