// Package input turns raw terminal bytes into session commands.
package input

import (
	"bufio"
	"time"

	"github.com/tomz197/snake/internal/session"
)

// EscapeTimeout is how long a trailing ESC or ESC [ waits for the rest of
// an arrow key sequence before it is read as a lone Back.
const EscapeTimeout = 100 * time.Millisecond

// Stream delivers input bytes via a channel so the frame loop can poll
// without blocking.
type Stream struct {
	ch     chan byte
	closed bool

	// Unfinished escape sequence carried over from the previous read.
	pending      []byte
	pendingSince time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error (e.g. the connection dropped).
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadCommands drains all available bytes from the stream (non-blocking) and
// returns the commands they encode, in order. An escape sequence split
// across reads is held until it completes or EscapeTimeout passes. Once the
// reader has ended a trailing CmdQuit is returned.
func ReadCommands(s *Stream) []session.Command {
	held := len(s.pending)
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	grew := len(buf) > held
	flush := s.closed || (held > 0 && !grew && time.Since(s.pendingSince) >= EscapeTimeout)
	cmds, rest := parse(buf, flush)
	if len(rest) > 0 {
		if grew {
			s.pendingSince = time.Now()
		}
		s.pending = append([]byte(nil), rest...)
	}
	if s.closed {
		cmds = append(cmds, session.CmdQuit)
	}
	return cmds
}

// Parse decodes a batch of bytes. Arrow keys arrive as ESC [ A..D (or
// ESC O A..D in application cursor mode); a lone ESC means Back.
func Parse(buf []byte) []session.Command {
	cmds, _ := parse(buf, true)
	return cmds
}

// parse decodes buf. Unless flush is set, an unfinished escape sequence at
// the end is returned as rest instead of being decoded.
func parse(buf []byte, flush bool) (cmds []session.Command, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				if cmd, ok := arrowCommand(buf[i+2]); ok {
					cmds = append(cmds, cmd)
					i += 2
					continue
				}
			}
			if !flush && incompleteEscape(buf[i:]) {
				return cmds, buf[i:]
			}
		}

		if cmd := byteCommand(b); cmd != session.CmdNone {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// incompleteEscape reports whether seq is ESC or ESC [ / ESC O with
// nothing after it.
func incompleteEscape(seq []byte) bool {
	switch len(seq) {
	case 1:
		return true
	case 2:
		return seq[1] == '[' || seq[1] == 'O'
	}
	return false
}

func arrowCommand(code byte) (session.Command, bool) {
	switch code {
	case 'A':
		return session.CmdUp, true
	case 'B':
		return session.CmdDown, true
	case 'C':
		return session.CmdRight, true
	case 'D':
		return session.CmdLeft, true
	}
	return session.CmdNone, false
}

// byteCommand maps a single key byte to its command.
func byteCommand(b byte) session.Command {
	switch b {
	case 'q', 'Q', 0x03, 0x04: // Ctrl-C / Ctrl-D: raw mode swallows signals
		return session.CmdQuit
	case 'a', 'A', 'j', 'J':
		return session.CmdLeft
	case 'd', 'D', 'l', 'L':
		return session.CmdRight
	case 'w', 'W', 'i', 'I':
		return session.CmdUp
	case 's', 'S', 'k', 'K':
		return session.CmdDown
	case ' ', 'p', 'P':
		return session.CmdPause
	case '\n', '\r':
		return session.CmdConfirm
	case 'r', 'R':
		return session.CmdRestart
	case 'm', 'M':
		return session.CmdMenu
	case '\x1b', '\b', '\x7f':
		return session.CmdBack
	}
	return session.CmdNone
}
