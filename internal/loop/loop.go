// Package loop runs the fixed-rate Input → Update → Draw cycle for one
// terminal and draws the game screens.
package loop

import (
	"bufio"
	"io"
)

// Run plays a local game on r and w until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts ClientOptions) error {
	opts.Lobby = nil
	c, err := NewClient(r, w, opts)
	if err != nil {
		return err
	}
	return c.Run()
}
