package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ANSI control sequences.
const (
	seqHome       = "\033[H"
	seqClear      = "\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// maxChunkSize caps a single write so one frame leaves in packets that fit a
// 1500 byte MTU when the writer is an SSH channel.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output and sends it with Flush.
// Positions given to it are 1-based and relative to its origin, which is moved
// with SetOrigin when the layout is re-centered.
type ChunkWriter struct {
	out     io.Writer
	frame   []byte
	originX int
	originY int
}

// NewChunkWriter returns a writer that flushes frames to out.
func NewChunkWriter(out io.Writer, originCol, originRow int) *ChunkWriter {
	return &ChunkWriter{
		out:     out,
		frame:   make([]byte, 0, 4*maxChunkSize),
		originX: originCol,
		originY: originRow,
	}
}

// SetOrigin moves the top-left corner that positions are relative to.
func (cw *ChunkWriter) SetOrigin(col, row int) {
	cw.originX, cw.originY = col, row
}

// MoveCursor queues a cursor move to (col, row).
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame = append(cw.frame, '\033', '[')
	cw.frame = strconv.AppendInt(cw.frame, int64(cw.originY+row), 10)
	cw.frame = append(cw.frame, ';')
	cw.frame = strconv.AppendInt(cw.frame, int64(cw.originX+col), 10)
	cw.frame = append(cw.frame, 'H')
}

// Write queues raw bytes; Canvas.Render writes through it.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

// WriteString queues s as is.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame = append(cw.frame, s...)
}

// WriteAt queues s starting at (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.frame = append(cw.frame, s...)
}

// WriteColoredAt queues s at (col, row) in color, resetting attributes after.
func (cw *ChunkWriter) WriteColoredAt(col, row int, color Color, s string) {
	cw.MoveCursor(col, row)
	cw.frame = append(cw.frame, color.Foreground()...)
	cw.frame = append(cw.frame, s...)
	cw.frame = append(cw.frame, ColorReset...)
}

// ClearScreen queues a full clear with the cursor left at the top-left.
func (cw *ChunkWriter) ClearScreen() {
	cw.frame = append(cw.frame, seqHome+seqClear...)
}

// Pending is the number of queued bytes.
func (cw *ChunkWriter) Pending() int {
	return len(cw.frame)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the queued frame in writes of at most maxChunkSize bytes. The
// frame is dropped even when a write fails.
func (cw *ChunkWriter) Flush() error {
	defer func() { cw.frame = cw.frame[:0] }()
	for rest := cw.frame; len(rest) > 0; {
		n := min(len(rest), maxChunkSize)
		if _, err := cw.out.Write(rest[:n]); err != nil {
			return err
		}
		rest = rest[n:]
	}
	return nil
}

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc asks the terminal on stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen blanks w and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqHome+seqClear)
}

// HideCursor and ShowCursor toggle cursor visibility on w.
func HideCursor(w io.Writer) {
	io.WriteString(w, seqHideCursor)
}

func ShowCursor(w io.Writer) {
	io.WriteString(w, seqShowCursor)
}
