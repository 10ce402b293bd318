package draw

import "strconv"

// Color is an ANSI SGR foreground code (30-37, 90-97). Zero means empty.
type Color uint8

const (
	ColorNone          Color = 0
	ColorRed           Color = 31
	ColorGreen         Color = 32
	ColorYellow        Color = 33
	ColorCyan          Color = 36
	ColorWhite         Color = 37
	ColorGray          Color = 90
	ColorBrightRed     Color = 91
	ColorBrightGreen   Color = 92
	ColorBrightYellow  Color = 93
	ColorBrightMagenta Color = 95
	ColorBrightCyan    Color = 96
)

// ColorReset restores default attributes.
const ColorReset = "\033[0m"

// Foreground returns the escape sequence selecting c as text color.
func (c Color) Foreground() string {
	if c == ColorNone {
		return ColorReset
	}
	return "\033[" + strconv.Itoa(int(c)) + "m"
}

// Background returns the escape sequence selecting c as background color.
func (c Color) Background() string {
	if c == ColorNone {
		return "\033[49m"
	}
	return "\033[" + strconv.Itoa(int(c)+10) + "m"
}
