package loop

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/session"
	"github.com/tomz197/snake/internal/snake"
)

// Layout rows, 1-based within the layout area.
const (
	hudRow       = 1
	borderTopRow = 2
	statusRow    = config.LayoutHeight
)

// boardBorderCol is the layout column of the left board border.
const boardBorderCol = (config.LayoutWidth-(config.BoardWidth+2))/2 + 1

// Board cell colors.
const (
	colorHead   = draw.ColorBrightGreen
	colorBody   = draw.ColorGreen
	colorFood   = draw.ColorBrightRed
	colorCrash  = draw.ColorBrightYellow
	colorBorder = draw.ColorGray
	colorTitle  = draw.ColorBrightGreen
	colorNotice = draw.ColorBrightYellow
	colorHint   = draw.ColorGray
)

var titleArt = []string{
	"  ___ _  _   _   _  _____ ",
	" / __| \\| | /_\\ | |/ / __|",
	" \\__ \\ .` |/ _ \\| ' <| _| ",
	" |___/_|\\_/_/ \\_\\_|\\_\\___|",
}

// textLine is a piece of text placed in the layout.
type textLine struct {
	col, row int
	color    draw.Color
	text     string
}

// screenKey identifies what kind of screen is up. Changing it repaints
// the terminal from scratch.
type screenKey struct {
	state        session.State
	menu         session.MenuScreen
	inactive     bool
	shuttingDown bool
	tooSmall     bool
}

// screenState remembers what the terminal shows between frames.
type screenState struct {
	key         screenKey
	initialized bool
	lines       []textLine
	border      bool // Board border is on screen
	termWidth   int
	termHeight  int
	offsetCol   int
	offsetRow   int
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.ctrl.Snapshot()
	cw := c.chunkWriter

	c.updateLayout()

	key := screenKey{
		state:        snap.State,
		inactive:     c.isInactive,
		shuttingDown: c.shuttingDown,
		tooSmall:     c.screen.termWidth < config.LayoutWidth || c.screen.termHeight < config.LayoutHeight,
	}
	if snap.State == session.StateMenu {
		key.menu = snap.Menu
	}
	if !c.screen.initialized || key != c.screen.key {
		c.repaint()
		c.screen.key = key
		c.screen.initialized = true
	}

	if key.tooSmall {
		if c.screen.lines == nil {
			msg := fmt.Sprintf("Terminal too small: need %dx%d", config.LayoutWidth, config.LayoutHeight)
			cw.SetOrigin(0, 0)
			cw.WriteAt(1, 1, msg)
			c.screen.lines = []textLine{{col: 1, row: 1, text: msg}}
		}
		return cw.Flush()
	}

	var lines []textLine
	showBoard := false
	switch {
	case c.shuttingDown:
		lines = c.shutdownLines()
	case c.isInactive:
		lines = c.inactivityLines()
	default:
		switch snap.State {
		case session.StateMenu:
			lines = c.menuLines(snap)
		case session.StatePlaying:
			lines = c.hudLines(snap)
			showBoard = true
		case session.StatePaused:
			lines = append(c.hudLines(snap), boxLines(pausedBox())...)
			showBoard = true
		case session.StateGameOver:
			lines = append(c.hudLines(snap), boxLines(gameOverBox(snap))...)
			showBoard = true
		}
	}

	before := cw.Pending()
	if showBoard {
		c.paintBoard(snap)
		c.canvas.Render(cw)
		if !c.screen.border {
			c.canvas.RenderBorder(cw, colorBorder)
			c.screen.border = true
		}
	}
	canvasChanged := cw.Pending() != before

	if canvasChanged || !slices.Equal(lines, c.screen.lines) {
		c.writeLines(lines)
	}
	return cw.Flush()
}

// updateLayout centers the layout in the terminal and repaints on resize.
func (c *Client) updateLayout() {
	w, h, err := c.termSizeFunc()
	if err != nil {
		if c.screen.termWidth == 0 {
			w, h = config.LayoutWidth, config.LayoutHeight
		} else {
			return
		}
	}
	offsetCol := max(0, (w-config.LayoutWidth)/2)
	offsetRow := max(0, (h-config.LayoutHeight)/2)

	if w != c.screen.termWidth || h != c.screen.termHeight {
		c.screen.initialized = false
	}
	c.screen.termWidth, c.screen.termHeight = w, h
	c.screen.offsetCol, c.screen.offsetRow = offsetCol, offsetRow

	c.chunkWriter.SetOrigin(offsetCol, offsetRow)
	// The canvas offset is the 0-based position of the border.
	c.canvas.SetOffset(offsetCol+boardBorderCol, offsetRow+borderTopRow)
}

// repaint clears the terminal and forgets everything drawn on it.
func (c *Client) repaint() {
	c.chunkWriter.ClearScreen()
	c.canvas.ForceRedraw()
	c.screen.lines = nil
	c.screen.border = false
}

// writeLines writes lines, blanking rows that held text last time but are
// unused now.
func (c *Client) writeLines(lines []textLine) {
	cw := c.chunkWriter
	for _, old := range c.screen.lines {
		if !slices.ContainsFunc(lines, func(l textLine) bool { return l.row == old.row }) {
			cw.WriteAt(old.col, old.row, strings.Repeat(" ", utf8.RuneCountInString(old.text)))
		}
	}
	for _, l := range lines {
		if l.color == draw.ColorNone {
			cw.WriteAt(l.col, l.row, l.text)
		} else {
			cw.WriteColoredAt(l.col, l.row, l.color, l.text)
		}
	}
	c.screen.lines = lines
}

// paintBoard draws the snake, the food and any sparks onto the canvas.
func (c *Client) paintBoard(snap session.Snapshot) {
	c.canvas.Resize(snap.Board.Width, snap.Board.Height)
	c.canvas.Clear()

	if len(snap.Body) == 0 {
		return
	}
	if snap.Outcome != snake.Win {
		c.canvas.Set(snap.Food.X, snap.Food.Y, colorFood)
	}
	for i, p := range snap.Body {
		color := colorBody
		if i == 0 {
			color = colorHead
			if snap.State == session.StateGameOver && snap.Outcome == snake.Collision {
				color = colorCrash
			}
		}
		c.canvas.Set(p.X, p.Y, color)
	}
	c.sparks.Draw(c.canvas)
}

// row returns a full-width line with text centered.
func row(r int, color draw.Color, text string) textLine {
	return textLine{col: 1, row: r, color: color, text: center(text, config.LayoutWidth)}
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// hudLines draws the score bar above the board and the status line below it.
// Fields are fixed width so shorter values overwrite longer ones.
func (c *Client) hudLines(snap session.Snapshot) []textLine {
	left := fmt.Sprintf("Score %-6d Best %-6d %-7s", snap.Score, snap.Best, snap.Difficulty)
	right := ""
	if c.lobby != nil {
		if ls := c.lobby.Snapshot(); ls != nil {
			right = fmt.Sprintf("Online %d", ls.Players)
		}
	}
	hud := left + strings.Repeat(" ", max(1, config.LayoutWidth-len(left)-len(right))) + right

	lines := []textLine{{col: 1, row: hudRow, color: draw.ColorWhite, text: hud}}
	lines = append(lines, c.statusLine(snap))
	return lines
}

// statusLine shows a lobby notice if one is active, otherwise key hints.
func (c *Client) statusLine(snap session.Snapshot) textLine {
	if c.notice != "" {
		return row(statusRow, colorNotice, c.notice)
	}
	switch snap.State {
	case session.StatePaused:
		return row(statusRow, colorHint, "space resume  r restart  m menu")
	case session.StateGameOver:
		return row(statusRow, colorHint, "enter menu  q quit")
	default:
		return row(statusRow, colorHint, "arrows/wasd move  space pause  q quit")
	}
}

func (c *Client) menuLines(snap session.Snapshot) []textLine {
	switch snap.Menu {
	case session.MenuDifficulty:
		return c.difficultyLines(snap)
	case session.MenuHighScores:
		return c.highScoreLines(snap)
	default:
		return c.mainMenuLines(snap)
	}
}

func (c *Client) mainMenuLines(snap session.Snapshot) []textLine {
	var lines []textLine
	for i, l := range titleArt {
		lines = append(lines, row(2+i, colorTitle, l))
	}
	lines = append(lines, row(7, draw.ColorGray, fmt.Sprintf("~ hello, %s ~", snap.Player)))

	labels := map[session.MenuItem]string{
		session.ItemPlay:       "Play",
		session.ItemDifficulty: "Difficulty",
		session.ItemHighScores: "High Scores",
		session.ItemQuit:       "Quit",
	}
	for i, item := range session.MenuItems() {
		text := fmt.Sprintf("  %-11s  ", labels[item])
		color := draw.ColorNone
		if item == snap.MenuItem {
			text = fmt.Sprintf("> %-11s <", labels[item])
			color = draw.ColorBrightCyan
		}
		lines = append(lines, row(9+i, color, text))
	}
	lines = append(lines, row(14, draw.ColorWhite, fmt.Sprintf("Difficulty: < %s >", snap.Difficulty)))

	var lobbySnap *server.Snapshot
	if c.lobby != nil {
		lobbySnap = c.lobby.Snapshot()
	}
	if best := topScore(snap, lobbySnap); best != "" {
		lines = append(lines, row(16, draw.ColorGray, best))
	}
	if lobbySnap != nil {
		lines = append(lines, row(17, draw.ColorGray, fmt.Sprintf("%d playing now", lobbySnap.Players)))
	}
	if c.notice != "" {
		lines = append(lines, row(statusRow, colorNotice, c.notice))
	} else {
		lines = append(lines, row(statusRow, colorHint, "up/down select  left/right level  enter ok"))
	}
	return lines
}

// topScore names the best record for the selected difficulty. Hosted clients
// read it from the lobby so records set in other sessions show up.
func topScore(snap session.Snapshot, lobbySnap *server.Snapshot) string {
	if lobbySnap != nil {
		if r, ok := lobbySnap.Leaders[snap.Difficulty]; ok {
			return fmt.Sprintf("Server best on %s: %s %d", snap.Difficulty, r.PlayerName, r.Score)
		}
	}
	if len(snap.HighScores) == 0 {
		return ""
	}
	r := snap.HighScores[0]
	return fmt.Sprintf("Best on %s: %s %d", snap.Difficulty, r.PlayerName, r.Score)
}

func (c *Client) difficultyLines(snap session.Snapshot) []textLine {
	lines := []textLine{row(3, colorTitle, "SELECT DIFFICULTY")}
	for i, level := range difficulty.All() {
		text := fmt.Sprintf("  %-8s %4dms  x%.1f  ", level, level.Interval().Milliseconds(), level.Multiplier())
		color := draw.ColorNone
		if level == snap.Difficulty {
			text = fmt.Sprintf("> %-8s %4dms  x%.1f <", level, level.Interval().Milliseconds(), level.Multiplier())
			color = draw.ColorBrightCyan
		}
		lines = append(lines, row(6+i*2, color, text))
	}
	lines = append(lines, row(statusRow, colorHint, "up/down choose  enter start  esc back"))
	return lines
}

func (c *Client) highScoreLines(snap session.Snapshot) []textLine {
	lines := []textLine{
		row(3, colorTitle, "HIGH SCORES"),
		row(5, draw.ColorWhite, fmt.Sprintf("< %s >", snap.ScoresView)),
	}
	if len(snap.HighScores) == 0 {
		lines = append(lines, row(8, draw.ColorGray, "No scores yet"))
	}
	for i, r := range snap.HighScores {
		text := fmt.Sprintf("%d. %-8s %6d  %s", i+1, r.PlayerName, r.Score, r.Timestamp.Local().Format(time.DateOnly))
		lines = append(lines, row(7+i, draw.ColorNone, text))
	}
	lines = append(lines, row(statusRow, colorHint, "left/right difficulty  esc back"))
	return lines
}

func pausedBox() []string {
	return []string{"PAUSED", "", "space resume  m menu"}
}

func gameOverBox(snap session.Snapshot) []string {
	title := "GAME OVER"
	if snap.Outcome == snake.Win {
		title = "YOU WIN!"
	}
	best := fmt.Sprintf("Best %d", snap.Best)
	if snap.NewBest {
		best = "NEW HIGH SCORE!"
	}
	return []string{title, "", fmt.Sprintf("Score %d  Length %d", snap.Score, len(snap.Body)), best, "", "enter: back to menu"}
}

// boxLines frames content in a box centered over the board.
func boxLines(content []string) []textLine {
	const inner = 24
	top := borderTopRow + 1 + ((config.BoardHeight+1)/2-len(content)-2)/2
	col := (config.LayoutWidth-inner-2)/2 + 1

	lines := []textLine{{col: col, row: top, color: draw.ColorWhite, text: "┌" + strings.Repeat("─", inner) + "┐"}}
	for i, s := range content {
		lines = append(lines, textLine{col: col, row: top + 1 + i, color: draw.ColorWhite, text: "│" + center(s, inner) + "│"})
	}
	lines = append(lines, textLine{col: col, row: top + 1 + len(content), color: draw.ColorWhite, text: "└" + strings.Repeat("─", inner) + "┘"})
	return lines
}

// inactivityLines draws the inactivity warning screen.
func (c *Client) inactivityLines() []textLine {
	remaining := max(0, int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()))
	mid := config.LayoutHeight / 2
	return []textLine{
		row(mid-2, colorNotice, "INACTIVITY WARNING"),
		row(mid, draw.ColorNone, fmt.Sprintf("Disconnecting in %3d seconds", remaining)),
		row(mid+2, colorHint, "Press any key to continue"),
	}
}

// shutdownLines draws the server shutdown notification screen.
func (c *Client) shutdownLines() []textLine {
	remaining := int(c.shutdownTimer) + 1
	mid := config.LayoutHeight / 2
	return []textLine{
		row(mid-3, colorNotice, "SERVER SHUTTING DOWN"),
		row(mid-1, draw.ColorNone, "The server is restarting for maintenance."),
		row(mid, draw.ColorNone, "Please reconnect in a moment."),
		row(mid+2, draw.ColorNone, fmt.Sprintf("Disconnecting in %2d seconds...", remaining)),
		row(mid+4, colorHint, "Press Q to disconnect now"),
	}
}
