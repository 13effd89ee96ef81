package loop

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
)

// HUD shows the score line and the start and game-over panels. It implements
// game.ScoreSink.
type HUD struct {
	score     int
	highScore int
	keys      config.KeySettings

	label lipgloss.Style
	value lipgloss.Style
	title lipgloss.Style
	text  lipgloss.Style
	hint  lipgloss.Style
	panel lipgloss.Style
}

var _ game.ScoreSink = (*HUD)(nil)

// NewHUD creates a HUD whose styles render for w. Each SSH session gets its
// own renderer so color detection never looks at the server's stdout.
func NewHUD(w io.Writer, keys config.KeySettings) *HUD {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)

	return &HUD{
		keys:  keys,
		label: r.NewStyle().Foreground(lipgloss.Color("#8400ff")).Bold(true),
		value: r.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true),
		title: r.NewStyle().Foreground(lipgloss.Color("#00ff00")).Bold(true).MarginBottom(1),
		text:  r.NewStyle().Foreground(lipgloss.Color("#ffebd1")),
		hint:  r.NewStyle().Foreground(lipgloss.Color("#8a8a8a")).Italic(true).MarginTop(1),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8400ff")).
			Padding(1, 4).
			Align(lipgloss.Center),
	}
}

// ScoreChanged implements game.ScoreSink.
func (h *HUD) ScoreChanged(score int) {
	h.score = score
}

// HighScoreChanged implements game.ScoreSink.
func (h *HUD) HighScoreChanged(highScore int) {
	h.highScore = highScore
}

// Score returns the last score reported by the session.
func (h *HUD) Score() int { return h.score }

// HighScore returns the last high score reported by the session.
func (h *HUD) HighScore() int { return h.highScore }

// Draw writes the overlay for the session's state. cols and rows are the size
// of the render area.
func (h *HUD) Draw(out *draw.ChunkWriter, s *game.Session, cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	switch s.State() {
	case game.Idle:
		h.drawPanel(out, h.startPanel(), cols, rows)
	case game.Running:
		h.drawScoreLine(out, cols)
	case game.GameOver:
		h.drawScoreLine(out, cols)
		h.drawPanel(out, h.gameOverPanel(), cols, rows)
	}
}

func (h *HUD) drawScoreLine(out *draw.ChunkWriter, cols int) {
	score := h.label.Render("SCORE") + " " + h.value.Render(strconv.Itoa(h.score))
	out.WriteAt(2, 1, score)

	high := h.label.Render("HIGH") + " " + h.value.Render(strconv.Itoa(h.highScore))
	if col := cols - lipgloss.Width(high); col > lipgloss.Width(score)+3 {
		out.WriteAt(col, 1, high)
	}
}

func (h *HUD) startPanel() string {
	return h.panel.Render(lipgloss.JoinVertical(lipgloss.Center,
		h.title.Render("S P A C E   I N V A D E R S"),
		h.text.Render("Move   "+keyList(h.keys.MoveLeft)+" / "+keyList(h.keys.MoveRight)),
		h.text.Render("Fire   "+keyList(h.keys.Fire)),
		h.text.Render("Quit   "+keyList(h.keys.Quit)),
		h.hint.Render("Press "+keyList(h.keys.Start)+" to start"),
	))
}

func (h *HUD) gameOverPanel() string {
	return h.panel.Render(lipgloss.JoinVertical(lipgloss.Center,
		h.title.Render("G A M E   O V E R"),
		h.text.Render("Score       "+strconv.Itoa(h.score)),
		h.text.Render("High score  "+strconv.Itoa(h.highScore)),
		h.hint.Render("Press "+keyList(h.keys.Start)+" to restart"),
	))
}

// drawPanel centers a rendered block in the render area, clipping what does not fit.
func (h *HUD) drawPanel(out *draw.ChunkWriter, block string, cols, rows int) {
	lines := strings.Split(block, "\n")
	col := max((cols-lipgloss.Width(block))/2, 0) + 1
	row := max((rows-len(lines))/2, 0) + 1
	for i, line := range lines {
		if row+i > rows {
			break
		}
		out.WriteAt(col, row+i, line)
	}
}

// keyList formats key names for display, e.g. "A/LEFT".
func keyList(keys []string) string {
	return strings.ToUpper(strings.Join(keys, "/"))
}
