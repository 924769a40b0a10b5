package crush

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/breadcrush/internal/core"
	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/session"
)

const (
	cellWidth = 3  // "[x]" around the tile glyph
	hudWidth  = 26 // side panel
	hudGap    = 2
)

var tileGlyphs = [engine.CategoryCount]rune{
	engine.Plain:        'o',
	engine.Everything:   '*',
	engine.OliveCheese:  '%',
	engine.BasilTomato:  '&',
	engine.GarlicButter: '$',
	engine.Hotteok:      '@',
}

var tileColors = [engine.CategoryCount]core.Color{
	engine.Plain:        core.ColorWhite,
	engine.Everything:   core.ColorOrange,
	engine.OliveCheese:  core.ColorGreen,
	engine.BasilTomato:  core.ColorRed,
	engine.GarlicButter: core.ColorYellow,
	engine.Hotteok:      core.ColorMagenta,
}

var specialGlyphs = map[engine.Special]rune{
	engine.SpecialA: '+',
	engine.SpecialB: '#',
	engine.SpecialC: 'X',
}

func boardSize(rows, cols int) (w, h int) {
	return cols*cellWidth + 2, rows + 2
}

func (g *Game) minSize() (w, h int) {
	bw, bh := boardSize(g.opts.Config.Board.Rows, g.opts.Config.Board.Cols)
	return bw + hudGap + hudWidth, max(bh, 16) + 2
}

func (g *Game) tooSmall() bool {
	w, h := g.minSize()
	return g.screenW < w || g.screenH < h
}

// Render draws the board, the side panel and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.tooSmall() {
		g.renderTooSmall(dst)
		return
	}

	snap := g.sess.Snapshot()
	bw, bh := boardSize(snap.Rows, snap.Cols)
	totalW, _ := g.minSize()
	boardX := (g.screenW - totalW) / 2
	boardY := 2

	dst.DrawTextColored(boardX, 0, g.Title(), core.ColorBrightYellow)
	board := core.NewRect(boardX, boardY, bw, bh)
	g.renderBoard(dst, board, snap)
	g.renderHUD(dst, board.Right()+hudGap, boardY, snap)

	if g.banner != "" {
		dst.DrawTextColored(boardX, board.Bottom(), g.banner, core.ColorBrightCyan)
	}
	g.renderOverlays(dst, board, snap)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	w, h := g.minSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", w, h))
}

func (g *Game) renderBoard(dst *core.Screen, r core.Rect, snap session.Snapshot) {
	dst.DrawBoxColored(r, core.ColorGray)

	matched := make(map[engine.Position]bool, len(snap.Matched))
	for _, p := range snap.Matched {
		matched[p] = true
	}
	var hintFrom, hintTo engine.Position
	hasHint := snap.Hint != nil
	if hasHint {
		hintFrom, hintTo = snap.Hint.From, snap.Hint.To
	}

	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Cols; col++ {
			p := engine.P(row, col)
			x := r.X + 1 + col*cellWidth
			y := r.Y + 1 + row
			cell := snap.Cell(p)

			glyph, color := tileGlyph(cell)
			if matched[p] {
				glyph, color = '·', color.Bright()
			}
			dst.SetColored(x+1, y, glyph, color)

			switch {
			case snap.Selected != nil && *snap.Selected == p:
				dst.SetColored(x, y, '<', core.ColorBrightCyan)
				dst.SetColored(x+2, y, '>', core.ColorBrightCyan)
			case p == g.cursor:
				dst.SetColored(x, y, '[', core.ColorBrightWhite)
				dst.SetColored(x+2, y, ']', core.ColorBrightWhite)
			case hasHint && (p == hintFrom || p == hintTo):
				dst.SetColored(x, y, '(', core.ColorBrightGreen)
				dst.SetColored(x+2, y, ')', core.ColorBrightGreen)
			}
		}
	}
}

func tileGlyph(c engine.Cell) (rune, core.Color) {
	if !c.Category.Valid() {
		return '?', core.ColorGray
	}
	color := tileColors[c.Category]
	if g, ok := specialGlyphs[c.Special]; ok {
		return g, color.Bright()
	}
	return tileGlyphs[c.Category], color
}

type hudLine struct {
	text  string
	color core.Color
}

func (g *Game) renderHUD(dst *core.Screen, x, y int, snap session.Snapshot) {
	lines := []hudLine{
		{fmt.Sprintf("Level  %d", snap.Level), core.ColorBrightWhite},
		{fmt.Sprintf("Score  %d / %d", snap.Score, snap.Target), core.ColorDefault},
		{fmt.Sprintf("Total  %d", snap.TotalScore), core.ColorDefault},
		{fmt.Sprintf("Moves  %d", snap.Moves), movesColor(snap.Moves)},
		{fmt.Sprintf("Combo  %d", snap.Combo), core.ColorDefault},
		{"", core.ColorDefault},
	}
	if snap.FeverActive() {
		lines[5] = hudLine{fmt.Sprintf("FEVER x%d (%d)", g.opts.Config.Combo.FeverMultiplier, snap.Fever), core.ColorBrightRed}
	}
	for i, l := range lines {
		dst.DrawTextColored(x, y+i, l.text, l.color)
	}

	y += len(lines) + 1
	dst.DrawTextColored(x, y, "Items", core.ColorBrightYellow)
	keys := map[string]string{"score_boost": "1", "hint": "2", "extra_moves": "3"}
	for i, it := range session.Items() {
		line := fmt.Sprintf("%s %-12s x%d", keys[it.String()], itemLabel(it), snap.Items[it.String()])
		dst.DrawText(x, y+1+i, line)
	}
	if snap.ScoreBoost > 0 {
		dst.DrawTextColored(x, y+4, fmt.Sprintf("  boost %d swaps", snap.ScoreBoost), core.ColorBrightGreen)
	}

	y += 6
	dst.DrawTextColored(x, y, "Skills", core.ColorBrightYellow)
	skillKeys := map[string]string{"bomb": "z", "shuffle": "x", "line_clear": "c"}
	for i, st := range snap.Skills {
		sk, _ := session.ParseSkill(st.Skill)
		status := "ready"
		color := core.ColorBrightGreen
		switch {
		case !st.Unlocked:
			status, color = "locked", core.ColorGray
		case st.Cooldown > 0:
			status, color = fmt.Sprintf("%d swaps", st.Cooldown), core.ColorDefault
		}
		dst.DrawTextColored(x, y+1+i, fmt.Sprintf("%s %-10s %s", skillKeys[st.Skill], skillLabel(sk), status), color)
	}
}

func movesColor(moves int) core.Color {
	if moves <= 5 {
		return core.ColorBrightRed
	}
	return core.ColorDefault
}

func (g *Game) renderOverlays(dst *core.Screen, board core.Rect, snap session.Snapshot) {
	switch snap.Phase {
	case session.PhaseLevelUp:
		g.drawOverlay(dst, board,
			fmt.Sprintf("LEVEL %d CLEAR", snap.Level),
			fmt.Sprintf("Bonus +%d", snap.LastBonus),
		)
	case session.PhaseGameOver:
		g.drawOverlay(dst, board,
			"GAME OVER",
			fmt.Sprintf("Score %d", snap.TotalScore),
			"N: new game",
		)
	}
}

func (g *Game) drawOverlay(dst *core.Screen, board core.Rect, lines ...string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	box := board.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, core.ColorBrightYellow)
	cx, _ := box.Center()
	for i, l := range lines {
		dst.DrawText(cx-len(l)/2, box.Y+1+i, l)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return strings.Join([]string{
		"arrows/hjkl: move",
		"space: select",
		"esc: cancel",
		"1-3: items",
		"z/x/c: skills",
		"n: new game",
		"q: quit",
	}, " | ")
}
