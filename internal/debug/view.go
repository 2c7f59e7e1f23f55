package debug

import (
	"fmt"

	"github.com/Versifine/stride/internal/physics"
	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
)

const (
	// Terminal cells are about twice as tall as wide.
	cellWidth  = float32(0.5)
	cellHeight = float32(1)
)

var (
	styleFloor  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBlock  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRamp   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// Draw renders the map around the player, the message line and the status
// line. It runs on the frame loop.
func (c *Console) Draw() {
	c.screen.Clear()
	w, h := c.screen.Size()
	if w <= 0 || h < 3 {
		c.screen.Show()
		return
	}

	pos := c.player.Entity().Position()
	mapRows := h - 2
	cx, cy := w/2, mapRows/2
	for row := 0; row < mapRows; row++ {
		for col := 0; col < w; col++ {
			x := pos.X + float32(col-cx)*cellWidth
			z := pos.Z - float32(row-cy)*cellHeight
			r, style := c.tile(x, z, pos.Y)
			c.screen.SetContent(col, row, r, nil, style)
		}
	}
	c.screen.SetContent(cx, cy, '@', nil, stylePlayer)
	c.drawFacing(cx, cy)

	c.mu.Lock()
	msg := c.message
	command, buf := c.commandMode, string(c.commandBuf)
	c.mu.Unlock()

	putStr(c.screen, 0, h-2, w, msg, tcell.StyleDefault)
	if command {
		putStr(c.screen, 0, h-1, w, ":"+buf, tcell.StyleDefault)
	} else {
		putStr(c.screen, 0, h-1, w, c.statusLine(), styleStatus)
	}
	c.screen.Show()
}

func (c *Console) tile(x, z, feet float32) (rune, tcell.Style) {
	top, col, ok := c.world.HeightAt(x, z)
	if !ok {
		return ' ', tcell.StyleDefault
	}
	switch {
	case col.Kind == physics.KindRamp:
		return '/', styleRamp
	case top > feet+0.5:
		return '#', styleBlock
	case top < feet-0.5:
		return ',', styleFloor
	default:
		return '.', styleFloor
	}
}

// drawFacing marks the cell the player faces next to the player.
func (c *Console) drawFacing(cx, cy int) {
	f := physics.Facing(c.player.Entity())
	col := cx + int(math32.Floor(f.X*2+0.5))
	row := cy - int(math32.Floor(f.Z+0.5))
	if col == cx && row == cy {
		return
	}
	c.screen.SetContent(col, row, '*', nil, stylePlayer)
}

func (c *Console) statusLine() string {
	st := c.player.State()
	pos := c.player.Entity().Position()
	dash := "ready"
	switch {
	case st.DashActive:
		dash = fmt.Sprintf("active %d", st.DashTimer)
	case !st.CanDash:
		dash = "spent"
	}
	return fmt.Sprintf("[%s] X:%.2f Y:%.2f Z:%.2f ground:%t jumps:%d dash:%s grav:%.2f cam:%.0f",
		c.flow.State(), pos.X, pos.Y, pos.Z, st.Grounded, st.JumpCharges, dash, st.Gravity.Y,
		c.camera.Yaw()*180/math32.Pi)
}

func putStr(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < maxWidth; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
