package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBuf is a 2x4 micro-pixel canvas per terminal cell. Each cell
// carries one color: the last one drawn into it.
type brailleBuf struct {
	w, h  int        // in cells
	m     [][]uint8  // per-cell 8-bit mask
	c     [][]string // per-cell hex color, "" for default
	glyph [][]rune   // per-cell override glyph, 0 for none
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]string, h)
	g := make([][]rune, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]string, w)
		g[i] = make([]rune, w)
	}
	return &brailleBuf{w: w, h: h, m: m, c: c, glyph: g}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
	b.c[cy][cx] = color
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillDisc fills every micro-pixel within r of (cx, cy).
func (b *brailleBuf) fillDisc(cx, cy, r int, color string) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				b.setPixel(cx+x, cy+y, color)
			}
		}
	}
}

// mark replaces a whole cell with a glyph.
func (b *brailleBuf) mark(cx, cy int, glyph rune, color string) {
	if cx < 0 || cy < 0 || cx >= b.w || cy >= b.h {
		return
	}
	b.glyph[cy][cx] = glyph
	b.c[cy][cx] = color
}

func (b *brailleBuf) cell(x, y int) rune {
	if g := b.glyph[y][x]; g != 0 {
		return g
	}
	if mask := b.m[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

// toLines renders rows, styling runs of equally colored cells together.
func (b *brailleBuf) toLines() []string {
	styles := map[string]lipgloss.Style{}
	render := func(color string, s string) string {
		if color == "" {
			return s
		}
		st, ok := styles[color]
		if !ok {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			styles[color] = st
		}
		return st.Render(s)
	}
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		run := make([]rune, 0, b.w)
		runColor := ""
		for x := 0; x < b.w; x++ {
			r := b.cell(x, y)
			color := b.c[y][x]
			if r == ' ' {
				color = ""
			}
			if color != runColor && len(run) > 0 {
				sb.WriteString(render(runColor, string(run)))
				run = run[:0]
			}
			runColor = color
			run = append(run, r)
		}
		sb.WriteString(render(runColor, string(run)))
		out[y] = sb.String()
	}
	return out
}
