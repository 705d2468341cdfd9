// Package demo provides a small point-sketching scene and the minor modes
// the terminal harness uses to exercise the mode manager.
package demo

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Styles used by the demo modes.
var (
	StyleGrid      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StylePoint     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	StyleHover     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	StyleCrosshair = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	StyleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// Canvas serializes drawing onto a tcell screen.
type Canvas struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewCanvas wraps an initialized screen.
func NewCanvas(screen tcell.Screen) *Canvas {
	return &Canvas{screen: screen}
}

// Screen returns the underlying screen.
func (c *Canvas) Screen() tcell.Screen {
	return c.screen
}

// Size returns the screen size in cells.
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen.Size()
}

// Set draws r at (x, y). Out-of-range cells are ignored.
func (c *Canvas) Set(x, y int, r rune, style tcell.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := c.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.screen.SetContent(x, y, r, nil, style)
}

// Text draws s starting at (x, y), clipped to the row.
func (c *Canvas) Text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.Set(x, y, r, style)
		x++
	}
}

// FillRow paints row y with style.
func (c *Canvas) FillRow(y int, style tcell.Style) {
	w, _ := c.Size()
	for x := 0; x < w; x++ {
		c.Set(x, y, ' ', style)
	}
}

// At returns the rune at (x, y).
func (c *Canvas) At(x, y int) rune {
	c.mu.Lock()
	defer c.mu.Unlock()

	mainc, _, _, _ := c.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return mainc
}

// Clear blanks the screen.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.Clear()
}

// Show flushes pending changes to the terminal.
func (c *Canvas) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.Show()
}
