// Package meter renders the answer confidence gauge.
package meter

import (
	"fmt"
	"math"
	"strings"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
)

const (
	fullCell  = "█"
	emptyCell = "░"
)

// Confidence is a horizontal gauge for a score in [0,1], coloured by band.
type Confidence struct {
	styles *styles.Styles
	width  int
}

// NewConfidence creates a gauge with the given number of cells.
func NewConfidence(s *styles.Styles, width int) *Confidence {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if width <= 0 {
		width = 20
	}
	return &Confidence{styles: s, width: width}
}

// Cells returns how many of the gauge's cells score fills.
func (c *Confidence) Cells(score float64) int {
	score = math.Max(0, math.Min(1, score))
	return int(math.Round(score * float64(c.width)))
}

// View renders the gauge followed by the percentage.
func (c *Confidence) View(score float64) string {
	filled := c.Cells(score)
	bar := strings.Repeat(fullCell, filled) + strings.Repeat(emptyCell, c.width-filled)
	pct := int(math.Round(math.Max(0, math.Min(1, score)) * 100))
	return c.styles.Muted.Render("Confidence ") +
		c.styles.Confidence(score).Render(bar) +
		c.styles.Normal.Render(fmt.Sprintf(" %d%%", pct))
}

// SetWidth sets the number of cells.
func (c *Confidence) SetWidth(width int) {
	if width > 0 {
		c.width = width
	}
}

// Width returns the number of cells.
func (c *Confidence) Width() int {
	return c.width
}
