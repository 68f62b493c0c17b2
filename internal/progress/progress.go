// Package progress renders copy progress as a single overwritten line.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the number of cells in the bar.
const DefaultWidth = 50

// Reporter receives progress after every copy attempt.
type Reporter interface {
	Update(current, total int, label string)
	Finish()
}

// Nop discards progress updates.
type Nop struct{}

// Update does nothing.
func (Nop) Update(int, int, string) {}

// Finish does nothing.
func (Nop) Finish() {}

// Bar draws "\r[####------] 42.00% label" on its writer.
type Bar struct {
	out        io.Writer
	width      int
	labelWidth int
	drawn      bool
}

// NewBar creates a bar with width cells. labelWidth caps the trailing label
// in terminal columns; zero hides the label.
func NewBar(out io.Writer, width, labelWidth int) *Bar {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Bar{out: out, width: width, labelWidth: labelWidth}
}

// Update redraws the bar for current out of total.
func (b *Bar) Update(current, total int, label string) {
	fmt.Fprint(b.out, "\r"+b.Render(current, total, label))
	b.drawn = true
}

// Finish moves the cursor past the bar.
func (b *Bar) Finish() {
	if b.drawn {
		fmt.Fprintln(b.out)
		b.drawn = false
	}
}

// Render formats one frame of the bar. A zero total renders as complete.
func (b *Bar) Render(current, total int, label string) string {
	ratio := 1.0
	if total > 0 {
		ratio = float64(current) / float64(total)
	}
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	filled := int(float64(b.width) * ratio)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", b.width-filled)
	line := fmt.Sprintf("[%s] %6.2f%%", bar, ratio*100)

	if b.labelWidth > 0 && label != "" {
		// Pad so a shorter label overwrites a longer previous one.
		line += " " + runewidth.FillRight(runewidth.Truncate(label, b.labelWidth, "..."), b.labelWidth)
	}
	return line
}

// ForTerminal returns a Bar on f when f is a terminal and enabled is set,
// otherwise a Nop reporter.
func ForTerminal(f *os.File, enabled bool, width int) Reporter {
	if !enabled || !isTerminal(f) {
		return Nop{}
	}
	return NewBar(f, width, 30)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
