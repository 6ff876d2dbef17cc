package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	barmodel "github.com/charmbracelet/bubbles/progress"
)

const barWidth = 30

// Console renders progress lines to a terminal writer. With styling on
// it uses a gradient bar; otherwise a plain ASCII one.
type Console struct {
	writer io.Writer
	styled bool
	bar    barmodel.Model
	wrote  bool
}

// NewConsole builds a console progress sink.
func NewConsole(w io.Writer, styled bool) *Console {
	bar := barmodel.New(barmodel.WithDefaultGradient(), barmodel.WithoutPercentage())
	bar.Width = barWidth
	return &Console{writer: w, styled: styled, bar: bar}
}

// OnProgress rewrites the current progress line.
func (c *Console) OnProgress(done, total uint64, elapsed time.Duration) {
	if total <= 1 {
		return
	}
	fraction := 0.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}
	var bar string
	if c.styled {
		bar = c.bar.ViewAs(fraction)
	} else {
		filled := int(fraction * barWidth)
		bar = strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	}
	line := fmt.Sprintf("\r%s %6.2f%% (%d/%d) elapsed %s",
		bar, fraction*100, done, total, FormatSeconds(elapsed.Seconds(), 1))
	if eta, ok := ETA(done, total, elapsed); ok {
		line += fmt.Sprintf(" eta %s", FormatSeconds(eta.Seconds(), 1))
	}
	fmt.Fprint(c.writer, line)
	c.wrote = true
}

// OnComplete terminates the progress line.
func (c *Console) OnComplete(meta Metadata) {
	if c.wrote {
		fmt.Fprintln(c.writer)
	}
}

// FormatSeconds renders a duration in days/hours/minutes/seconds.
func FormatSeconds(seconds float64, decimals int) string {
	var b strings.Builder
	if seconds < 0 {
		b.WriteByte('-')
		seconds = -seconds
	}
	days := uint64(seconds / 86400)
	hours := uint64(seconds/3600) % 24
	minutes := uint64(seconds/60) % 60
	remainder := seconds - float64(days)*86400 - float64(hours)*3600 - float64(minutes)*60
	if days > 0 {
		fmt.Fprintf(&b, "%dd ", days)
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dm ", minutes)
	}
	fmt.Fprintf(&b, "%.*fs", decimals, remainder)
	return b.String()
}
