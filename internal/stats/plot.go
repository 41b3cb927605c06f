package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 6
	minPlotWidth        = 10
	axisWidth           = 8
	terminalWidthBackup = 80
	plotColor           = "\x1b[36m"
	colorReset          = "\x1b[0m"
)

// braille dot bits, indexed by [column][row] inside one 2x4 cell.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	if w := totalWidth - axisWidth; w > minPlotWidth {
		return w
	}
	return minPlotWidth
}

// PlotCurve renders values as a braille line chart scaled to the series min/max.
// A width of 0 uses the terminal width.
func PlotCurve(w io.Writer, title string, values []float64, width, height int, forceColor bool) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	lo, hi := minMax(values)
	if hi-lo < 1e-9 {
		lo--
		hi++
	}

	dotsX, dotsY := width*2, height*4
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = make([]rune, width)
	}
	prevX, prevY := -1, -1
	for i, v := range resample(values, dotsX) {
		y := int(math.Round((hi - v) / (hi - lo) * float64(dotsY-1)))
		if prevX >= 0 {
			line(prevX, prevY, i, y, func(x, y int) { setDot(cells, x, y) })
		} else {
			setDot(cells, i, y)
		}
		prevX, prevY = i, y
	}

	color := useColor(w, forceColor)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  min=%.1f max=%.1f\n", title, lo, hi)
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%.0f", hi)
		case height - 1:
			label = fmt.Sprintf("%.0f", lo)
		}
		fmt.Fprintf(&b, "%*s │ ", axisWidth-3, label)
		if color {
			b.WriteString(plotColor)
		}
		for _, bits := range row {
			b.WriteRune(0x2800 + bits)
		}
		if color {
			b.WriteString(colorReset)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func setDot(cells [][]rune, x, y int) {
	cy, cx := y/4, x/2
	if y < 0 || x < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}

// line walks the integer points between two dots (Bresenham).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// resample stretches or averages values onto n evenly spaced points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
