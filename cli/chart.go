package cli

import (
	"fmt"
	"strings"

	"termometro/models"
)

// Chart draws report statistics. A destroyed chart draws nothing.
type Chart interface {
	Draw(data models.ChartData) string
	Destroy()
	Destroyed() bool
}

// BarChart is a grouped horizontal bar chart for the terminal: one group
// per aula, one bar per reading.
type BarChart struct {
	width     int
	destroyed bool
}

func NewBarChart(width int) *BarChart {
	if width <= 0 {
		width = 40
	}
	return &BarChart{width: width}
}

func (c *BarChart) Draw(data models.ChartData) string {
	if c.destroyed {
		return ""
	}
	if len(data.Labels) == 0 {
		return "Sin reportes."
	}

	peak := 0
	for _, t := range models.Temperaturas {
		for _, v := range data.Series[string(t)] {
			if v > peak {
				peak = v
			}
		}
	}

	labelWidth := 0
	for _, t := range models.Temperaturas {
		if len(t) > labelWidth {
			labelWidth = len(t)
		}
	}

	var b strings.Builder
	for i, aula := range data.Labels {
		b.WriteString(aula)
		b.WriteByte('\n')
		for _, t := range models.Temperaturas {
			series := data.Series[string(t)]
			v := 0
			if i < len(series) {
				v = series[i]
			}
			n := 0
			if peak > 0 {
				n = v * c.width / peak
			}
			if v > 0 && n == 0 {
				n = 1
			}
			fmt.Fprintf(&b, "  %-*s %s %d\n", labelWidth, t, strings.Repeat("█", n), v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *BarChart) Destroy() {
	c.destroyed = true
}

func (c *BarChart) Destroyed() bool {
	return c.destroyed
}
