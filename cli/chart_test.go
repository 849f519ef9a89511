package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"termometro/models"
)

func TestBarChartDraw(t *testing.T) {
	chart := NewBarChart(4)
	out := chart.Draw(models.ChartData{
		Labels: []string{"A101", "B202"},
		Series: map[string][]int{"frio": {2, 0}, "calor": {1, 4}},
	})

	want := "A101\n" +
		"  frio  ██ 2\n" +
		"  calor █ 1\n" +
		"B202\n" +
		"  frio   0\n" +
		"  calor ████ 4"
	assert.Equal(t, want, out)
}

func TestBarChartEmptyAndDestroyed(t *testing.T) {
	chart := NewBarChart(0)
	assert.Equal(t, "Sin reportes.", chart.Draw(models.ChartData{}))

	chart.Destroy()
	assert.True(t, chart.Destroyed())
	assert.Empty(t, chart.Draw(models.ChartData{Labels: []string{"A101"}}))
}
