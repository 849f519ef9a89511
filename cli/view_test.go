package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termometro/models"
)

func accepted(msg string) models.ReportResponse {
	return models.ReportResponse{Resultado: models.OutcomeAccepted, Mensaje: msg}
}

func TestStaleAttemptNeverOverwritesNewerStatus(t *testing.T) {
	c := NewController(func() Chart { return NewBarChart(10) }, WithStatusClearAfter(0))
	c.Mount()
	defer c.Unmount()

	release := make(chan struct{})
	firstDone := make(chan struct{})
	var firstCtxErr error
	go func() {
		defer close(firstDone)
		_, _ = c.Submit(context.Background(), func(ctx context.Context) (models.ReportResponse, error) {
			<-release
			firstCtxErr = ctx.Err()
			return models.ReportResponse{Resultado: models.OutcomeRejectedOutOfRange, Mensaje: "viejo"}, nil
		})
	}()

	require.Eventually(t, func() bool { return c.Status().Text == "Enviando reporte..." }, time.Second, time.Millisecond)

	_, err := c.Submit(context.Background(), func(context.Context) (models.ReportResponse, error) {
		return accepted("Reporte guardado: A101 - frio"), nil
	})
	require.NoError(t, err)

	close(release)
	<-firstDone

	assert.Equal(t, Status{Kind: StatusSuccess, Text: "Reporte guardado: A101 - frio"}, c.Status())
	assert.ErrorIs(t, firstCtxErr, context.Canceled)
}

func TestStaleStatsLoadNeverRedrawsChart(t *testing.T) {
	var built int
	c := NewController(func() Chart { built++; return NewBarChart(10) }, WithStatusClearAfter(0))
	c.Mount()
	defer c.Unmount()

	older := models.Stats{Total: 1, ChartData: models.ChartData{Labels: []string{"viejo"}, Series: map[string][]int{"frio": {1}, "calor": {0}}}}
	newer := models.Stats{Total: 2, ChartData: models.ChartData{Labels: []string{"A101"}, Series: map[string][]int{"frio": {1}, "calor": {1}}}}

	release := make(chan struct{})
	started := make(chan struct{})
	firstDone := make(chan struct{})
	var firstChart string
	var firstCtxErr error
	go func() {
		defer close(firstDone)
		_, firstChart, _ = c.LoadStats(context.Background(), func(ctx context.Context) (models.Stats, error) {
			close(started)
			<-release
			firstCtxErr = ctx.Err()
			return older, nil
		})
	}()
	<-started

	_, chart, err := c.LoadStats(context.Background(), func(context.Context) (models.Stats, error) {
		return newer, nil
	})
	require.NoError(t, err)
	assert.Contains(t, chart, "A101")
	current := c.Chart()

	close(release)
	<-firstDone

	assert.Empty(t, firstChart)
	assert.ErrorIs(t, firstCtxErr, context.Canceled)
	assert.Same(t, current, c.Chart())
	assert.False(t, current.Destroyed())
	assert.Equal(t, 1, built)
}

func TestLoadStatsErrorSetsStatus(t *testing.T) {
	c := NewController(func() Chart { return NewBarChart(10) }, WithStatusClearAfter(0))
	c.Mount()
	defer c.Unmount()

	_, chart, err := c.LoadStats(context.Background(), func(context.Context) (models.Stats, error) {
		return models.Stats{}, errors.New("connection refused")
	})
	assert.Error(t, err)
	assert.Empty(t, chart)
	assert.Nil(t, c.Chart())
	assert.Equal(t, Status{Kind: StatusError, Text: "connection refused"}, c.Status())
}

func TestStatusReflectsOutcome(t *testing.T) {
	var seen []Status
	c := NewController(nil, WithStatusClearAfter(0), WithStatusListener(func(s Status) { seen = append(seen, s) }))
	c.Mount()
	defer c.Unmount()

	_, _ = c.Submit(context.Background(), func(context.Context) (models.ReportResponse, error) {
		return models.ReportResponse{Resultado: models.OutcomeRejectedNoRoomSelected, Mensaje: "Seleccioná un aula."}, nil
	})
	assert.Equal(t, Status{Kind: StatusError, Text: "Seleccioná un aula."}, c.Status())

	_, err := c.Submit(context.Background(), func(context.Context) (models.ReportResponse, error) {
		return models.ReportResponse{}, errors.New("connection refused")
	})
	assert.Error(t, err)
	assert.Equal(t, Status{Kind: StatusError, Text: "connection refused"}, c.Status())

	require.Len(t, seen, 4)
	assert.Equal(t, StatusInfo, seen[0].Kind)
}

func TestStatusClearsAfterDelay(t *testing.T) {
	c := NewController(nil, WithStatusClearAfter(20*time.Millisecond))
	c.Mount()
	defer c.Unmount()

	_, _ = c.Submit(context.Background(), func(context.Context) (models.ReportResponse, error) {
		return accepted("ok"), nil
	})
	assert.Equal(t, "ok", c.Status().Text)
	assert.Eventually(t, func() bool { return c.Status() == Status{} }, time.Second, 5*time.Millisecond)
}

func TestUnmountDestroysChartAndDropsLateResults(t *testing.T) {
	c := NewController(func() Chart { return NewBarChart(10) }, WithStatusClearAfter(0))
	c.Mount()

	data := models.ChartData{Labels: []string{"A101"}, Series: map[string][]int{"frio": {1}, "calor": {0}}}
	assert.NotEmpty(t, c.RenderStats(data))
	chart := c.Chart()
	require.NotNil(t, chart)

	c.Unmount()
	assert.True(t, chart.Destroyed())
	assert.Nil(t, c.Chart())

	_, _ = c.Submit(context.Background(), func(context.Context) (models.ReportResponse, error) {
		return accepted("tarde"), nil
	})
	assert.Equal(t, Status{}, c.Status())
	assert.Empty(t, c.RenderStats(data))
}

func TestRenderStatsReplacesChart(t *testing.T) {
	c := NewController(func() Chart { return NewBarChart(10) })
	c.Mount()
	defer c.Unmount()

	data := models.ChartData{Labels: []string{"A101"}, Series: map[string][]int{"frio": {1}, "calor": {1}}}
	c.RenderStats(data)
	first := c.Chart()
	c.RenderStats(data)

	assert.True(t, first.Destroyed())
	assert.False(t, c.Chart().Destroyed())
}
