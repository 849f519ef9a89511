package cli

import (
	"context"
	"sync"
	"time"

	"termometro/models"
)

const defaultStatusClearAfter = 3 * time.Second

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the single status line shown to the user.
type Status struct {
	Kind StatusKind
	Text string
}

// Controller owns the view state: the status line, the attempt in flight and
// the statistics chart. Only the latest attempt may write the status, and
// the status clears itself after a delay.
type Controller struct {
	mu         sync.Mutex
	mounted    bool
	attempt    uint64
	cancel     context.CancelFunc
	status     Status
	clearTimer *time.Timer
	clearAfter time.Duration
	newChart   func() Chart
	chart      Chart
	onStatus   func(Status)
}

type ControllerOption func(*Controller)

// WithStatusClearAfter sets how long a final status stays visible.
func WithStatusClearAfter(d time.Duration) ControllerOption {
	return func(c *Controller) { c.clearAfter = d }
}

// WithStatusListener is called with every status change, including clears.
func WithStatusListener(fn func(Status)) ControllerOption {
	return func(c *Controller) { c.onStatus = fn }
}

func NewController(newChart func() Chart, opts ...ControllerOption) *Controller {
	c := &Controller{newChart: newChart, clearAfter: defaultStatusClearAfter}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = true
}

// Unmount cancels the attempt in flight, stops the status timer and destroys
// the chart. Later results are dropped.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.attempt++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
}

// Status returns the current status line.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Submit runs one attempt. A newer Submit cancels this one and from then on
// this attempt can no longer touch the status.
func (c *Controller) Submit(ctx context.Context, send func(ctx context.Context) (models.ReportResponse, error)) (models.ReportResponse, error) {
	token, actx, cancel := c.begin(ctx)
	defer c.end(token, cancel)

	c.setStatus(token, Status{Kind: StatusInfo, Text: "Enviando reporte..."}, false)

	res, err := send(actx)
	switch {
	case err != nil:
		c.setStatus(token, Status{Kind: StatusError, Text: err.Error()}, true)
	case res.Resultado.Accepted():
		c.setStatus(token, Status{Kind: StatusSuccess, Text: res.Mensaje}, true)
	default:
		c.setStatus(token, Status{Kind: StatusError, Text: res.Mensaje}, true)
	}
	return res, err
}

// LoadStats runs one statistics attempt and redraws the chart from its
// result. The returned text is empty when a newer attempt or Unmount
// superseded this one.
func (c *Controller) LoadStats(ctx context.Context, fetch func(ctx context.Context) (models.Stats, error)) (models.Stats, string, error) {
	token, actx, cancel := c.begin(ctx)
	defer c.end(token, cancel)

	stats, err := fetch(actx)
	if err != nil {
		c.setStatus(token, Status{Kind: StatusError, Text: err.Error()}, true)
		return stats, "", err
	}
	return stats, c.draw(token, stats.ChartData), nil
}

// begin starts a new attempt and cancels the previous one.
func (c *Controller) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.attempt++
	actx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return c.attempt, actx, cancel
}

func (c *Controller) end(token uint64, cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	if c.attempt == token {
		c.cancel = nil
	}
	c.mu.Unlock()
}

// setStatus applies st only for the latest attempt of a mounted view.
func (c *Controller) setStatus(token uint64, st Status, autoClear bool) bool {
	c.mu.Lock()
	if !c.mounted || token != c.attempt {
		c.mu.Unlock()
		return false
	}
	c.status = st
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	if autoClear && c.clearAfter > 0 {
		c.clearTimer = time.AfterFunc(c.clearAfter, func() { c.clearStatus(token) })
	}
	listener := c.onStatus
	c.mu.Unlock()

	if listener != nil {
		listener(st)
	}
	return true
}

func (c *Controller) clearStatus(token uint64) {
	c.mu.Lock()
	if token != c.attempt || !c.mounted {
		c.mu.Unlock()
		return
	}
	c.status = Status{}
	c.clearTimer = nil
	listener := c.onStatus
	c.mu.Unlock()

	if listener != nil {
		listener(Status{})
	}
}

// RenderStats replaces the owned chart with a new one drawn from data.
func (c *Controller) RenderStats(data models.ChartData) string {
	c.mu.Lock()
	token := c.attempt
	c.mu.Unlock()
	return c.draw(token, data)
}

// draw replaces the chart only while token is the latest attempt.
func (c *Controller) draw(token uint64, data models.ChartData) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted || token != c.attempt {
		return ""
	}
	if c.chart != nil {
		c.chart.Destroy()
	}
	c.chart = c.newChart()
	return c.chart.Draw(data)
}

// Chart returns the chart currently owned by the view, if any.
func (c *Controller) Chart() Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chart
}
