package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"termometro/geo"
	"termometro/metrics"
	"termometro/models"
)

// ErrStorage wraps any error returned by the report store.
var ErrStorage = errors.New("report storage failed")

const (
	defaultLocationTimeout = 10 * time.Second
	defaultStoreTimeout    = 5 * time.Second
)

// ReportSaver is the part of the store the gate needs.
type ReportSaver interface {
	Save(ctx context.Context, rec models.ReportRecord) error
}

// AcceptedHook runs after a report was stored.
type AcceptedHook func(ctx context.Context, rec models.ReportRecord)

// Receipt describes how a submission ended.
type Receipt struct {
	Outcome models.Outcome
	// Record is set only when the report was accepted.
	Record *models.ReportRecord
	// DistanceMeters is set whenever a position was obtained.
	DistanceMeters *float64
}

// Message is the user facing status line.
func (r Receipt) Message() string {
	if r.Outcome.Accepted() && r.Record != nil {
		return fmt.Sprintf("Reporte guardado: %s - %s", r.Record.Ubicacion, r.Record.Temperatura)
	}
	return r.Outcome.Message()
}

// Gate decides whether a selection may be stored and stores it at most once.
type Gate struct {
	fence           *geo.Geofence
	store           ReportSaver
	now             func() time.Time
	locationTimeout time.Duration
	storeTimeout    time.Duration
	metrics         *metrics.Metrics
	onAccepted      []AcceptedHook
}

type GateOption func(*Gate)

// WithClock overrides the clock used to stamp reports.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithTimeouts bounds the location request and the store write.
func WithTimeouts(location, store time.Duration) GateOption {
	return func(g *Gate) {
		if location > 0 {
			g.locationTimeout = location
		}
		if store > 0 {
			g.storeTimeout = store
		}
	}
}

func WithMetrics(m *metrics.Metrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

// OnAccepted registers hooks that run, in order, after each stored report.
func OnAccepted(hooks ...AcceptedHook) GateOption {
	return func(g *Gate) { g.onAccepted = append(g.onAccepted, hooks...) }
}

// NewGate builds a gate. A nil fence disables location checks entirely.
func NewGate(fence *geo.Geofence, store ReportSaver, opts ...GateOption) *Gate {
	g := &Gate{
		fence:           fence,
		store:           store,
		now:             time.Now,
		locationTimeout: defaultLocationTimeout,
		storeTimeout:    defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geofence returns the active fence, nil when disabled.
func (g *Gate) Geofence() *geo.Geofence {
	return g.fence
}

// Submit validates sel and, when every check passes, saves exactly one report.
// Rejections are reported through the receipt with a nil error. A store
// failure yields OutcomeStorageFailure and an error wrapping ErrStorage.
// An unknown temperature is a caller error and produces no receipt.
func (g *Gate) Submit(ctx context.Context, sel models.Selection, loc LocationProvider) (Receipt, error) {
	start := time.Now()

	aula := strings.TrimSpace(sel.Aula)
	if aula == "" {
		return g.finish(start, sel, Receipt{Outcome: models.OutcomeRejectedNoRoomSelected}, nil)
	}
	if !sel.Temperatura.Valid() {
		return Receipt{}, fmt.Errorf("%w: %q", models.ErrTemperaturaInvalida, string(sel.Temperatura))
	}

	var receipt Receipt
	if g.fence != nil {
		pos, outcome := g.locate(ctx, loc)
		if outcome != "" {
			receipt.Outcome = outcome
			return g.finish(start, sel, receipt, nil)
		}

		d := geo.DistanceMeters(pos, g.fence.Center)
		receipt.DistanceMeters = &d
		g.metrics.ObserveDistance(d)

		if !g.fence.Contains(pos) {
			receipt.Outcome = models.OutcomeRejectedOutOfRange
			return g.finish(start, sel, receipt, nil)
		}
	}

	rec, err := models.NewReportRecord(aula, sel.Temperatura, g.now())
	if err != nil {
		return Receipt{}, err
	}

	saveCtx, cancel := context.WithTimeout(ctx, g.storeTimeout)
	defer cancel()
	if err := g.store.Save(saveCtx, rec); err != nil {
		log.Printf("❌ Failed to save report for %s: %v", aula, err)
		receipt.Outcome = models.OutcomeStorageFailure
		return g.finish(start, sel, receipt, fmt.Errorf("%w: %v", ErrStorage, err))
	}

	receipt.Outcome = models.OutcomeAccepted
	receipt.Record = &rec
	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range g.onAccepted {
		hook(hookCtx, rec)
	}
	return g.finish(start, sel, receipt, nil)
}

type positionResult struct {
	pos geo.Coordinate
	err error
}

// locate returns a non-empty outcome when no usable position was obtained.
// The provider runs in its own goroutine so one that ignores ctx cannot
// hold the submission past the timeout.
func (g *Gate) locate(ctx context.Context, loc LocationProvider) (geo.Coordinate, models.Outcome) {
	if loc == nil {
		return geo.Coordinate{}, models.OutcomeRejectedLocationUnsupported
	}

	lctx, cancel := context.WithTimeout(ctx, g.locationTimeout)
	defer cancel()

	ch := make(chan positionResult, 1)
	go func() {
		pos, err := loc.CurrentPosition(lctx)
		ch <- positionResult{pos: pos, err: err}
	}()

	select {
	case <-lctx.Done():
		log.Printf("❌ Location request ended: %v", lctx.Err())
		return geo.Coordinate{}, models.OutcomeRejectedLocationUnavailable
	case res := <-ch:
		switch {
		case errors.Is(res.err, ErrLocationUnsupported):
			return geo.Coordinate{}, models.OutcomeRejectedLocationUnsupported
		case res.err != nil:
			log.Printf("❌ Location error: %v", res.err)
			return geo.Coordinate{}, models.OutcomeRejectedLocationUnavailable
		case !res.pos.Valid():
			log.Printf("❌ Invalid coordinate received: %s", res.pos)
			return geo.Coordinate{}, models.OutcomeRejectedLocationUnavailable
		}
		return res.pos, ""
	}
}

func (g *Gate) finish(start time.Time, sel models.Selection, r Receipt, err error) (Receipt, error) {
	g.metrics.ObserveSubmission(r.Outcome, time.Since(start))
	if r.Outcome.Accepted() {
		log.Printf("✅ Report stored: %s - %s", r.Record.Ubicacion, r.Record.Temperatura)
	} else {
		log.Printf("Report rejected (%s): aula=%q temperatura=%q", r.Outcome, sel.Aula, sel.Temperatura)
	}
	return r, err
}
