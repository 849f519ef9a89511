package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"

	"termometro/models"
)

// ReportLoader is the read side of the report store.
type ReportLoader interface {
	LoadAll(ctx context.Context) ([]models.StoredReport, error)
}

// StatsCache holds the last aggregation between writes.
type StatsCache interface {
	Get(ctx context.Context) (models.Stats, bool, error)
	Set(ctx context.Context, stats models.Stats) error
	Invalidate(ctx context.Context) error
}

// Aggregate counts reports per aula and reading. Labels are sorted so the
// output does not depend on store order. Records with an unknown reading are
// left out of every row and counted in Ignored.
func Aggregate(records []models.ReportRecord) models.Stats {
	byAula := make(map[string]*models.RoomCounts)
	stats := models.Stats{}

	for _, rec := range records {
		if !rec.Temperatura.Valid() {
			stats.Ignored++
			continue
		}
		row, ok := byAula[rec.Ubicacion]
		if !ok {
			row = &models.RoomCounts{Aula: rec.Ubicacion}
			byAula[rec.Ubicacion] = row
		}
		switch rec.Temperatura {
		case models.TemperaturaFrio:
			row.Frio++
		case models.TemperaturaCalor:
			row.Calor++
		}
		stats.Total++
	}

	labels := make([]string, 0, len(byAula))
	for aula := range byAula {
		labels = append(labels, aula)
	}
	sort.Strings(labels)

	stats.Rows = make([]models.RoomCounts, 0, len(labels))
	stats.Labels = labels
	stats.Series = make(map[string][]int, len(models.Temperaturas))
	for _, t := range models.Temperaturas {
		stats.Series[string(t)] = make([]int, 0, len(labels))
	}
	for _, aula := range labels {
		row := *byAula[aula]
		stats.Rows = append(stats.Rows, row)
		for _, t := range models.Temperaturas {
			stats.Series[string(t)] = append(stats.Series[string(t)], row.Count(t))
		}
	}
	return stats
}

// StatsService serves aggregated statistics, optionally through a cache.
// generation moves on every Reset; a load that started under an older
// generation does not write the cache.
type StatsService struct {
	store      ReportLoader
	cache      StatsCache
	generation atomic.Uint64
}

// NewStatsService accepts a nil cache.
func NewStatsService(store ReportLoader, cache StatsCache) *StatsService {
	return &StatsService{store: store, cache: cache}
}

// Get returns the current statistics. Cache errors are logged and bypassed.
func (s *StatsService) Get(ctx context.Context) (models.Stats, error) {
	if s.cache != nil {
		stats, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.Printf("❌ Stats cache read failed: %v", err)
		} else if ok {
			return stats, nil
		}
	}

	gen := s.generation.Load()
	reports, err := s.store.LoadAll(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to load reports: %w", err)
	}
	records := make([]models.ReportRecord, 0, len(reports))
	for _, r := range reports {
		records = append(records, r.ReportRecord)
	}
	stats := Aggregate(records)

	if s.cache != nil && s.generation.Load() == gen {
		if err := s.cache.Set(ctx, stats); err != nil {
			log.Printf("❌ Stats cache write failed: %v", err)
		}
		if s.generation.Load() != gen {
			s.Reset(ctx)
		}
	}
	return stats, nil
}

// Invalidate drops the cached aggregation. It has the AcceptedHook shape so
// the gate can call it after every stored report.
func (s *StatsService) Invalidate(ctx context.Context, _ models.ReportRecord) {
	s.Reset(ctx)
}

// Reset drops the cached aggregation.
func (s *StatsService) Reset(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("❌ Stats cache invalidation failed: %v", err)
	}
}
