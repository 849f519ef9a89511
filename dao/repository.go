package dao

import (
	"context"

	"termometro/models"
)

// ReportStore persists reports and reads them back for the statistics view.
type ReportStore interface {
	Save(ctx context.Context, rec models.ReportRecord) error
	LoadAll(ctx context.Context) ([]models.StoredReport, error)
	DeleteAll(ctx context.Context) error
	Close() error
}
