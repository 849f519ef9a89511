// dao/reportDao.go
package dao

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"termometro/models"
)

const reportMeasurement = "reportes"

// InfluxReportStore keeps one point per report in an InfluxDB bucket.
// ubicacion and temperatura are tags; id and fecha are fields.
type InfluxReportStore struct {
	client influxdb2.Client
	org    string
	bucket string
	now    func() time.Time
}

// NewInfluxReportStore wraps an InfluxDB client, creating the bucket if needed.
func NewInfluxReportStore(ctx context.Context, client influxdb2.Client, org, bucket string) (*InfluxReportStore, error) {
	if err := ensureBucket(ctx, client, org, bucket); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &InfluxReportStore{client: client, org: org, bucket: bucket, now: time.Now}, nil
}

// Save writes the report as a single point.
func (s *InfluxReportStore) Save(ctx context.Context, rec models.ReportRecord) error {
	writeAPI := s.client.WriteAPIBlocking(s.org, s.bucket)

	point := influxdb2.NewPoint(
		reportMeasurement,
		map[string]string{
			"ubicacion":   rec.Ubicacion,
			"temperatura": string(rec.Temperatura),
		},
		map[string]interface{}{
			"id":    uuid.NewString(),
			"fecha": rec.Fecha,
			"count": 1,
		},
		s.now(),
	)

	if err := writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("❌ Error writing report to InfluxDB: %v", err)
		return fmt.Errorf("failed to write to InfluxDB: %w", err)
	}
	log.Printf("✅ Report written to InfluxDB, bucket: %s, ubicacion: %s, temperatura: %s", s.bucket, rec.Ubicacion, rec.Temperatura)
	return nil
}

// LoadAll reads every report in the bucket, oldest first.
func (s *InfluxReportStore) LoadAll(ctx context.Context) ([]models.StoredReport, error) {
	queryAPI := s.client.QueryAPI(s.org)

	query := fmt.Sprintf(`from(bucket: "%s")
		|> range(start: 0)
		|> filter(fn: (r) => r._measurement == "%s")
		|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`, s.bucket, reportMeasurement)

	result, err := queryAPI.Query(ctx, query)
	if err != nil {
		log.Printf("❌ Error querying reports from InfluxDB: %v", err)
		return nil, fmt.Errorf("failed to query from InfluxDB: %w", err)
	}
	defer result.Close()

	var reports []models.StoredReport
	for result.Next() {
		record := result.Record()
		rep, ok := reportFromValues(record.Values(), record.Time())
		if !ok {
			log.Printf("⚠️ Skipping malformed report row: %v", record.Values())
			continue
		}
		reports = append(reports, rep)
	}
	if result.Err() != nil {
		log.Printf("❌ Query error: %v", result.Err())
		return nil, fmt.Errorf("query error: %w", result.Err())
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].RecordedAt.Before(reports[j].RecordedAt)
	})
	return reports, nil
}

// DeleteAll removes every report point from the bucket.
func (s *InfluxReportStore) DeleteAll(ctx context.Context) error {
	predicate := fmt.Sprintf(`_measurement="%s"`, reportMeasurement)
	err := s.client.DeleteAPI().DeleteWithName(ctx, s.org, s.bucket, time.Unix(0, 0), s.now(), predicate)
	if err != nil {
		return fmt.Errorf("delete reports: %w", err)
	}
	log.Printf("✅ Reports deleted from bucket %s", s.bucket)
	return nil
}

// Close releases the InfluxDB client.
func (s *InfluxReportStore) Close() error {
	s.client.Close()
	return nil
}

// reportFromValues turns a pivoted Flux row into a StoredReport.
func reportFromValues(values map[string]interface{}, at time.Time) (models.StoredReport, bool) {
	aula, _ := values["ubicacion"].(string)
	temp, _ := values["temperatura"].(string)
	if aula == "" || temp == "" {
		return models.StoredReport{}, false
	}
	id, _ := values["id"].(string)
	fecha, _ := values["fecha"].(string)
	if fecha == "" {
		fecha = models.FormatFecha(at)
	}
	return models.StoredReport{
		ID:         id,
		RecordedAt: at.UTC(),
		ReportRecord: models.ReportRecord{
			Ubicacion:   aula,
			Temperatura: models.Temperatura(temp),
			Fecha:       fecha,
		},
	}, true
}
