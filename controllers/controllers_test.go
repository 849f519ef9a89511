package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termometro/models"
	"termometro/services"
)

type failingStore struct{ err error }

func (s failingStore) Save(context.Context, models.ReportRecord) error { return s.err }
func (s failingStore) LoadAll(context.Context) ([]models.StoredReport, error) {
	return nil, s.err
}

type memoryArchive struct {
	reports []models.StoredReport
	deleted bool
}

func (a *memoryArchive) LoadAll(context.Context) ([]models.StoredReport, error) {
	return a.reports, nil
}

func (a *memoryArchive) DeleteAll(context.Context) error {
	a.deleted = true
	a.reports = nil
	return nil
}

type resetCounter struct{ n int }

func (r *resetCounter) Reset(context.Context) { r.n++ }

type staticRooms struct {
	rooms []string
	err   error
}

func (s staticRooms) List(context.Context) ([]string, error) { return s.rooms, s.err }

func TestSubmitReportStorageFailure(t *testing.T) {
	store := failingStore{err: errors.New("database is locked")}
	c := NewReportController(services.NewGate(nil, store), store)

	rec := httptest.NewRecorder()
	c.SubmitReport(rec, httptest.NewRequest(http.MethodPost, "/api/reportes", strings.NewReader(`{"aula":"A101","temperatura":"frio"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body models.ReportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, models.OutcomeStorageFailure, body.Resultado)
	assert.Equal(t, "No se pudo guardar el reporte.", body.Mensaje)
	assert.Nil(t, body.Reporte)
}

func TestListReportsStoreError(t *testing.T) {
	store := failingStore{err: errors.New("timeout")}
	c := NewReportController(services.NewGate(nil, store), store)

	rec := httptest.NewRecorder()
	c.ListReports(rec, httptest.NewRequest(http.MethodGet, "/api/reportes", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGeofenceDisabled(t *testing.T) {
	c := NewReportController(services.NewGate(nil, nil), nil)

	rec := httptest.NewRecorder()
	c.GetGeofence(rec, httptest.NewRequest(http.MethodGet, "/api/geocerca", nil))
	assert.JSONEq(t, `{"habilitada":false}`, rec.Body.String())
}

func TestListRoomsError(t *testing.T) {
	c := NewRoomController(staticRooms{err: services.ErrRoomListUnavailable})

	rec := httptest.NewRecorder()
	c.ListRooms(rec, httptest.NewRequest(http.MethodGet, "/api/aulas", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream_failed")
}

func TestExportReportsCSV(t *testing.T) {
	at := time.Date(2024, 5, 7, 16, 4, 5, 0, time.UTC)
	archive := &memoryArchive{reports: []models.StoredReport{{
		ID:           "id-1",
		RecordedAt:   at,
		ReportRecord: models.ReportRecord{Ubicacion: "Aula, Magna", Temperatura: models.TemperaturaFrio, Fecha: "07/05/2024, 13:04:05"},
	}}}
	c := NewAdminController(archive, &resetCounter{})

	rec := httptest.NewRecorder()
	c.ExportReports(rec, httptest.NewRequest(http.MethodGet, "/api/admin/reportes/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"id,recorded_at,fecha,ubicacion,temperatura\n"+
			"id-1,2024-05-07T16:04:05Z,\"07/05/2024, 13:04:05\",\"Aula, Magna\",frio\n",
		rec.Body.String())
}

func TestDeleteReportsResetsStats(t *testing.T) {
	archive := &memoryArchive{reports: []models.StoredReport{{ID: "x"}}}
	resets := &resetCounter{}
	c := NewAdminController(archive, resets)

	rec := httptest.NewRecorder()
	c.DeleteReports(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/reportes", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, archive.deleted)

	rec = httptest.NewRecorder()
	c.DeleteReports(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/reportes", strings.NewReader(`{"confirm":"borrar"}`)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, archive.deleted)
	assert.Equal(t, 1, resets.n)
}
