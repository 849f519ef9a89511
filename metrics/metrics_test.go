package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termometro/models"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission(models.OutcomeAccepted, 10*time.Millisecond)
	m.ObserveSubmission(models.OutcomeAccepted, 20*time.Millisecond)
	m.ObserveSubmission(models.OutcomeRejectedOutOfRange, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(string(models.OutcomeAccepted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(string(models.OutcomeRejectedOutOfRange))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.submissions.WithLabelValues(string(models.OutcomeStorageFailure))))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission(models.OutcomeAccepted, time.Second)
	m.ObserveDistance(10)
	m.ObserveMQTT("ok")
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveDistance(42)
	m.ObserveMQTT("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `termometro_reportes_total{resultado="accepted"} 0`)
	assert.Contains(t, string(body), "termometro_distancia_metros_count 1")
	assert.Contains(t, string(body), `termometro_mqtt_mensajes_total{estado="ok"} 1`)
}
