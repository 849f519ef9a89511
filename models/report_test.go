package models

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemperatura(t *testing.T) {
	cases := map[string]Temperatura{
		"frio":   TemperaturaFrio,
		" Frío ": TemperaturaFrio,
		"CALOR":  TemperaturaCalor,
	}
	for in, want := range cases {
		got, err := ParseTemperatura(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "tibio", "hot"} {
		_, err := ParseTemperatura(in)
		assert.ErrorIs(t, err, ErrTemperaturaInvalida, in)
	}
}

func TestNewReportRecord(t *testing.T) {
	now := time.Date(2024, 5, 7, 16, 4, 5, 0, time.UTC)

	rec, err := NewReportRecord("  A101 ", TemperaturaCalor, now)
	require.NoError(t, err)
	assert.Equal(t, "A101", rec.Ubicacion)
	assert.Equal(t, TemperaturaCalor, rec.Temperatura)
	// Buenos Aires is UTC-3 all year.
	assert.Equal(t, "07/05/2024, 13:04:05", rec.Fecha)
}

func TestNewReportRecordRejectsInvalidInput(t *testing.T) {
	_, err := NewReportRecord("   ", TemperaturaFrio, time.Now())
	assert.ErrorIs(t, err, ErrAulaRequerida)

	_, err = NewReportRecord("A101", Temperatura("tibio"), time.Now())
	assert.ErrorIs(t, err, ErrTemperaturaInvalida)

	_, err = NewReportRecord("A101", "", time.Now())
	assert.ErrorIs(t, err, ErrTemperaturaInvalida)
}

func TestFormatFechaCrossesMidnight(t *testing.T) {
	utc := time.Date(2025, 1, 1, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "31/12/2024, 22:30:00", FormatFecha(utc))
}

func TestOutcomeStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusCreated, OutcomeAccepted.StatusCode())
	assert.Equal(t, http.StatusBadRequest, OutcomeRejectedNoRoomSelected.StatusCode())
	assert.Equal(t, http.StatusForbidden, OutcomeRejectedOutOfRange.StatusCode())
	assert.Equal(t, http.StatusUnprocessableEntity, OutcomeRejectedLocationUnavailable.StatusCode())
	assert.Equal(t, http.StatusUnprocessableEntity, OutcomeRejectedLocationUnsupported.StatusCode())
	assert.Equal(t, http.StatusBadGateway, OutcomeStorageFailure.StatusCode())

	for _, o := range Outcomes {
		assert.NotEmpty(t, o.Message())
	}
	assert.True(t, OutcomeAccepted.Accepted())
	assert.False(t, OutcomeStorageFailure.Accepted())
}
