package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Temperatura is the perceived temperature a user reports for an aula.
type Temperatura string

const (
	TemperaturaFrio  Temperatura = "frio"
	TemperaturaCalor Temperatura = "calor"
)

// Temperaturas lists the accepted readings in display order.
var Temperaturas = []Temperatura{TemperaturaFrio, TemperaturaCalor}

// FechaLayout matches the es-AR toLocaleString output used by the web client.
const FechaLayout = "02/01/2006, 15:04:05"

// ZonaHoraria is the time zone every report timestamp is rendered in.
const ZonaHoraria = "America/Argentina/Buenos_Aires"

var (
	ErrAulaRequerida       = errors.New("aula is required")
	ErrTemperaturaInvalida = errors.New("temperatura must be frio or calor")
)

// ParseTemperatura normalizes user input into a Temperatura.
func ParseTemperatura(s string) (Temperatura, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "í", "i")
	switch Temperatura(v) {
	case TemperaturaFrio, TemperaturaCalor:
		return Temperatura(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrTemperaturaInvalida, s)
}

// Valid reports whether t is one of the accepted readings.
func (t Temperatura) Valid() bool {
	return t == TemperaturaFrio || t == TemperaturaCalor
}

// Selection is what the user picked in the report form.
type Selection struct {
	Aula        string      `json:"aula"`
	Temperatura Temperatura `json:"temperatura"`
}

// ReportRecord is a single report as handed to the store. Field names keep
// the shape of the documents already stored in the "reportes" collection.
type ReportRecord struct {
	Ubicacion   string      `json:"ubicacion"`
	Temperatura Temperatura `json:"temperatura"`
	Fecha       string      `json:"fecha"`
}

// NewReportRecord validates the selection and stamps it with the localized time.
func NewReportRecord(aula string, temp Temperatura, now time.Time) (ReportRecord, error) {
	aula = strings.TrimSpace(aula)
	if aula == "" {
		return ReportRecord{}, ErrAulaRequerida
	}
	if !temp.Valid() {
		return ReportRecord{}, fmt.Errorf("%w: %q", ErrTemperaturaInvalida, string(temp))
	}
	return ReportRecord{
		Ubicacion:   aula,
		Temperatura: temp,
		Fecha:       FormatFecha(now),
	}, nil
}

// StoredReport is a ReportRecord as read back from a store.
type StoredReport struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	ReportRecord
}

var buenosAires = loadZona()

func loadZona() *time.Location {
	loc, err := time.LoadLocation(ZonaHoraria)
	if err != nil {
		return time.FixedZone("ART", -3*60*60)
	}
	return loc
}

// FormatFecha renders t the way the es-AR locale prints dates in Buenos Aires.
func FormatFecha(t time.Time) string {
	return t.In(buenosAires).Format(FechaLayout)
}
