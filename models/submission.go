package models

import "termometro/geo"

// ReportRequest is the body of POST /api/reportes. PosicionError carries the
// client's reason when it has no position: "unsupported", "denied",
// "timeout" or "unavailable".
type ReportRequest struct {
	Aula          string          `json:"aula" yaml:"aula"`
	Temperatura   string          `json:"temperatura" yaml:"temperatura"`
	Posicion      *geo.Coordinate `json:"posicion,omitempty" yaml:"posicion,omitempty"`
	PosicionError string          `json:"posicion_error,omitempty" yaml:"posicion_error,omitempty"`
}

// ReportResponse answers every submission the gate ruled on.
type ReportResponse struct {
	Resultado       Outcome       `json:"resultado" yaml:"resultado"`
	Mensaje         string        `json:"mensaje" yaml:"mensaje"`
	Reporte         *ReportRecord `json:"reporte,omitempty" yaml:"reporte,omitempty"`
	DistanciaMetros *float64      `json:"distancia_metros,omitempty" yaml:"distancia_metros,omitempty"`
}
