package models

import "net/http"

// Outcome is the terminal state of a submission attempt.
type Outcome string

const (
	OutcomeAccepted                    Outcome = "accepted"
	OutcomeRejectedNoRoomSelected      Outcome = "rejected_no_room_selected"
	OutcomeRejectedOutOfRange          Outcome = "rejected_out_of_range"
	OutcomeRejectedLocationUnavailable Outcome = "rejected_location_unavailable"
	OutcomeRejectedLocationUnsupported Outcome = "rejected_location_unsupported"

	// OutcomeStorageFailure is not a validation outcome: the report was valid
	// but the store rejected the write.
	OutcomeStorageFailure Outcome = "storage_failure"
)

// Outcomes lists every submission result, used to pre-register metric labels.
var Outcomes = []Outcome{
	OutcomeAccepted,
	OutcomeRejectedNoRoomSelected,
	OutcomeRejectedOutOfRange,
	OutcomeRejectedLocationUnavailable,
	OutcomeRejectedLocationUnsupported,
	OutcomeStorageFailure,
}

// Accepted reports whether the report was stored.
func (o Outcome) Accepted() bool {
	return o == OutcomeAccepted
}

// Message is the short status line shown to the user.
func (o Outcome) Message() string {
	switch o {
	case OutcomeAccepted:
		return "Reporte guardado."
	case OutcomeRejectedNoRoomSelected:
		return "Seleccioná un aula."
	case OutcomeRejectedOutOfRange:
		return "Estás fuera del rango permitido para enviar un reporte."
	case OutcomeRejectedLocationUnavailable:
		return "No se pudo obtener tu ubicación."
	case OutcomeRejectedLocationUnsupported:
		return "Tu navegador no soporta geolocalización."
	case OutcomeStorageFailure:
		return "No se pudo guardar el reporte."
	default:
		return string(o)
	}
}

// StatusCode maps the outcome to the HTTP status the API answers with.
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeAccepted:
		return http.StatusCreated
	case OutcomeRejectedNoRoomSelected:
		return http.StatusBadRequest
	case OutcomeRejectedOutOfRange:
		return http.StatusForbidden
	case OutcomeRejectedLocationUnavailable, OutcomeRejectedLocationUnsupported:
		return http.StatusUnprocessableEntity
	case OutcomeStorageFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
