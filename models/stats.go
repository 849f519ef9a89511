package models

// RoomCounts is one row of the statistics table.
type RoomCounts struct {
	Aula  string `json:"aula" yaml:"aula"`
	Frio  int    `json:"frio" yaml:"frio"`
	Calor int    `json:"calor" yaml:"calor"`
}

// Count returns the tally for a given reading.
func (r RoomCounts) Count(t Temperatura) int {
	switch t {
	case TemperaturaFrio:
		return r.Frio
	case TemperaturaCalor:
		return r.Calor
	}
	return 0
}

// ChartData is what a grouped bar chart consumes: one label per aula and one
// series per reading, aligned by index with Labels.
type ChartData struct {
	Labels []string         `json:"labels" yaml:"labels"`
	Series map[string][]int `json:"series" yaml:"series"`
}

// Stats is the aggregated view of every stored report.
type Stats struct {
	Rows      []RoomCounts `json:"tabla" yaml:"tabla"`
	Total     int          `json:"total" yaml:"total"`
	Ignored   int          `json:"ignorados,omitempty" yaml:"ignorados,omitempty"`
	ChartData `yaml:",inline"`
}

// Lookup returns the counts for an aula, if present.
func (s Stats) Lookup(aula string) (RoomCounts, bool) {
	for _, row := range s.Rows {
		if row.Aula == aula {
			return row, true
		}
	}
	return RoomCounts{}, false
}
