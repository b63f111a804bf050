// Package settlement contiene la lógica pura del periodo de liquidación (servicio de dominio).
package settlement

import (
	"fmt"
	"time"

	"github.com/jhoicas/tms-settlements/internal/domain"
)

// Period rango [Start, End] inclusivo sobre DeliveredAt.
type Period struct {
	Start time.Time
	End   time.Time
}

// String formato corto para logs.
func (p Period) String() string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}

// Contains informa si t cae dentro del periodo (ambos extremos inclusivos).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// DefaultPeriod semana lunes-domingo completa más reciente antes de now:
// Start = lunes 00:00:00.000, End = domingo 23:59:59.999, en la zona de now.
// Un domingo pertenece a la semana que empezó el lunes anterior, por lo que
// nunca se devuelve una semana en curso.
func DefaultPeriod(now time.Time) Period {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// time.Weekday: domingo = 0. Días transcurridos desde el lunes de esta semana.
	sinceMonday := (int(midnight.Weekday()) + 6) % 7
	thisMonday := midnight.AddDate(0, 0, -sinceMonday)
	start := thisMonday.AddDate(0, 0, -7)
	end := thisMonday.Add(-time.Millisecond)
	return Period{Start: start, End: end}
}

// ResolvePeriod usa el rango explícito si viene completo; sin rango aplica DefaultPeriod.
// Un solo extremo o End < Start es domain.ErrInvalidInput.
func ResolvePeriod(start, end *time.Time, now time.Time) (Period, error) {
	switch {
	case start == nil && end == nil:
		return DefaultPeriod(now), nil
	case start == nil || end == nil:
		return Period{}, fmt.Errorf("%w: periodStart y periodEnd deben enviarse juntos", domain.ErrInvalidInput)
	case end.Before(*start):
		return Period{}, fmt.Errorf("%w: periodEnd anterior a periodStart", domain.ErrInvalidInput)
	}
	return Period{Start: *start, End: *end}, nil
}
