package period

import (
	"fmt"
	"time"

	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/parse"
)

// MinCount es el mínimo de períodos: actual vs anterior.
const MinCount = 2

// Desfase de maduración aplicado antes de leer scores.
const (
	ScoringLagDays   = 14
	ScoringLagMonths = 1
)

// Calculator genera ventanas de comparación contiguas hacia atrás.
type Calculator struct {
	Granularity models.Granularity
	Count       int
}

func New(g models.Granularity, count int) Calculator {
	if count < MinCount {
		count = MinCount
	}
	return Calculator{Granularity: g, Count: count}
}

// Periods devuelve los períodos, el más reciente primero (índice 0 = actual).
// Semanal: [ref, ref+6]; mensual: el mes calendario que contiene ref.
func (c Calculator) Periods(ref time.Time) []models.Period {
	if ref.IsZero() {
		return nil
	}
	ref = parse.Day(ref)
	n := c.Count
	if n < MinCount {
		n = MinCount
	}
	out := make([]models.Period, 0, n)
	switch c.Granularity {
	case models.Monthly:
		first := parse.Date(ref.Year(), ref.Month(), 1)
		for i := 0; i < n; i++ {
			start := first.AddDate(0, -i, 0)
			end := start.AddDate(0, 1, -1)
			out = append(out, models.Period{Label: start.Format("01/2006"), Start: start, End: end})
		}
	default:
		for i := 0; i < n; i++ {
			start := ref.AddDate(0, 0, -7*i)
			end := start.AddDate(0, 0, 6)
			out = append(out, models.Period{
				Label: fmt.Sprintf("%s - %s", start.Format("02/01"), end.Format("02/01")),
				Start: start,
				End:   end,
			})
		}
	}
	return out
}

// Lagged devuelve los períodos de scoring: la misma grilla desplazada por el
// lag de maduración (14 días en semanal, 1 mes en mensual).
func (c Calculator) Lagged(ref time.Time) []models.Period {
	if ref.IsZero() {
		return nil
	}
	if c.Granularity == models.Monthly {
		return c.Periods(Shift(ref, 0, -ScoringLagMonths))
	}
	return c.Periods(Shift(ref, -ScoringLagDays, 0))
}

// Shift mueve la fecha de referencia un número arbitrario de días y meses.
// En meses se ancla al día 1 para no desbordar (31/03 - 1 mes = 01/02).
func Shift(ref time.Time, days, months int) time.Time {
	ref = parse.Day(ref)
	if months != 0 {
		ref = parse.Date(ref.Year(), ref.Month(), 1).AddDate(0, months, 0)
	}
	return ref.AddDate(0, 0, days)
}
