// Package parse convierte los campos crudos de los exports (fechas dd/mm/aaaa,
// montos en formato brasileño, tasas con "%") en valores tipados. Ninguna
// función devuelve error: un campo inválido se traduce en un valor neutro.
package parse

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Date arma una fecha sin hora (00:00 UTC).
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day trunca t a su fecha calendario.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// LocalDate parsea "dd/mm/aaaa" con hora opcional ("dd/mm/aaaa HH:MM[:SS]").
func LocalDate(s string) (time.Time, bool) {
	s = datePart(s)
	if s == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	return dmy(parts[0], parts[1], parts[2])
}

// EmailPlatformDate acepta los formatos de la plataforma de email:
// "aaaa-mm-dd", "dd-mm-aaaa" y "dd/mm/aaaa", todos con hora opcional.
func EmailPlatformDate(s string) (time.Time, bool) {
	s = datePart(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "/") {
		return LocalDate(s)
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if len(parts[0]) == 4 {
		return dmy(parts[2], parts[1], parts[0])
	}
	return dmy(parts[0], parts[1], parts[2])
}

func datePart(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	return s
}

func dmy(ds, ms, ys string) (time.Time, bool) {
	d, err1 := strconv.Atoi(strings.TrimSpace(ds))
	m, err2 := strconv.Atoi(strings.TrimSpace(ms))
	y, err3 := strconv.Atoi(strings.TrimSpace(ys))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if y < 100 {
		y += 2000
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := Date(y, time.Month(m), d)
	// rechaza 31/02 y similares en lugar de normalizarlos
	if t.Day() != d || t.Month() != time.Month(m) {
		return time.Time{}, false
	}
	return t, true
}

// Money parsea "R$ 1.234,56" -> 1234.56 en decimal exacto. Valores no
// numéricos -> 0.
func Money(s string) decimal.Decimal {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "R$")
	v = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
	v = strings.ReplaceAll(v, ".", "")
	v = strings.Replace(v, ",", ".", 1)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PercentRate parsea "12,5%" -> 12.5. Valores no numéricos -> 0.
func PercentRate(s string) float64 {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(v, "%")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.Replace(v, ",", ".", 1)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Count parsea enteros con "." como separador de miles (solo si no hay coma).
// Lee el prefijo numérico: "1,5" -> 1, "abc" -> 0.
func Count(s string) int {
	v := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if strings.Contains(v, ".") && !strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
	}
	end := 0
	for end < len(v) {
		c := v[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// scorePrefix es el prefijo numérico que se toma del puntaje ("85 pts" -> 85).
var scorePrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Score parsea un puntaje con coma decimal leyendo solo el prefijo numérico.
// Vacío cuenta como 0; sin prefijo numérico devuelve ok=false para que la
// fila se descarte.
func Score(s string) (float64, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, true
	}
	v = strings.Replace(v, ",", ".", 1)
	m := scorePrefix.FindString(v)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 redondea a dos decimales.
func Round2(f float64) float64 { return math.Round(f*100) / 100 }

// MeanAndMedian devuelve media y mediana redondeadas a 2 decimales; {0,0} si vacío.
func MeanAndMedian(xs []float64) (mean, median float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	var sum float64
	for _, x := range sorted {
		sum += x
	}
	mean = sum / float64(len(sorted))
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}
	return Round2(mean), Round2(median)
}

// DaysBetween devuelve los días enteros de a hasta b (floor).
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(Day(b).Sub(Day(a)).Hours() / 24))
}
