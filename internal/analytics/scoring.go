package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/parse"
)

const (
	QualifiedScore    = 50.0
	UnknownPlan       = "Não Identificado"
	DirectSource      = "(direto)"
	NoneMedium        = "(none)"
	CustomProfession  = "Profissão customizada"
	missingProfession = "Não Informado"
	scoreBucketCount  = 6
)

// ScoreBucketLabels en el mismo orden que ScoreBucket.
var ScoreBucketLabels = [scoreBucketCount]string{
	"Negativo (< 0)", "0 a 24", "25 a 49", "50 a 74", "75 a 99", "100 ou mais",
}

// ScoreBucket ubica el score en <0, [0,25), [25,50), [50,75), [75,100), >=100.
func ScoreBucket(s float64) int {
	switch {
	case s < 0:
		return 0
	case s < 25:
		return 1
	case s < 50:
		return 2
	case s < 75:
		return 3
	case s < 100:
		return 4
	default:
		return 5
	}
}

type planStats struct {
	scores    []float64
	daysSum   int
	countDays int
}

type scoringStats struct {
	scores    []float64
	qualified int
	buckets   [scoreBucketCount]int
	plans     map[string]*planStats
	origins   map[string][]float64
	profs     map[string][]float64
}

// firstSaleByEmail guarda la fecha de la primera transacción de cada email.
func firstSaleByEmail(txs []models.TransactionRecord) map[string]time.Time {
	out := map[string]time.Time{}
	for _, t := range txs {
		email := strings.ToLower(strings.TrimSpace(t.Username))
		d, ok := parse.LocalDate(t.Date)
		if email == "" || !ok {
			continue
		}
		if prev, seen := out[email]; !seen || d.Before(prev) {
			out[email] = d
		}
	}
	return out
}

// Scoring distribuye los scores de los períodos desfasados (actual vs anterior)
// y los agrupa por plan, origen y profesión.
func (e *Engine) Scoring(rs []models.ScoringRecord, txs []models.TransactionRecord, periods []models.Period) *models.ScoringDistribution {
	if len(rs) == 0 || len(periods) < 2 {
		return nil
	}
	firstSale := firstSaleByEmail(txs)
	curr := e.scoringStats(rs, firstSale, periods[0])
	prev := e.scoringStats(rs, firstSale, periods[1])

	out := &models.ScoringDistribution{CurrentLabel: periods[0].Label, PrevLabel: periods[1].Label}
	out.Mean.Curr, out.Median.Curr = parse.MeanAndMedian(curr.scores)
	out.Mean.Prev, out.Median.Prev = parse.MeanAndMedian(prev.scores)
	out.QualifiedRate.Curr = Rate(float64(curr.qualified), float64(len(curr.scores)))
	out.QualifiedRate.Prev = Rate(float64(prev.qualified), float64(len(prev.scores)))

	for i, label := range ScoreBucketLabels {
		out.Distribution = append(out.Distribution, models.ScoreBucket{
			Label:    label,
			Curr:     curr.buckets[i],
			CurrPerc: Rate(float64(curr.buckets[i]), float64(len(curr.scores))),
			PrevPerc: Rate(float64(prev.buckets[i]), float64(len(prev.scores))),
		})
	}

	out.PlanRows = e.scoringPlanRows(curr, prev)
	out.OriginRows = groupRows(curr.origins, prev.origins)
	out.ProfRows = groupRows(curr.profs, prev.profs)
	return out
}

func (e *Engine) scoringStats(rs []models.ScoringRecord, firstSale map[string]time.Time, p models.Period) scoringStats {
	st := scoringStats{
		plans:   map[string]*planStats{},
		origins: map[string][]float64{},
		profs:   map[string][]float64{},
	}
	for _, r := range rs {
		d, ok := parse.LocalDate(r.CreatedAt)
		if !ok || !p.Contains(d) {
			continue
		}
		s, ok := parse.Score(r.Score)
		if !ok {
			continue
		}
		st.scores = append(st.scores, s)
		if s >= QualifiedScore {
			st.qualified++
		}
		st.buckets[ScoreBucket(s)]++

		plan := strings.TrimSpace(r.Plan)
		if plan == "" {
			plan = UnknownPlan
		}
		ps, ok := st.plans[plan]
		if !ok {
			ps = &planStats{}
			st.plans[plan] = ps
		}
		ps.scores = append(ps.scores, s)
		// días hasta la primera compra del email, bajo el plan del registro de scoring
		if sold, ok := firstSale[r.Email]; ok && !sold.Before(d) {
			ps.daysSum += parse.DaysBetween(d, sold)
			ps.countDays++
		}

		origin := strings.ToLower(fmt.Sprintf("%s / %s", orDefault(r.Source, DirectSource), orDefault(r.Medium, NoneMedium)))
		st.origins[origin] = append(st.origins[origin], s)

		prof := e.scoringProfession(r.Profession)
		st.profs[prof] = append(st.profs[prof], s)
	}
	return st
}

// scoringProfession: lista conocida, si no el valor libre capitalizado.
func (e *Engine) scoringProfession(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" || v == missingProfession {
		return CustomProfession
	}
	if k, ok := NormalizeProfession(e.Professions, v); ok {
		return k
	}
	return capitalize(v)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func (e *Engine) nonPaying(plan string) bool {
	p := strings.ToLower(plan)
	for _, sub := range e.NonPayingPlans {
		if sub != "" && strings.Contains(p, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func meanOf(xs []float64) float64 {
	m, _ := parse.MeanAndMedian(xs)
	return m
}

func (e *Engine) scoringPlanRows(curr, prev scoringStats) []models.ScoringPlanRow {
	names := map[string]struct{}{}
	for k := range curr.plans {
		names[k] = struct{}{}
	}
	for k := range prev.plans {
		names[k] = struct{}{}
	}
	rows := make([]models.ScoringPlanRow, 0, len(names))
	for plan := range names {
		if e.nonPaying(plan) {
			continue
		}
		row := models.ScoringPlanRow{Plan: plan}
		prevVol := 0
		if c, ok := curr.plans[plan]; ok {
			row.Volume = len(c.scores)
			row.MeanCurr = meanOf(c.scores)
			if c.countDays > 0 {
				avg := float64(c.daysSum) / float64(c.countDays)
				row.AvgDays = &avg
			}
		}
		if p, ok := prev.plans[plan]; ok {
			prevVol = len(p.scores)
			row.MeanPrev = meanOf(p.scores)
		}
		if row.Volume == 0 && prevVol == 0 {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MeanCurr != rows[j].MeanCurr {
			return rows[i].MeanCurr > rows[j].MeanCurr
		}
		return rows[i].Plan < rows[j].Plan
	})
	return rows
}

// groupRows descarta grupos sin volumen en el período actual.
func groupRows(curr, prev map[string][]float64) []models.ScoringGroupRow {
	rows := make([]models.ScoringGroupRow, 0, len(curr))
	for name, scores := range curr {
		if len(scores) == 0 {
			continue
		}
		rows = append(rows, models.ScoringGroupRow{
			Name:     name,
			Volume:   len(scores),
			MeanCurr: meanOf(scores),
			MeanPrev: meanOf(prev[name]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MeanCurr != rows[j].MeanCurr {
			return rows[i].MeanCurr > rows[j].MeanCurr
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
