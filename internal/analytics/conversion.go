package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/parse"
)

// DirectOrigin agrupa conversiones sin utm_medium.
const DirectOrigin = "Direto / Orgânico"

// sale es una transacción con fecha y monto ya parseados.
type sale struct {
	models.TransactionRecord
	date   time.Time
	dated  bool
	amount decimal.Decimal
}

// salesByUser agrupa las transacciones por username, en el orden del export.
func salesByUser(txs []models.TransactionRecord) map[string][]sale {
	out := make(map[string][]sale)
	for _, t := range txs {
		d, ok := parse.LocalDate(t.Date)
		out[t.Username] = append(out[t.Username], sale{
			TransactionRecord: t,
			date:              d,
			dated:             ok,
			amount:            parse.Money(t.Amount),
		})
	}
	return out
}

type conversion struct {
	plan, origin string
	value        decimal.Decimal
	days         int
}

// Conversion cruza las altas válidas del período actual con sus ventas del
// mismo período. Ventas con monto <= 0 no cuentan.
func (e *Engine) Conversion(users []models.UserRecord, txs []models.TransactionRecord, periods []models.Period) *models.ConversionCohort {
	if len(periods) == 0 {
		return nil
	}
	curr := periods[0]
	byUser := salesByUser(txs)

	var convs []conversion
	revenue := decimal.Zero
	var totalDays int
	for _, l := range e.leads(users) {
		if !curr.Contains(l.created) || !l.valid() {
			continue
		}
		for _, s := range byUser[l.Username] {
			if !s.dated || !curr.Contains(s.date) || !s.amount.IsPositive() {
				continue
			}
			days := parse.DaysBetween(l.created, s.date)
			if days < 0 {
				days = 0
			}
			origin := strings.TrimSpace(l.UTMMedium)
			if origin == "" {
				origin = DirectOrigin
			}
			revenue = revenue.Add(s.amount)
			totalDays += days
			convs = append(convs, conversion{plan: s.Plan, origin: origin, value: s.amount, days: days})
		}
	}

	out := &models.ConversionCohort{
		Count:        len(convs),
		TotalRevenue: revenue.InexactFloat64(),
		AvgDays:      safeDivF(float64(totalDays), float64(len(convs))),
	}
	if len(convs) > 0 {
		out.AvgTicket = revenue.Div(decimal.NewFromInt(int64(len(convs)))).InexactFloat64()
	}

	// los montos se acumulan en decimal y se pasan a float al armar las filas
	type planAgg struct {
		count int
		rev   decimal.Decimal
	}
	type originAgg struct {
		count int
		rev   decimal.Decimal
		plans map[string]int
	}
	byPlan := map[string]*planAgg{}
	byOrigin := map[string]*originAgg{}
	for _, c := range convs {
		p, ok := byPlan[c.plan]
		if !ok {
			p = &planAgg{}
			byPlan[c.plan] = p
		}
		p.count++
		p.rev = p.rev.Add(c.value)

		o, ok := byOrigin[c.origin]
		if !ok {
			o = &originAgg{plans: map[string]int{}}
			byOrigin[c.origin] = o
		}
		o.count++
		o.rev = o.rev.Add(c.value)
		o.plans[c.plan]++
	}

	out.ByPlan = make([]models.PlanRevenueRow, 0, len(byPlan))
	for k, p := range byPlan {
		out.ByPlan = append(out.ByPlan, models.PlanRevenueRow{Plan: k, Count: p.count, Revenue: p.rev.InexactFloat64()})
	}
	sort.Slice(out.ByPlan, func(i, j int) bool {
		if out.ByPlan[i].Revenue != out.ByPlan[j].Revenue {
			return out.ByPlan[i].Revenue > out.ByPlan[j].Revenue
		}
		return out.ByPlan[i].Plan < out.ByPlan[j].Plan
	})

	out.ByOrigin = make([]models.OriginRevenueRow, 0, len(byOrigin))
	for k, o := range byOrigin {
		out.ByOrigin = append(out.ByOrigin, models.OriginRevenueRow{
			Origin:  k,
			Count:   o.count,
			Revenue: o.rev.InexactFloat64(),
			PlanMix: planMix(o.plans),
		})
	}
	sort.Slice(out.ByOrigin, func(i, j int) bool {
		if out.ByOrigin[i].Revenue != out.ByOrigin[j].Revenue {
			return out.ByOrigin[i].Revenue > out.ByOrigin[j].Revenue
		}
		return out.ByOrigin[i].Origin < out.ByOrigin[j].Origin
	})
	return out
}

// planMix arma "Anual (3), Mensal (1)" ordenado por frecuencia.
func planMix(plans map[string]int) string {
	names := make([]string, 0, len(plans))
	for p := range plans {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool {
		if plans[names[i]] != plans[names[j]] {
			return plans[names[i]] > plans[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s (%d)", n, plans[n])
	}
	return strings.Join(parts, ", ")
}
