package analytics

import (
	"sort"

	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/parse"
)

// Speed calcula, por período, cuántos leads válidos compran dentro de 7 y 30
// días y el histograma de días hasta la primera compra.
func (e *Engine) Speed(users []models.UserRecord, txs []models.TransactionRecord, periods []models.Period) *models.ConversionSpeed {
	if len(periods) == 0 {
		return nil
	}
	byUser := salesByUser(txs)
	for k, ss := range byUser {
		// sin fecha va primero, igual que un timestamp cero
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].date.Before(ss[j].date) })
		byUser[k] = ss
	}
	ls := e.leads(users)

	out := &models.ConversionSpeed{MaxCell: 1}
	for _, p := range periods {
		row := models.SpeedRow{Label: p.Label}
		cohort := 0
		for _, l := range ls {
			if !p.Contains(l.created) {
				continue
			}
			cohort++
			if !l.valid() {
				continue
			}
			first, ok := firstConversion(byUser[l.Username], l)
			if !ok {
				continue
			}
			days := parse.DaysBetween(l.created, first.date)
			row.Conversions++
			if days <= 7 {
				row.Within7++
			}
			if days <= 30 {
				row.Within30++
				row.DailySpeed[days]++
			}
		}
		row.LeadVolume = max1(cohort)
		row.Perc7 = Rate(float64(row.Within7), float64(row.LeadVolume))
		row.Perc30 = Rate(float64(row.Within30), float64(row.LeadVolume))
		for _, c := range row.DailySpeed {
			if c > out.MaxCell {
				out.MaxCell = c
			}
		}
		out.Speed = append(out.Speed, row)
		out.History = append(out.History, models.SpeedHistory{Label: row.Label, Perc7: row.Perc7, Perc30: row.Perc30})
	}
	return out
}

// firstConversion busca la primera venta positiva en o después del alta.
// sales debe venir ordenado por fecha.
func firstConversion(sales []sale, l lead) (sale, bool) {
	for _, s := range sales {
		if s.dated && s.amount.IsPositive() && !s.date.Before(l.created) {
			return s, true
		}
	}
	return sale{}, false
}
