package analytics

import (
	"sort"
	"strings"

	"github.com/AngelCh415/growth-report/internal/models"
)

// NotSetMedium es la etiqueta para altas sin utm_medium.
const NotSetMedium = "(not set)"

type pair struct{ curr, prev int }

type effPair struct{ total, valid [2]int }

// Channels arma las tres tablas por utm_medium (actual vs anterior): válidos,
// solo OAuth y eficiencia de validación del formulario.
func (e *Engine) Channels(users []models.UserRecord, periods []models.Period) *models.ChannelTables {
	if len(periods) < 2 {
		return nil
	}
	all := map[string]*pair{}
	google := map[string]*pair{}
	eff := map[string]*effPair{}

	bump := func(m map[string]*pair, k string, idx int) {
		p, ok := m[k]
		if !ok {
			p = &pair{}
			m[k] = p
		}
		if idx == 0 {
			p.curr++
		} else {
			p.prev++
		}
	}

	for _, l := range e.leads(users) {
		idx := -1
		switch {
		case periods[0].Contains(l.created):
			idx = 0
		case periods[1].Contains(l.created):
			idx = 1
		}
		if idx < 0 {
			continue
		}
		medium := strings.TrimSpace(l.UTMMedium)
		if medium == "" {
			medium = NotSetMedium
		}
		if l.valid() {
			bump(all, medium, idx)
		}
		if l.google() {
			bump(google, medium, idx)
			continue
		}
		// eficiencia: solo altas por formulario
		ep, ok := eff[medium]
		if !ok {
			ep = &effPair{}
			eff[medium] = ep
		}
		ep.total[idx]++
		if l.valid() {
			ep.valid[idx]++
		}
	}

	effRows := make([]models.MediumEfficiencyRow, 0, len(eff))
	for k, ep := range eff {
		if ep.total[0] == 0 {
			continue
		}
		effRows = append(effRows, models.MediumEfficiencyRow{
			Medium: k,
			Curr:   Rate(float64(ep.valid[0]), float64(ep.total[0])),
			Prev:   Rate(float64(ep.valid[1]), float64(ep.total[1])),
			Volume: ep.total[0],
		})
	}
	sort.Slice(effRows, func(i, j int) bool {
		if effRows[i].Curr != effRows[j].Curr {
			return effRows[i].Curr > effRows[j].Curr
		}
		if effRows[i].Volume != effRows[j].Volume {
			return effRows[i].Volume > effRows[j].Volume
		}
		return effRows[i].Medium < effRows[j].Medium
	})

	return &models.ChannelTables{
		All:        mediumRows(all),
		Google:     mediumRows(google),
		Efficiency: effRows,
	}
}

func mediumRows(m map[string]*pair) []models.MediumCountRow {
	rows := make([]models.MediumCountRow, 0, len(m))
	for k, p := range m {
		if p.curr == 0 && p.prev == 0 {
			continue
		}
		rows = append(rows, models.MediumCountRow{Medium: k, Curr: p.curr, Prev: p.prev})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Curr != rows[j].Curr {
			return rows[i].Curr > rows[j].Curr
		}
		return rows[i].Medium < rows[j].Medium
	})
	return rows
}
