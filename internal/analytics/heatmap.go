package analytics

import (
	"sort"
	"strings"

	"github.com/AngelCh415/growth-report/internal/models"
)

const (
	EmptyEntity = "(vazio)"
	OtherEntity = "Outros"
	dayLabelFmt = "02/01"
)

// EntityField elige qué columna del alta agrupa el heatmap.
type EntityField int

const (
	ByProfession EntityField = iota
	ByCampaign
)

// Heatmap arma las filas por profesión y por campaña con el conteo diario del
// período actual.
func (e *Engine) Heatmap(users []models.UserRecord, periods []models.Period) *models.EntityHeatmap {
	if len(periods) < 2 {
		return nil
	}
	days := periods[0].Days()
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format(dayLabelFmt)
	}
	ls := e.leads(users)
	return &models.EntityHeatmap{
		Dates:      labels,
		Profession: e.entityTable(ls, periods, ByProfession),
		Campaign:   e.entityTable(ls, periods, ByCampaign),
	}
}

func (e *Engine) entityKey(l lead, f EntityField) string {
	raw := l.UTMCampaign
	if f == ByProfession {
		raw = l.Profession
	}
	if raw == "" {
		raw = EmptyEntity
	}
	if f == ByProfession {
		if k, ok := NormalizeProfession(e.Professions, raw); ok {
			return k
		}
		return OtherEntity
	}
	return raw
}

func (e *Engine) entityTable(ls []lead, periods []models.Period, f EntityField) models.EntityTable {
	curr, prev := periods[0], periods[1]
	nDays := len(curr.Days())
	data := map[string]*models.AggregatedRow{}
	for _, l := range ls {
		if !l.valid() {
			continue
		}
		inCurr, inPrev := curr.Contains(l.created), prev.Contains(l.created)
		if !inCurr && !inPrev {
			continue
		}
		key := e.entityKey(l, f)
		row, ok := data[key]
		if !ok {
			row = &models.AggregatedRow{Name: key, Daily: make([]int, nDays)}
			data[key] = row
		}
		if inCurr {
			row.Total++
			row.Daily[int(l.created.Sub(curr.Start).Hours()/24)]++
		}
		if inPrev {
			row.Prev++
		}
	}

	rows := make([]models.AggregatedRow, 0, len(data))
	for _, r := range data {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})

	t := models.EntityTable{Rows: rows, MaxDaily: 1}
	for _, r := range rows {
		for _, c := range r.Daily {
			if c > t.MaxDaily {
				t.MaxDaily = c
			}
		}
	}

	ranked := make([]models.AggregatedRow, 0, len(rows))
	for _, r := range rows {
		if isPlaceholder(r.Name) {
			continue
		}
		ranked = append(ranked, r)
	}
	if len(ranked) == 0 {
		return t
	}
	top := ranked[0]
	t.TopVolume = &top

	growth := append([]models.AggregatedRow(nil), ranked...)
	sort.SliceStable(growth, func(i, j int) bool {
		return growth[i].Total-growth[i].Prev > growth[j].Total-growth[j].Prev
	})
	if g := growth[0]; g.Total-g.Prev > 0 {
		t.TopGrowth = &g
	}
	drop := append([]models.AggregatedRow(nil), ranked...)
	sort.SliceStable(drop, func(i, j int) bool {
		return drop[i].Total-drop[i].Prev < drop[j].Total-drop[j].Prev
	})
	if d := drop[0]; d.Total-d.Prev < 0 {
		t.TopDrop = &d
	}
	return t
}

func isPlaceholder(name string) bool {
	n := strings.TrimSpace(name)
	return n == "" || n == "-" || n == EmptyEntity
}
