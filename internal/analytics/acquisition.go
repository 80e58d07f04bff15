package analytics

import (
	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/validity"
)

// Acquisition cuenta altas totales y válidas del período actual vs el anterior.
func (e *Engine) Acquisition(users []models.UserRecord, periods []models.Period) *models.AcquisitionScorecard {
	if len(periods) < 2 {
		return nil
	}
	ls := e.leads(users)
	count := func(p models.Period) (total, valid int) {
		for _, l := range ls {
			if !p.Contains(l.created) {
				continue
			}
			total++
			if l.valid() {
				valid++
			}
		}
		return total, valid
	}
	total, valid := count(periods[0])
	_, prevValid := count(periods[1])
	return &models.AcquisitionScorecard{
		Total:     total,
		Valid:     valid,
		ValidRate: Rate(float64(valid), float64(total)),
		VarValid:  Variation(float64(valid), float64(prevValid)),
		PrevValid: prevValid,
	}
}

// ValidationBreakdown separa google / form-valid / form-invalid por período,
// del más antiguo al más reciente.
func (e *Engine) ValidationBreakdown(users []models.UserRecord, periods []models.Period) []models.ValidationRow {
	if len(periods) == 0 {
		return nil
	}
	ls := e.leads(users)
	out := make([]models.ValidationRow, 0, len(periods))
	for i := len(periods) - 1; i >= 0; i-- {
		p := periods[i]
		row := models.ValidationRow{Label: p.Label}
		for _, l := range ls {
			if !p.Contains(l.created) {
				continue
			}
			switch l.class {
			case validity.Google:
				row.Google++
			case validity.FormValid:
				row.FormValid++
			default:
				row.FormInvalid++
			}
		}
		row.Total = row.Google + row.FormValid + row.FormInvalid
		row.FormRate = Rate(float64(row.FormValid), float64(row.FormValid+row.FormInvalid))
		row.TotalRate = Rate(float64(row.Google+row.FormValid), float64(row.Total))
		out = append(out, row)
	}
	return out
}
