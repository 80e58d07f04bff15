// Package analytics calcula las tablas del reporte de crecimiento a partir de
// los registros crudos y de los períodos de comparación.
//
// Cada pipeline es una función pura: recibe snapshots inmutables y devuelve
// una tabla nueva. No hay estado compartido entre llamadas, así que el orden
// en que se ejecutan no cambia el resultado.
package analytics

import (
	"strings"
	"time"

	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/parse"
	"github.com/AngelCh415/growth-report/internal/period"
	"github.com/AngelCh415/growth-report/internal/validity"
)

// DefaultNonPayingPlans son substrings de planes que no cuentan en scoring.
var DefaultNonPayingPlans = []string{"gratuito", "trial", "engehall_curso"}

type Engine struct {
	Professions    []string
	NonPayingPlans []string
	Classifier     validity.Classifier
}

func NewEngine(professions, nonPaying []string, cl validity.Classifier) *Engine {
	if nonPaying == nil {
		nonPaying = DefaultNonPayingPlans
	}
	return &Engine{Professions: professions, NonPayingPlans: nonPaying, Classifier: cl}
}

// Input es el snapshot que alimenta un ciclo de cálculo.
type Input struct {
	Users        []models.Record
	Transactions []models.Record
	Emails       []models.Record
	Scoring      []models.Record
	Reference    time.Time
	Granularity  models.Granularity
	Count        int
}

// Build ejecuta todos los pipelines. Sin fecha de referencia devuelve un
// reporte vacío.
func (e *Engine) Build(in Input) models.Report {
	calc := period.New(in.Granularity, in.Count)
	rep := models.Report{
		Granularity:    calc.Granularity,
		Periods:        calc.Periods(in.Reference),
		ScoringPeriods: calc.Lagged(in.Reference),
	}
	if len(rep.Periods) < period.MinCount {
		return rep
	}
	users := models.UsersFromRecords(in.Users)
	txs := models.TransactionsFromRecords(in.Transactions)

	rep.Acquisition = e.Acquisition(users, rep.Periods)
	rep.Validation = e.ValidationBreakdown(users, rep.Periods)
	rep.Channels = e.Channels(users, rep.Periods)
	rep.Heatmap = e.Heatmap(users, rep.Periods)
	rep.Conversion = e.Conversion(users, txs, rep.Periods)
	rep.Speed = e.Speed(users, txs, rep.Periods)
	rep.Email = e.Email(models.EmailCampaignsFromRecords(in.Emails), rep.Periods)
	rep.Scoring = e.Scoring(models.ScoringFromRecords(in.Scoring), txs, rep.ScoringPeriods)
	return rep
}

// lead es un alta con fecha ya parseada y clasificación resuelta.
type lead struct {
	models.UserRecord
	created time.Time
	class   validity.Class
}

func (l lead) valid() bool  { return l.class != validity.FormInvalid }
func (l lead) google() bool { return l.class == validity.Google }

// leads descarta las filas sin fecha parseable.
func (e *Engine) leads(users []models.UserRecord) []lead {
	out := make([]lead, 0, len(users))
	for _, u := range users {
		d, ok := parse.LocalDate(u.CreatedAt)
		if !ok {
			continue
		}
		out = append(out, lead{UserRecord: u, created: d, class: e.Classifier.Classify(u)})
	}
	return out
}

// NormalizeProfession mapea contra la lista conocida (sin distinguir mayúsculas).
func NormalizeProfession(known []string, raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	for _, k := range known {
		if strings.EqualFold(k, v) {
			return k, true
		}
	}
	return v, false
}
