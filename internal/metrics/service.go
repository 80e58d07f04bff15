package metrics

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/growth-report/internal/analytics"
	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/store"
)

var (
	ErrMissingReference = errors.New("missing reference date")
	ErrBadGranularity   = errors.New("bad granularity")
	ErrUnknownReport    = errors.New("unknown report")
)

// maxPeriods limita la cantidad de ventanas que se pueden pedir por query.
const maxPeriods = 24

// ReportNames son las tablas que se pueden pedir por separado.
var ReportNames = []string{
	"acquisition", "validation", "channels", "heatmap",
	"conversion", "speed", "email", "scoring",
}

type Service struct {
	st    *store.MemoryStore
	eng   *analytics.Engine
	log   *slog.Logger
	count int

	builds   *prometheus.CounterVec
	duration prometheus.Histogram
	rows     *prometheus.GaugeVec
}

func NewService(st *store.MemoryStore, eng *analytics.Engine, log *slog.Logger, count int, reg prometheus.Registerer) *Service {
	s := &Service{
		st:    st,
		eng:   eng,
		log:   log,
		count: count,
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growth_report_builds_total",
			Help: "Report builds by granularity.",
		}, []string{"granularity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "growth_report_build_seconds",
			Help:    "Time spent building a report.",
			Buckets: prometheus.DefBuckets,
		}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "growth_dataset_rows",
			Help: "Rows currently loaded per dataset.",
		}, []string{"dataset"}),
	}
	reg.MustRegister(s.builds, s.duration, s.rows)
	return s
}

// Query son los parámetros ya validados de un pedido de reporte.
type Query struct {
	Reference   time.Time
	Granularity models.Granularity
	Count       int
}

// ParseQuery lee mode=weekly|monthly, start=YYYY-MM-DD o month=YYYY-MM y
// periods (opcional).
func ParseQuery(v url.Values, defCount int) (Query, error) {
	q := Query{Granularity: models.Weekly, Count: atoiDef(v.Get("periods"), defCount)}
	switch norm(v.Get("mode")) {
	case "", "weekly", "semanal":
	case "monthly", "mensal":
		q.Granularity = models.Monthly
	default:
		return q, fmt.Errorf("%w: %q", ErrBadGranularity, v.Get("mode"))
	}
	if q.Count > maxPeriods {
		q.Count = maxPeriods
	}

	start := strings.TrimSpace(v.Get("start"))
	month := strings.TrimSpace(v.Get("month"))
	switch {
	case start != "":
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			if t, err = time.Parse("2006-01", start); err != nil {
				return q, fmt.Errorf("%w: bad start %q", ErrMissingReference, start)
			}
		}
		q.Reference = t
	case month != "":
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return q, fmt.Errorf("%w: bad month %q", ErrMissingReference, month)
		}
		q.Reference = t
	default:
		return q, ErrMissingReference
	}
	return q, nil
}

// Report arma el reporte completo sobre un snapshot del store.
func (s *Service) Report(v url.Values) (models.Report, error) {
	q, err := ParseQuery(v, s.count)
	if err != nil {
		return models.Report{}, err
	}
	snap := s.st.Snapshot()
	if len(snap.Users) == 0 {
		s.log.Warn("users dataset is empty")
	}
	if len(snap.Transactions) == 0 {
		s.log.Warn("transactions dataset is empty")
	}

	start := time.Now()
	rep := s.eng.Build(analytics.Input{
		Users:        snap.Users,
		Transactions: snap.Transactions,
		Emails:       snap.Emails,
		Scoring:      snap.Scoring,
		Reference:    q.Reference,
		Granularity:  q.Granularity,
		Count:        q.Count,
	})
	took := time.Since(start)
	s.builds.WithLabelValues(string(q.Granularity)).Inc()
	s.duration.Observe(took.Seconds())
	s.log.Info("report built",
		slog.String("granularity", string(q.Granularity)),
		slog.String("reference", q.Reference.Format("2006-01-02")),
		slog.Int("periods", len(rep.Periods)),
		slog.Duration("took", took))
	return rep, nil
}

// Table devuelve una sola tabla del reporte.
func (s *Service) Table(name string, v url.Values) (any, error) {
	name = norm(name)
	if !knownReport(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	rep, err := s.Report(v)
	if err != nil {
		return nil, err
	}
	switch name {
	case "acquisition":
		return rep.Acquisition, nil
	case "validation":
		return rep.Validation, nil
	case "channels":
		return rep.Channels, nil
	case "heatmap":
		return rep.Heatmap, nil
	case "conversion":
		return rep.Conversion, nil
	case "speed":
		return rep.Speed, nil
	case "email":
		return rep.Email, nil
	default:
		return rep.Scoring, nil
	}
}

// ObserveDatasets actualiza el gauge de filas por dataset.
func (s *Service) ObserveDatasets() []store.DatasetInfo {
	counts := s.st.Counts()
	for _, c := range counts {
		s.rows.WithLabelValues(string(c.Dataset)).Set(float64(c.Rows))
	}
	return counts
}

func knownReport(name string) bool {
	for _, n := range ReportNames {
		if n == name {
			return true
		}
	}
	return false
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
