package metrics

import (
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/growth-report/internal/analytics"
	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/store"
	"github.com/AngelCh415/growth-report/internal/validity"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *prometheus.Registry) {
	t.Helper()
	st := store.NewMemoryStore()
	eng := analytics.NewEngine(nil, nil, validity.NewClassifier("", nil))
	reg := prometheus.NewRegistry()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(st, eng, log, 4, reg), st, reg
}

func googleSignup(day string) models.Record {
	return models.Record{"data_criacao_usuario (Data)": day, "value": validity.DefaultSentinel, "utm_medium": "cpc"}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{"start": {"2024-06-02"}}, 4)
	require.NoError(t, err)
	assert.Equal(t, models.Weekly, q.Granularity)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), q.Reference)
	assert.Equal(t, 4, q.Count)

	q, err = ParseQuery(url.Values{"mode": {"Monthly"}, "month": {"2024-03"}, "periods": {"99"}}, 4)
	require.NoError(t, err)
	assert.Equal(t, models.Monthly, q.Granularity)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), q.Reference)
	assert.Equal(t, maxPeriods, q.Count)

	_, err = ParseQuery(url.Values{}, 4)
	assert.ErrorIs(t, err, ErrMissingReference)
	_, err = ParseQuery(url.Values{"start": {"02/06/2024"}}, 4)
	assert.ErrorIs(t, err, ErrMissingReference)
	_, err = ParseQuery(url.Values{"mode": {"daily"}, "start": {"2024-06-02"}}, 4)
	assert.ErrorIs(t, err, ErrBadGranularity)
}

func TestReportFromSnapshot(t *testing.T) {
	svc, st, reg := newTestService(t)
	st.Replace(models.DatasetUsers, []models.Record{
		googleSignup("02/06/2024"),
		googleSignup("05/06/2024"),
		googleSignup("08/06/2024"),
		googleSignup("30/05/2024"),
	})

	rep, err := svc.Report(url.Values{"start": {"2024-06-02"}})
	require.NoError(t, err)
	require.Len(t, rep.Periods, 4)
	require.NotNil(t, rep.Acquisition)
	assert.Equal(t, 3, rep.Acquisition.Total)
	assert.Equal(t, 3, rep.Acquisition.Valid)
	assert.Equal(t, 1, rep.Acquisition.PrevValid)
	assert.Nil(t, rep.Email)
	assert.Nil(t, rep.Scoring)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "growth_report_builds_total" {
			found = true
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}

func TestTable(t *testing.T) {
	svc, st, _ := newTestService(t)
	st.Replace(models.DatasetUsers, []models.Record{googleSignup("03/06/2024")})
	v := url.Values{"start": {"2024-06-02"}}

	tbl, err := svc.Table("Channels", v)
	require.NoError(t, err)
	ch, ok := tbl.(*models.ChannelTables)
	require.True(t, ok)
	require.Len(t, ch.Google, 1)
	assert.Equal(t, "cpc", ch.Google[0].Medium)

	_, err = svc.Table("funnel", v)
	assert.ErrorIs(t, err, ErrUnknownReport)

	_, err = svc.Table("email", url.Values{})
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestObserveDatasets(t *testing.T) {
	svc, st, _ := newTestService(t)
	st.Replace(models.DatasetScoring, []models.Record{{}, {}})

	counts := svc.ObserveDatasets()
	require.Len(t, counts, 4)
	for _, c := range counts {
		if c.Dataset == models.DatasetScoring {
			assert.Equal(t, 2, c.Rows)
		}
	}
}
