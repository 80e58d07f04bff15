package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/growth-report/internal/analytics"
	"github.com/AngelCh415/growth-report/internal/config"
	"github.com/AngelCh415/growth-report/internal/ingest"
	"github.com/AngelCh415/growth-report/internal/metrics"
	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/store"
	"github.com/AngelCh415/growth-report/internal/validity"
)

const usersCSV = "data_criacao_usuario (Data);value;utm_medium\n" +
	"03/06/2024;UserCadastroGoogle;cpc\n" +
	"04/06/2024;UserCadastroGoogle;email\n" +
	"28/05/2024;UserCadastroGoogle;cpc\n"

func newTestRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	cfg.MaxUploadBytes = 1 << 20
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	st := store.NewMemoryStore()
	eng := analytics.NewEngine(config.DefaultProfessions, nil, validity.NewClassifier("", nil))
	return NewRouter(Deps{
		Log:            log,
		ETL:            ingest.NewETL(ingest.NewHTTPClient(2*time.Second), st, log, cfg),
		Metrics:        metrics.NewService(st, eng, log, 4, reg),
		Registry:       reg,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
}

func do(h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, config.Config{})
	rec := do(h, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUploadAndReport(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	rec := do(h, http.MethodPost, "/datasets/users", strings.NewReader(usersCSV), "text/csv")
	require.Equal(t, 200, rec.Code, rec.Body.String())
	var res ingest.LoadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Rows)
	assert.False(t, res.Unchanged)

	rec = do(h, http.MethodPost, "/datasets/users", strings.NewReader(usersCSV), "text/csv")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Unchanged)

	rec = do(h, http.MethodGet, "/reports?start=2024-06-02", nil, "")
	require.Equal(t, 200, rec.Code, rec.Body.String())
	var rep models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.NotNil(t, rep.Acquisition)
	assert.Equal(t, 2, rep.Acquisition.Total)
	assert.Equal(t, 1, rep.Acquisition.PrevValid)

	rec = do(h, http.MethodGet, "/reports/channels?start=2024-06-02", nil, "")
	require.Equal(t, 200, rec.Code)
	var ch models.ChannelTables
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ch))
	assert.Len(t, ch.Google, 2)

	rec = do(h, http.MethodGet, "/datasets", nil, "")
	require.Equal(t, 200, rec.Code)
	var counts []store.DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 3, counts[0].Rows)

	rec = do(h, http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, rec.Body.String(), `growth_dataset_rows{dataset="users"} 3`)
}

func TestMultipartUpload(t *testing.T) {
	h := newTestRouter(t, config.Config{})
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "usuarios.csv")
	require.NoError(t, err)
	io.WriteString(fw, usersCSV)
	require.NoError(t, mw.Close())

	rec := do(h, http.MethodPost, "/datasets/users", &buf, mw.FormDataContentType())
	require.Equal(t, 200, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"rows": 3`)
}

func TestErrorCodes(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	assert.Equal(t, 404, do(h, http.MethodPost, "/datasets/orders", strings.NewReader("a\n1\n"), "").Code)
	assert.Equal(t, 422, do(h, http.MethodPost, "/datasets/users", strings.NewReader(""), "").Code)
	assert.Equal(t, 400, do(h, http.MethodGet, "/reports", nil, "").Code)
	assert.Equal(t, 400, do(h, http.MethodGet, "/reports?mode=daily&start=2024-06-02", nil, "").Code)
	assert.Equal(t, 404, do(h, http.MethodGet, "/reports/funnel?start=2024-06-02", nil, "").Code)
	assert.Equal(t, 503, do(h, http.MethodPost, "/export/run?start=2024-06-02", nil, "").Code)
}

func TestExportRun(t *testing.T) {
	var sig string
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if ingest.Sign("k", body) == r.Header.Get("X-Signature") {
			sig = "ok"
		}
	}))
	defer sink.Close()

	h := newTestRouter(t, config.Config{SinkURL: sink.URL, SinkSecret: "k"})
	rec := do(h, http.MethodPost, "/export/run?mode=monthly&month=2024-06", nil, "")
	require.Equal(t, 200, rec.Code, rec.Body.String())
	assert.Equal(t, "ok", sig)
	assert.Contains(t, rec.Body.String(), "exported_bytes")
}
