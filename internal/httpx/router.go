package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/growth-report/internal/ingest"
	"github.com/AngelCh415/growth-report/internal/metrics"
	"github.com/AngelCh415/growth-report/internal/utils"
)

type Deps struct {
	Log            *slog.Logger
	ETL            *ingest.ETL
	Metrics        *metrics.Service
	Registry       *prometheus.Registry
	MaxUploadBytes int64
}

func NewRouter(d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(utils.NewHTTPMetrics(d.Registry).Middleware)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	mux.Get("/datasets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Metrics.ObserveDatasets())
	})

	mux.Post("/datasets/{dataset}", func(w http.ResponseWriter, r *http.Request) {
		ds, err := ingest.ParseDataset(chi.URLParam(r, "dataset"))
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		name, raw, err := readUpload(w, r, d.MaxUploadBytes)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		res, err := d.ETL.Load(ds, ingest.DetectFormat(name, raw), raw)
		if err != nil {
			http.Error(w, err.Error(), 422)
			return
		}
		d.Metrics.ObserveDatasets()
		writeJSON(w, res)
	})

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		res, err := d.ETL.Run(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		d.Metrics.ObserveDatasets()
		writeJSON(w, res)
	})

	mux.Get("/reports", func(w http.ResponseWriter, r *http.Request) {
		rep, err := d.Metrics.Report(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, rep)
	})

	mux.Get("/reports/{report}", func(w http.ResponseWriter, r *http.Request) {
		tbl, err := d.Metrics.Table(chi.URLParam(r, "report"), r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, tbl)
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		rep, err := d.Metrics.Report(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		n, err := d.ETL.ExportReport(r.Context(), rep)
		if err != nil {
			code := 502
			if errors.Is(err, ingest.ErrSinkNotConfigured) {
				code = 503
			}
			http.Error(w, err.Error(), code)
			return
		}
		writeJSON(w, map[string]any{"exported_bytes": n})
	})

	return mux
}

// readUpload acepta multipart (campo "file") o el cuerpo crudo.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		return hdr.Filename, raw, err
	}
	raw, err := io.ReadAll(r.Body)
	return r.URL.Query().Get("filename"), raw, err
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, metrics.ErrUnknownReport):
		http.Error(w, err.Error(), 404)
	case errors.Is(err, metrics.ErrMissingReference), errors.Is(err, metrics.ErrBadGranularity):
		http.Error(w, err.Error(), 400)
	default:
		http.Error(w, err.Error(), 500)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
