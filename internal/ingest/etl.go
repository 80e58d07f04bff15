package ingest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AngelCh415/growth-report/internal/config"
	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/store"
	"github.com/AngelCh415/growth-report/internal/utils"
)

var ErrSinkNotConfigured = errors.New("sink not configured")

type ETL struct {
	c       HTTPClient
	st      *store.MemoryStore
	log     *slog.Logger
	cfg     config.Config
	backoff utils.Backoff
}

func NewETL(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config) *ETL {
	return &ETL{c: c, st: st, log: log, cfg: cfg, backoff: utils.NewBackoff(100*time.Millisecond, 2)}
}

// LoadResult describe una carga de dataset.
type LoadResult struct {
	Dataset   models.Dataset `json:"dataset"`
	Rows      int            `json:"rows"`
	Unchanged bool           `json:"unchanged"`
}

// Load decodifica el archivo y reemplaza el snapshot del dataset. Si el
// contenido es idéntico al último cargado no toca el store.
func (e *ETL) Load(ds models.Dataset, f Format, raw []byte) (LoadResult, error) {
	res := LoadResult{Dataset: ds}
	recs, err := Decode(f, raw)
	if err != nil {
		return res, fmt.Errorf("decode %s: %w", ds, err)
	}
	res.Rows = len(recs)
	if !e.st.ReplaceIfChanged(ds, raw, recs) {
		res.Unchanged = true
		e.log.Info("dataset unchanged", slog.String("dataset", string(ds)), slog.Int("rows", res.Rows))
		return res, nil
	}
	e.log.Info("dataset loaded", slog.String("dataset", string(ds)), slog.Int("rows", res.Rows))
	return res, nil
}

func (e *ETL) sources() map[models.Dataset]string {
	return map[models.Dataset]string{
		models.DatasetUsers:        e.cfg.UsersURL,
		models.DatasetTransactions: e.cfg.TransactionsURL,
		models.DatasetEmails:       e.cfg.EmailsURL,
		models.DatasetScoring:      e.cfg.ScoringURL,
	}
}

// Run descarga los datasets con URL configurada, con reintentos.
func (e *ETL) Run(ctx context.Context) ([]LoadResult, error) {
	src := e.sources()
	var out []LoadResult
	for _, ds := range models.Datasets {
		url := src[ds]
		if url == "" {
			e.log.Debug("no source url", slog.String("dataset", string(ds)))
			continue
		}
		var raw []byte
		err := e.backoff.Do(ctx, func(i int) error {
			b, err := getBytes(ctx, e.c, url, e.cfg.MaxUploadBytes)
			if err != nil {
				e.log.Warn("fetch failed", slog.String("dataset", string(ds)), slog.Int("attempt", i), slog.String("err", err.Error()))
				if errors.Is(err, ErrTooLarge) {
					return utils.Permanent(err)
				}
				return err
			}
			raw = b
			return nil
		})
		if err != nil {
			return out, fmt.Errorf("fetch %s: %w", ds, err)
		}
		res, err := e.Load(ds, DetectFormat(url, raw), raw)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	e.log.Info("ingest complete", slog.Int("datasets", len(out)))
	return out, nil
}

// ExportReport envía el reporte al sink firmado con HMAC-SHA256.
func (e *ETL) ExportReport(ctx context.Context, rep models.Report) (int, error) {
	if e.cfg.SinkURL == "" || e.cfg.SinkSecret == "" {
		return 0, ErrSinkNotConfigured
	}
	b, err := json.Marshal(rep)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.SinkURL, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(e.cfg.SinkSecret, b))
	resp, err := e.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("export sink non-2xx: %d", resp.StatusCode)
	}
	return len(b), nil
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
