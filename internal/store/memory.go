package store

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/AngelCh415/growth-report/internal/models"
)

// Snapshot es una copia inmutable de los cuatro datasets.
type Snapshot struct {
	Users        []models.Record
	Transactions []models.Record
	Emails       []models.Record
	Scoring      []models.Record
}

type entry struct {
	rows     []models.Record
	loadedAt time.Time
}

// MemoryStore guarda un snapshot por dataset; cada carga reemplaza el anterior.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[models.Dataset]entry
	seen map[models.Dataset]string // idempotencia por hash de contenido
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[models.Dataset]entry),
		seen: make(map[models.Dataset]string),
		now:  time.Now,
	}
}

// ReplaceIfChanged reemplaza el snapshot salvo que raw sea idéntico al último
// contenido cargado. El hash y las filas se actualizan bajo el mismo lock.
func (s *MemoryStore) ReplaceIfChanged(ds models.Dataset, raw []byte, rows []models.Record) bool {
	sum := sha256.Sum256(raw)
	key := hex.EncodeToString(sum[:])
	cp := make([]models.Record, len(rows))
	copy(cp, rows)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[ds] == key {
		return false
	}
	s.seen[ds] = key
	s.data[ds] = entry{rows: cp, loadedAt: s.now()}
	return true
}

func (s *MemoryStore) Replace(ds models.Dataset, rows []models.Record) {
	cp := make([]models.Record, len(rows))
	copy(cp, rows)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, ds)
	s.data[ds] = entry{rows: cp, loadedAt: s.now()}
}

func (s *MemoryStore) Rows(ds models.Dataset) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.data[ds]
	out := make([]models.Record, len(e.rows))
	copy(out, e.rows)
	return out
}

func (s *MemoryStore) Snapshot() Snapshot {
	return Snapshot{
		Users:        s.Rows(models.DatasetUsers),
		Transactions: s.Rows(models.DatasetTransactions),
		Emails:       s.Rows(models.DatasetEmails),
		Scoring:      s.Rows(models.DatasetScoring),
	}
}

// DatasetInfo resume un dataset para GET /datasets.
type DatasetInfo struct {
	Dataset  models.Dataset `json:"dataset"`
	Rows     int            `json:"rows"`
	LoadedAt *time.Time     `json:"loaded_at,omitempty"`
}

func (s *MemoryStore) Counts() []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DatasetInfo, 0, len(models.Datasets))
	for _, ds := range models.Datasets {
		info := DatasetInfo{Dataset: ds}
		if e, ok := s.data[ds]; ok {
			info.Rows = len(e.rows)
			at := e.loadedAt
			info.LoadedAt = &at
		}
		out = append(out, info)
	}
	return out
}
