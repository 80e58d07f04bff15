package models

import "time"

// Record es una fila cruda tal como llega del CSV/XLSX: header -> valor.
type Record map[string]string

type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// Period es una ventana inclusiva [Start, End] de fechas sin hora.
type Period struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days devuelve cada día del período en orden ascendente.
func (p Period) Days() []time.Time {
	var out []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

type UserRecord struct {
	CreatedAt   string
	Value       string // marcador de validación; el sentinel identifica altas OAuth
	UTMMedium   string
	UTMCampaign string
	Profession  string
	Username    string
	Fields      Record
}

type TransactionRecord struct {
	Username string
	Date     string
	Amount   string
	Plan     string
}

type EmailCampaignRecord struct {
	SendDate        string
	Name            string
	Subject         string
	Sent            string
	Delivered       string
	OpenRate        string
	ClickToOpen     string
	UnsubscribeRate string
}

type ScoringRecord struct {
	Email      string
	CreatedAt  string
	Score      string
	Plan       string
	Source     string
	Medium     string
	Profession string
}

// Dataset identifica cada una de las cuatro fuentes.
type Dataset string

const (
	DatasetUsers        Dataset = "users"
	DatasetTransactions Dataset = "transactions"
	DatasetEmails       Dataset = "emails"
	DatasetScoring      Dataset = "scoring"
)

var Datasets = []Dataset{DatasetUsers, DatasetTransactions, DatasetEmails, DatasetScoring}
