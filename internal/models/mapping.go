package models

import "strings"

// Headers aceptados por fuente, en orden de preferencia. Los exports cambian
// de idioma y de herramienta, por eso cada campo tiene varias opciones.
var (
	UserCreatedKeys    = []string{"data_criacao_usuario (Data)", "data_criacao_usuario", "created_at"}
	UserValueKeys      = []string{"value"}
	UserMediumKeys     = []string{"utm_medium"}
	UserCampaignKeys   = []string{"utm_campaign"}
	UserProfessionKeys = []string{"profissao", "Profissao", "PROFISSAO"}
	UserUsernameKeys   = []string{"username", "email", "Email"}

	TxUsernameKeys = []string{"username", "email", "Email"}
	TxDateKeys     = []string{"data_transacao (Data)", "data_transacao", "date"}
	TxAmountKeys   = []string{"valor", "Valor", "amount"}
	TxPlanKeys     = []string{"Plano", "plano", "plan"}

	EmailDateKeys      = []string{"Sending date", "Data de envio", "Data"}
	EmailNameKeys      = []string{"Campaign Name", "Nome da campanha", "Nome"}
	EmailSubjectKeys   = []string{"Subject", "Assunto"}
	EmailSentKeys      = []string{"Sent", "Enviados"}
	EmailDeliveredKeys = []string{"Delivered", "Entregues"}
	EmailOpenKeys      = []string{"Trackable open rate", "Open rate", "Taxa de abertura"}
	EmailCTORKeys      = []string{"Click-to-Open rate", "CTOR"}
	EmailUnsubKeys     = []string{"Unsubscription rate", "Taxa de descadastro"}

	ScoringEmailKeys      = []string{"EMAIL", "Email", "Email Address"}
	ScoringCreatedKeys    = []string{"DATA_CRIACAO_CONTA", "data_criacao_usuario (Data)"}
	ScoringScoreKeys      = []string{"SCORE", "Score"}
	ScoringPlanKeys       = []string{"PLANO_DETALHE"}
	ScoringSourceKeys     = []string{"PRIMEIRA_UTM_SOURCE", "source", "Source"}
	ScoringMediumKeys     = []string{"PRIMEIRA_UTM_MEDIUM", "medium", "Medium"}
	ScoringProfessionKeys = []string{"PROFISSAO", "Profissao", "Job", "profissao"}
)

// ResolveField devuelve el primer valor no vacío entre las claves candidatas.
func ResolveField(r Record, keys ...string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, k := range keys {
		if v, ok := r[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func field(r Record, keys []string) string {
	v, _ := ResolveField(r, keys...)
	return v
}

func UserFromRecord(r Record) UserRecord {
	return UserRecord{
		CreatedAt:   field(r, UserCreatedKeys),
		Value:       field(r, UserValueKeys),
		UTMMedium:   field(r, UserMediumKeys),
		UTMCampaign: field(r, UserCampaignKeys),
		Profession:  field(r, UserProfessionKeys),
		Username:    field(r, UserUsernameKeys),
		Fields:      r,
	}
}

func TransactionFromRecord(r Record) TransactionRecord {
	return TransactionRecord{
		Username: field(r, TxUsernameKeys),
		Date:     field(r, TxDateKeys),
		Amount:   field(r, TxAmountKeys),
		Plan:     field(r, TxPlanKeys),
	}
}

func EmailCampaignFromRecord(r Record) EmailCampaignRecord {
	return EmailCampaignRecord{
		SendDate:        field(r, EmailDateKeys),
		Name:            field(r, EmailNameKeys),
		Subject:         field(r, EmailSubjectKeys),
		Sent:            field(r, EmailSentKeys),
		Delivered:       field(r, EmailDeliveredKeys),
		OpenRate:        field(r, EmailOpenKeys),
		ClickToOpen:     field(r, EmailCTORKeys),
		UnsubscribeRate: field(r, EmailUnsubKeys),
	}
}

func ScoringFromRecord(r Record) ScoringRecord {
	return ScoringRecord{
		Email:      strings.ToLower(strings.TrimSpace(field(r, ScoringEmailKeys))),
		CreatedAt:  field(r, ScoringCreatedKeys),
		Score:      field(r, ScoringScoreKeys),
		Plan:       field(r, ScoringPlanKeys),
		Source:     field(r, ScoringSourceKeys),
		Medium:     field(r, ScoringMediumKeys),
		Profession: field(r, ScoringProfessionKeys),
	}
}

func UsersFromRecords(rs []Record) []UserRecord {
	out := make([]UserRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, UserFromRecord(r))
	}
	return out
}

func TransactionsFromRecords(rs []Record) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, TransactionFromRecord(r))
	}
	return out
}

func EmailCampaignsFromRecords(rs []Record) []EmailCampaignRecord {
	out := make([]EmailCampaignRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, EmailCampaignFromRecord(r))
	}
	return out
}

func ScoringFromRecords(rs []Record) []ScoringRecord {
	out := make([]ScoringRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, ScoringFromRecord(r))
	}
	return out
}
