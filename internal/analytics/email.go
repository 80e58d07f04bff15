package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/AngelCh415/growth-report/internal/models"
	"github.com/AngelCh415/growth-report/internal/parse"
)

type campaign struct {
	models.EmailCampaignRecord
	date                  time.Time
	sent, delivered       int
	openRate, ctor, unsub float64
}

func parseCampaigns(rs []models.EmailCampaignRecord) []campaign {
	out := make([]campaign, 0, len(rs))
	for _, r := range rs {
		d, ok := parse.EmailPlatformDate(r.SendDate)
		if !ok {
			continue
		}
		out = append(out, campaign{
			EmailCampaignRecord: r,
			date:                d,
			sent:                parse.Count(r.Sent),
			delivered:           parse.Count(r.Delivered),
			openRate:            parse.PercentRate(r.OpenRate),
			ctor:                parse.PercentRate(r.ClickToOpen),
			unsub:               parse.PercentRate(r.UnsubscribeRate),
		})
	}
	return out
}

// emailStats pondera las tasas por entregas; el CTOR se pondera por aperturas.
func emailStats(cs []campaign) models.EmailStats {
	var st models.EmailStats
	var wOpen, wClick, wUnsub float64
	for _, c := range cs {
		st.Sent += c.sent
		st.Delivered += c.delivered
		d := float64(c.delivered)
		opens := d * c.openRate / 100
		wOpen += opens
		wClick += opens * c.ctor / 100
		wUnsub += d * c.unsub / 100
	}
	st.Campaigns = len(cs)
	st.OpenRate = Rate(wOpen, float64(st.Delivered))
	st.CTOR = Rate(wClick, wOpen)
	st.UnsubRate = Rate(wUnsub, float64(st.Delivered))
	st.UnsubCount = int(math.Round(wUnsub))
	return st
}

// Email calcula los KPIs de campañas por período y la lista de envíos del
// período actual ordenada por fecha.
func (e *Engine) Email(rs []models.EmailCampaignRecord, periods []models.Period) *models.EmailKPIs {
	if len(rs) == 0 || len(periods) < 2 {
		return nil
	}
	cs := parseCampaigns(rs)
	inPeriod := func(p models.Period) []campaign {
		var out []campaign
		for _, c := range cs {
			if p.Contains(c.date) {
				out = append(out, c)
			}
		}
		return out
	}

	out := &models.EmailKPIs{}
	for i := len(periods) - 1; i >= 0; i-- {
		p := periods[i]
		out.Trend = append(out.Trend, models.EmailTrendRow{Label: p.Label, Stats: emailStats(inPeriod(p))})
	}
	curr := out.Trend[len(out.Trend)-1].Stats
	prev := out.Trend[len(out.Trend)-2].Stats
	out.Campaigns = models.CurrPrev[int]{Curr: curr.Campaigns, Prev: prev.Campaigns}
	out.Sent = models.CurrPrev[int]{Curr: curr.Sent, Prev: prev.Sent}
	out.OpenRate = models.CurrPrev[float64]{Curr: curr.OpenRate, Prev: prev.OpenRate}
	out.CTOR = models.CurrPrev[float64]{Curr: curr.CTOR, Prev: prev.CTOR}
	out.Unsub = models.CurrPrev[int]{Curr: curr.UnsubCount, Prev: prev.UnsubCount}
	out.UnsubRate = curr.UnsubRate

	current := inPeriod(periods[0])
	sort.SliceStable(current, func(i, j int) bool { return current[i].date.Before(current[j].date) })
	out.Actions = make([]models.CampaignRow, 0, len(current))
	for _, c := range current {
		out.Actions = append(out.Actions, models.CampaignRow{
			Date:         c.date.Format(dayLabelFmt),
			SortDate:     c.date,
			Name:         orDash(c.Name),
			Subject:      orDash(c.Subject),
			Sent:         c.sent,
			Delivered:    c.delivered,
			DeliveryRate: Rate(float64(c.delivered), float64(c.sent)),
			OpenRate:     c.openRate,
			CTOR:         c.ctor,
			UnsubRate:    c.unsub,
			Unsubs:       int(math.Round(float64(c.delivered) * c.unsub / 100)),
		})
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
