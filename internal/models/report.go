package models

import "time"

// Scorecard de adquisición: período actual vs anterior.
type AcquisitionScorecard struct {
	Total     int     `json:"total"`
	Valid     int     `json:"valid"`
	ValidRate float64 `json:"valid_rate"`
	VarValid  float64 `json:"var_valid"`
	PrevValid int     `json:"prev_valid"`
}

type ValidationRow struct {
	Label       string  `json:"label"`
	Google      int     `json:"google"`
	FormValid   int     `json:"form_valid"`
	FormInvalid int     `json:"form_invalid"`
	Total       int     `json:"total"`
	FormRate    float64 `json:"form_rate"`
	TotalRate   float64 `json:"total_rate"`
}

type MediumCountRow struct {
	Medium string `json:"medium"`
	Curr   int    `json:"curr"`
	Prev   int    `json:"prev"`
}

type MediumEfficiencyRow struct {
	Medium string  `json:"medium"`
	Curr   float64 `json:"curr"`
	Prev   float64 `json:"prev"`
	Volume int     `json:"volume"`
}

type ChannelTables struct {
	All        []MediumCountRow      `json:"all"`
	Google     []MediumCountRow      `json:"google"`
	Efficiency []MediumEfficiencyRow `json:"efficiency"`
}

// AggregatedRow es una fila del heatmap; sum(Daily) == Total.
type AggregatedRow struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Prev  int    `json:"prev"`
	Daily []int  `json:"daily"`
}

type EntityTable struct {
	Rows      []AggregatedRow `json:"rows"`
	TopVolume *AggregatedRow  `json:"top_volume"`
	TopGrowth *AggregatedRow  `json:"top_growth"`
	TopDrop   *AggregatedRow  `json:"top_drop"`
	MaxDaily  int             `json:"max_daily"`
}

type EntityHeatmap struct {
	Dates      []string    `json:"dates"`
	Profession EntityTable `json:"profession"`
	Campaign   EntityTable `json:"campaign"`
}

type PlanRevenueRow struct {
	Plan    string  `json:"plan"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type OriginRevenueRow struct {
	Origin  string  `json:"origin"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	PlanMix string  `json:"plan_mix"`
}

type ConversionCohort struct {
	Count        int                `json:"count"`
	TotalRevenue float64            `json:"total_revenue"`
	AvgTicket    float64            `json:"avg_ticket"`
	AvgDays      float64            `json:"avg_days"`
	ByPlan       []PlanRevenueRow   `json:"by_plan"`
	ByOrigin     []OriginRevenueRow `json:"by_origin"`
}

// SpeedHistogramDays es el largo fijo del histograma (días 0..30).
const SpeedHistogramDays = 31

type SpeedRow struct {
	Label       string                  `json:"label"`
	LeadVolume  int                     `json:"lead_volume"`
	Conversions int                     `json:"conversions"`
	Within7     int                     `json:"within_7"`
	Within30    int                     `json:"within_30"`
	Perc7       float64                 `json:"perc_7"`
	Perc30      float64                 `json:"perc_30"`
	DailySpeed  [SpeedHistogramDays]int `json:"daily_speed"`
}

type SpeedHistory struct {
	Label  string  `json:"label"`
	Perc7  float64 `json:"perc_7"`
	Perc30 float64 `json:"perc_30"`
}

type ConversionSpeed struct {
	History []SpeedHistory `json:"history"`
	Speed   []SpeedRow     `json:"speed"`
	MaxCell int            `json:"max_cell"`
}

type EmailStats struct {
	Campaigns  int     `json:"campaigns"`
	Sent       int     `json:"sent"`
	Delivered  int     `json:"delivered"`
	OpenRate   float64 `json:"open_rate"`
	CTOR       float64 `json:"ctor"`
	UnsubRate  float64 `json:"unsub_rate"`
	UnsubCount int     `json:"unsub_count"`
}

type EmailTrendRow struct {
	Label string     `json:"label"`
	Stats EmailStats `json:"stats"`
}

type CampaignRow struct {
	Date         string    `json:"date"`
	SortDate     time.Time `json:"sort_date"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	Sent         int       `json:"sent"`
	Delivered    int       `json:"delivered"`
	DeliveryRate float64   `json:"delivery_rate"`
	OpenRate     float64   `json:"open_rate"`
	CTOR         float64   `json:"ctor"`
	UnsubRate    float64   `json:"unsub_rate"`
	Unsubs       int       `json:"unsubs"`
}

type CurrPrev[T any] struct {
	Curr T `json:"curr"`
	Prev T `json:"prev"`
}

type EmailKPIs struct {
	Campaigns CurrPrev[int]     `json:"campaigns"`
	Sent      CurrPrev[int]     `json:"sent"`
	OpenRate  CurrPrev[float64] `json:"open_rate"`
	CTOR      CurrPrev[float64] `json:"ctor"`
	Unsub     CurrPrev[int]     `json:"unsub"`
	UnsubRate float64           `json:"unsub_rate"`
	Trend     []EmailTrendRow   `json:"trend"`
	Actions   []CampaignRow     `json:"actions"`
}

type MeanMedian struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

type ScoreBucket struct {
	Label    string  `json:"label"`
	Curr     int     `json:"curr"`
	CurrPerc float64 `json:"curr_perc"`
	PrevPerc float64 `json:"prev_perc"`
}

type ScoringPlanRow struct {
	Plan     string   `json:"plan"`
	Volume   int      `json:"volume"`
	MeanCurr float64  `json:"mean_curr"`
	MeanPrev float64  `json:"mean_prev"`
	AvgDays  *float64 `json:"avg_days"`
}

type ScoringGroupRow struct {
	Name     string  `json:"name"`
	Volume   int     `json:"volume"`
	MeanCurr float64 `json:"mean_curr"`
	MeanPrev float64 `json:"mean_prev"`
}

type ScoringDistribution struct {
	CurrentLabel  string            `json:"current_label"`
	PrevLabel     string            `json:"prev_label"`
	Mean          CurrPrev[float64] `json:"mean"`
	Median        CurrPrev[float64] `json:"median"`
	QualifiedRate CurrPrev[float64] `json:"qualified_rate"`
	Distribution  []ScoreBucket     `json:"distribution"`
	PlanRows      []ScoringPlanRow  `json:"plan_rows"`
	OriginRows    []ScoringGroupRow `json:"origin_rows"`
	ProfRows      []ScoringGroupRow `json:"prof_rows"`
}

// Report agrupa todas las tablas calculadas para una fecha de referencia.
type Report struct {
	Granularity    Granularity           `json:"granularity"`
	Periods        []Period              `json:"periods"`
	ScoringPeriods []Period              `json:"scoring_periods"`
	Acquisition    *AcquisitionScorecard `json:"acquisition"`
	Validation     []ValidationRow       `json:"validation"`
	Channels       *ChannelTables        `json:"channels"`
	Heatmap        *EntityHeatmap        `json:"heatmap"`
	Conversion     *ConversionCohort     `json:"conversion"`
	Speed          *ConversionSpeed      `json:"speed"`
	Email          *EmailKPIs            `json:"email"`
	Scoring        *ScoringDistribution  `json:"scoring"`
}
