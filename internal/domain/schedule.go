package domain

import "time"

// ReportFrequency is how often a scheduled report runs.
type ReportFrequency string

const (
	FrequencyWeekly    ReportFrequency = "weekly"
	FrequencyBiweekly  ReportFrequency = "biweekly"
	FrequencyMonthly   ReportFrequency = "monthly"
	FrequencyQuarterly ReportFrequency = "quarterly"
)

// Valid reports whether f is a supported frequency.
func (f ReportFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// DateRangeType selects the reporting window of a scheduled run.
type DateRangeType string

const (
	RangeLast7       DateRangeType = "last_7"
	RangeLast14      DateRangeType = "last_14"
	RangeLast30      DateRangeType = "last_30"
	RangeThisMonth   DateRangeType = "this_month"
	RangeThisQuarter DateRangeType = "this_quarter"
)

// Valid reports whether d is a supported range type.
func (d DateRangeType) Valid() bool {
	switch d {
	case RangeLast7, RangeLast14, RangeLast30, RangeThisMonth, RangeThisQuarter:
		return true
	}
	return false
}

// ScheduledReport is a recurring report delivered by email.
type ScheduledReport struct {
	ID            string          `json:"id" db:"id"`
	AdAccountID   string          `json:"ad_account_id" db:"ad_account_id"`
	Name          string          `json:"name" db:"name"`
	Frequency     ReportFrequency `json:"frequency" db:"frequency"`
	DayOfWeek     int             `json:"day_of_week" db:"day_of_week"`
	DayOfMonth    int             `json:"day_of_month" db:"day_of_month"`
	TimeOfDay     string          `json:"time_of_day" db:"time_of_day"`
	Timezone      string          `json:"timezone" db:"timezone"`
	DateRangeType DateRangeType   `json:"date_range_type" db:"date_range_type"`
	Recipients    []string        `json:"recipients" db:"recipients"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	NextRunAt     time.Time       `json:"next_run_at" db:"next_run_at"`
	LastRunAt     *time.Time      `json:"last_run_at,omitempty" db:"last_run_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// DeliveryStatus is the outcome of one scheduled delivery.
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// ReportDelivery logs one scheduled run.
type ReportDelivery struct {
	ID                string         `json:"id" db:"id"`
	ScheduledReportID string         `json:"scheduled_report_id" db:"scheduled_report_id"`
	ReportID          *string        `json:"report_id,omitempty" db:"report_id"`
	Status            DeliveryStatus `json:"status" db:"status"`
	ErrorMessage      string         `json:"error_message,omitempty" db:"error_message"`
	Recipients        []string       `json:"recipients" db:"recipients"`
	DeliveredAt       time.Time      `json:"delivered_at" db:"delivered_at"`
}
