package meta

import (
	"bytes"
	"encoding/json"

	"github.com/ignite/adlens/internal/domain"
)

// Config holds Graph API client settings.
type Config struct {
	BaseURL            string `yaml:"base_url"`
	APIVersion         string `yaml:"api_version"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
	MaxRetries         int    `yaml:"max_retries"`
	PageLimit          int    `yaml:"page_limit"`
	MaxPages           int    `yaml:"max_pages"`
	AttributionWindows string `yaml:"attribution_windows"`
}

// Query selects one insights request.
type Query struct {
	Level domain.InsightLevel
	Since string
	Until string
}

// InsightsResult is a normalized insights response. Truncated is set when
// the page cap stopped cursor-following before the last page.
type InsightsResult struct {
	Summary   domain.InsightTotals `json:"summary"`
	Data      []domain.InsightRow  `json:"data"`
	Pages     int                  `json:"pages"`
	Truncated bool                 `json:"truncated"`
}

// AccountsResult is the deduplicated list of accessible ad accounts.
type AccountsResult struct {
	Accounts  []domain.PlatformAccount `json:"accounts"`
	Truncated bool                     `json:"truncated"`
}

// flexNumber accepts Graph numerics sent either as strings or JSON numbers.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = ""
			return nil
		}
		*f = flexNumber(s)
		return nil
	}
	*f = flexNumber(b)
	return nil
}

type rawAction struct {
	ActionType string     `json:"action_type"`
	Value      flexNumber `json:"value"`
}

type rawInsightRow struct {
	CampaignID   string      `json:"campaign_id"`
	CampaignName string      `json:"campaign_name"`
	AdsetID      string      `json:"adset_id"`
	AdsetName    string      `json:"adset_name"`
	AdID         string      `json:"ad_id"`
	AdName       string      `json:"ad_name"`
	DateStart    string      `json:"date_start"`
	DateStop     string      `json:"date_stop"`
	Spend        flexNumber  `json:"spend"`
	Impressions  flexNumber  `json:"impressions"`
	Clicks       flexNumber  `json:"inline_link_clicks"`
	CTR          flexNumber  `json:"inline_link_click_ctr"`
	CPC          flexNumber  `json:"cpc"`
	CPM          flexNumber  `json:"cpm"`
	Actions      []rawAction `json:"actions"`
	ActionValues []rawAction `json:"action_values"`
}

type rawAccount struct {
	ID            string       `json:"id"`
	AccountID     string       `json:"account_id"`
	Name          string       `json:"name"`
	AccountStatus flexNumber   `json:"account_status"`
	Currency      string       `json:"currency"`
	TimezoneName  string       `json:"timezone_name"`
	Business      *rawBusiness `json:"business"`
}

type rawBusiness struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type graphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FBTraceID    string `json:"fbtrace_id"`
}

type graphPage struct {
	Data   []json.RawMessage `json:"data"`
	Paging *struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *graphError `json:"error"`
}
