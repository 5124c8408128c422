package domain

import "time"

// Industry keys used to select benchmark rows and recommendation variants.
const (
	IndustryGeneral = "ecommerce_general"
	IndustryFashion = "ecommerce_fashion"
	IndustryBeauty  = "ecommerce_beauty"
	IndustryFood    = "ecommerce_food"
)

// BusinessModel enumerates how the advertiser sells.
type BusinessModel string

const (
	BusinessB2C BusinessModel = "B2C"
	BusinessB2B BusinessModel = "B2B"
	BusinessD2C BusinessModel = "D2C"
)

// AdAccount is a connected ad-platform account. A user owns many accounts and
// each account owns its own ProfitabilityProfile.
type AdAccount struct {
	ID                string        `json:"id" db:"id"`
	UserID            string        `json:"user_id" db:"user_id"`
	PlatformAccountID string        `json:"platform_account_id" db:"platform_account_id"`
	Name              string        `json:"name" db:"name"`
	Currency          string        `json:"currency" db:"currency"`
	Timezone          string        `json:"timezone" db:"timezone"`
	Industry          string        `json:"industry" db:"industry"`
	BusinessModel     BusinessModel `json:"business_model" db:"business_model"`
	PrimaryGoal       string        `json:"primary_goal" db:"primary_goal"`

	// AccessToken is the decrypted credential supplied by the auth layer.
	AccessToken    string     `json:"-" db:"access_token"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" db:"token_expires_at"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty" db:"last_synced_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// BenchmarkIndustry returns the industry key used for benchmark lookups.
func (a *AdAccount) BenchmarkIndustry() string {
	if a.Industry == "" {
		return IndustryGeneral
	}
	return a.Industry
}

// BusinessContext is the advertiser description handed to insight generation.
type BusinessContext struct {
	Industry      string        `json:"industry"`
	BusinessModel BusinessModel `json:"businessModel,omitempty"`
	PrimaryGoal   string        `json:"primaryGoal,omitempty"`
}

// PlatformAccount is an ad account visible to the connected credential.
type PlatformAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
	TimezoneName  string `json:"timezone_name"`
	BusinessID    string `json:"business_id,omitempty"`
	BusinessName  string `json:"business_name,omitempty"`
}
