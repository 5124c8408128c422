package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/pkg/httpretry"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL            = "https://graph.facebook.com"
	defaultAPIVersion         = "v21.0"
	defaultTimeout            = 30 * time.Second
	defaultPageLimit          = 500
	defaultMaxPages           = 25
	defaultAttributionWindows = "7d_click,1d_view"
)

// baseFields are requested at every level.
var baseFields = []string{
	"spend", "impressions", "inline_link_clicks", "inline_link_click_ctr",
	"cpc", "cpm", "actions", "action_values", "purchase_roas",
}

var accountFields = "id,name,account_status,currency,timezone_name,business"

// RequestObserver receives one callback per Graph HTTP request.
type RequestObserver interface {
	ObserveGraphRequest(endpoint string, outcome string, elapsed time.Duration)
}

// Client is the Meta Graph API client.
type Client struct {
	baseURL            string
	timeout            time.Duration
	pageLimit          int
	maxPages           int
	attributionWindows string
	httpClient         httpretry.HTTPDoer
	observer           RequestObserver
}

// NewClient creates a Graph client. Zero config fields take defaults.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = defaultAPIVersion
	}
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if config.PageLimit <= 0 {
		config.PageLimit = defaultPageLimit
	}
	if config.MaxPages <= 0 {
		config.MaxPages = defaultMaxPages
	}
	if config.AttributionWindows == "" {
		config.AttributionWindows = defaultAttributionWindows
	}

	return &Client{
		baseURL:            strings.TrimRight(config.BaseURL, "/") + "/" + config.APIVersion,
		timeout:            timeout,
		pageLimit:          config.PageLimit,
		maxPages:           config.MaxPages,
		attributionWindows: config.AttributionWindows,
		httpClient:         httpretry.NewRetryClient(&http.Client{}, config.MaxRetries),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// SetObserver registers a request observer.
func (c *Client) SetObserver(o RequestObserver) {
	c.observer = o
}

// NormalizeAccountID ensures the "act_" prefix Graph expects.
func NormalizeAccountID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "act_") {
		return id
	}
	return "act_" + id
}

// FieldsForLevel returns the comma-joined field list for level.
func FieldsForLevel(level domain.InsightLevel) string {
	var fields []string
	switch level {
	case domain.LevelCampaign:
		fields = append(fields, "campaign_id", "campaign_name")
	case domain.LevelAdset:
		fields = append(fields, "campaign_id", "campaign_name", "adset_id", "adset_name")
	case domain.LevelAd:
		fields = append(fields, "campaign_id", "campaign_name", "adset_id", "adset_name", "ad_id", "ad_name")
	}
	return strings.Join(append(fields, baseFields...), ",")
}

// validate fills the default level and checks the date range.
func (q *Query) validate() error {
	if q.Level == "" {
		q.Level = domain.LevelAccount
	}
	if !q.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidQuery, q.Level)
	}
	since, err := time.Parse("2006-01-02", q.Since)
	if err != nil {
		return fmt.Errorf("%w: since %q is not a YYYY-MM-DD date", ErrInvalidQuery, q.Since)
	}
	until, err := time.Parse("2006-01-02", q.Until)
	if err != nil {
		return fmt.Errorf("%w: until %q is not a YYYY-MM-DD date", ErrInvalidQuery, q.Until)
	}
	if since.After(until) {
		return fmt.Errorf("%w: since %s is after until %s", ErrInvalidQuery, q.Since, q.Until)
	}
	return nil
}

// GetInsights fetches and normalizes insight rows for one account over an
// inclusive date range, following paging cursors up to the page cap.
func (c *Client) GetInsights(ctx context.Context, token *oauth2.Token, accountID string, q Query) (*InsightsResult, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}
	accountID = NormalizeAccountID(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("%w: empty account id", ErrInvalidQuery)
	}
	if err := q.validate(); err != nil {
		return nil, err
	}

	timeRange, _ := json.Marshal(map[string]string{"since": q.Since, "until": q.Until})
	params := url.Values{}
	params.Set("level", string(q.Level))
	params.Set("fields", FieldsForLevel(q.Level))
	params.Set("time_range", string(timeRange))
	params.Set("action_attribution_windows", c.attributionWindows)
	params.Set("action_breakdowns", "action_type")

	raws, pages, truncated, err := fetchAll[rawInsightRow](ctx, c, token, "/"+accountID+"/insights", params)
	if err != nil {
		return nil, err
	}
	if truncated {
		log.Printf("[meta] insights for %s level=%s truncated after %d pages", accountID, q.Level, pages)
	}

	rows := make([]domain.InsightRow, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, normalizeRow(raw))
	}

	return &InsightsResult{
		Summary:   Summarize(rows),
		Data:      rows,
		Pages:     pages,
		Truncated: truncated,
	}, nil
}

// fetchAll walks a paginated edge and decodes every item as T.
func fetchAll[T any](ctx context.Context, c *Client, token *oauth2.Token, path string, params url.Values) ([]T, int, bool, error) {
	params.Set("access_token", token.AccessToken)
	params.Set("limit", strconv.Itoa(c.pageLimit))
	next := c.baseURL + path + "?" + params.Encode()

	var out []T
	pages := 0
	for next != "" {
		if pages >= c.maxPages {
			return out, pages, true, nil
		}
		page, err := c.getPage(ctx, path, next)
		if err != nil {
			return nil, pages, false, err
		}
		pages++
		for _, item := range page.Data {
			var v T
			if err := json.Unmarshal(item, &v); err != nil {
				log.Printf("[meta] skipping undecodable item on %s: %v", path, err)
				continue
			}
			out = append(out, v)
		}
		next = ""
		if page.Paging != nil {
			next = page.Paging.Next
		}
	}
	return out, pages, false, nil
}

// getPage performs one GET with the per-call timeout and maps failures.
func (c *Client) getPage(ctx context.Context, endpoint, rawURL string) (*graphPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	outcome := "ok"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveGraphRequest(endpointLabel(endpoint), outcome, time.Since(started))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "unavailable"
		return nil, &PlatformUnavailableError{Timeout: isTimeout(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "unavailable"
		return nil, &PlatformUnavailableError{StatusCode: resp.StatusCode, Timeout: isTimeout(ctx, err), Err: err}
	}

	var page graphPage
	decodeErr := json.Unmarshal(body, &page)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || page.Error != nil {
		err := classify(resp.StatusCode, page.Error)
		outcome = "unavailable"
		if IsCredentialError(err) {
			outcome = "credential"
		}
		return nil, err
	}
	if decodeErr != nil {
		outcome = "unavailable"
		return nil, &PlatformUnavailableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	return &page, nil
}

// checkToken rejects missing or expired credentials before any request.
func checkToken(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return &CredentialError{Reason: "missing", Message: "no access token for ad account"}
	}
	if !token.Valid() {
		return &CredentialError{Reason: "expired_or_invalid", Code: codeInvalidToken, Message: "access token has expired"}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// endpointLabel collapses account ids out of a path for metric labels.
func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 {
		return path
	}
	return parts[len(parts)-1]
}
