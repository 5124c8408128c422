package meta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testToken() *oauth2.Token {
	return &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)}
}

func newTestClient(serverURL string) *Client {
	return NewClient(Config{BaseURL: serverURL, APIVersion: "v21.0", MaxRetries: 0})
}

func TestGetInsights_AccountLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v21.0/act_123/insights", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-token", q.Get("access_token"))
		assert.Equal(t, "account", q.Get("level"))
		assert.Equal(t, FieldsForLevel(domain.LevelAccount), q.Get("fields"))
		assert.JSONEq(t, `{"since":"2024-01-01","until":"2024-01-31"}`, q.Get("time_range"))
		assert.Equal(t, "7d_click,1d_view", q.Get("action_attribution_windows"))
		assert.Equal(t, "action_type", q.Get("action_breakdowns"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{
			"spend":"100.00","impressions":"10000","inline_link_clicks":"150",
			"actions":[{"action_type":"add_to_cart","value":"12"},{"action_type":"initiate_checkout","value":"6"},{"action_type":"purchase","value":"4"}],
			"action_values":[{"action_type":"purchase","value":"400"}],
			"date_start":"2024-01-01","date_stop":"2024-01-31"
		}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GetInsights(context.Background(), testToken(), "123", Query{Since: "2024-01-01", Until: "2024-01-31"})
	require.NoError(t, err)

	require.Len(t, result.Data, 1)
	assert.False(t, result.Truncated)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, int64(150), result.Summary.Clicks)
	assert.Equal(t, int64(12), result.Summary.AddToCarts)
	assert.Equal(t, int64(4), result.Summary.Purchases)
	assert.InDelta(t, 400.0, result.Summary.Revenue, 1e-9)
}

func TestGetInsights_FollowsPaging(t *testing.T) {
	var serverURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("after") == "" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data":   []map[string]string{{"campaign_id": "1", "spend": "10"}},
				"paging": map[string]string{"next": serverURL + r.URL.Path + "?after=c1&access_token=test-token"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"campaign_id": "2", "spend": "5.5"}},
		})
	}))
	defer server.Close()
	serverURL = server.URL

	client := newTestClient(server.URL)
	result, err := client.GetInsights(context.Background(), testToken(), "act_9", Query{
		Level: domain.LevelCampaign, Since: "2024-01-01", Until: "2024-01-07",
	})
	require.NoError(t, err)

	require.Len(t, result.Data, 2)
	assert.Equal(t, "2", result.Data[1].CampaignID)
	assert.Equal(t, 2, result.Pages)
	assert.False(t, result.Truncated)
	assert.InDelta(t, 15.5, result.Summary.Spend, 1e-9)
}

func TestGetInsights_PageCapTruncates(t *testing.T) {
	var serverURL string
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":   []map[string]string{{"adset_id": "a", "spend": "1"}},
			"paging": map[string]string{"next": serverURL + r.URL.Path + "?after=x"},
		})
	}))
	defer server.Close()
	serverURL = server.URL

	client := NewClient(Config{BaseURL: server.URL, MaxPages: 3})
	result, err := client.GetInsights(context.Background(), testToken(), "act_1", Query{
		Level: domain.LevelAdset, Since: "2024-01-01", Until: "2024-01-02",
	})
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.Equal(t, 3, result.Pages)
	assert.Len(t, result.Data, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetInsights_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		credential bool
	}{
		{"expired token", http.StatusBadRequest, `{"error":{"message":"Session has expired","code":190}}`, true},
		{"session code", http.StatusBadRequest, `{"error":{"message":"Session key invalid","code":102}}`, true},
		{"unauthorized", http.StatusUnauthorized, `{}`, true},
		{"permission", http.StatusForbidden, `{"error":{"message":"Permissions error","code":200}}`, true},
		{"bad param", http.StatusBadRequest, `{"error":{"message":"Invalid parameter","code":100}}`, false},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"Unknown error","code":1}}`, false},
		{"error in 200 body", http.StatusOK, `{"error":{"message":"Service temporarily unavailable","code":2}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetInsights(context.Background(), testToken(), "act_1",
				Query{Since: "2024-01-01", Until: "2024-01-02"})
			require.Error(t, err)
			assert.Equal(t, tt.credential, IsCredentialError(err), err.Error())
			assert.Equal(t, !tt.credential, IsPlatformUnavailable(err), err.Error())
		})
	}
}

func TestGetInsights_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.timeout = 50 * time.Millisecond

	_, err := client.GetInsights(context.Background(), testToken(), "act_1", Query{Since: "2024-01-01", Until: "2024-01-02"})
	require.Error(t, err)

	var pe *PlatformUnavailableError
	require.True(t, errors.As(err, &pe))
	assert.True(t, pe.Timeout)
}

func TestGetInsights_RejectsBadInput(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"})

	_, err := client.GetInsights(context.Background(), testToken(), "act_1", Query{Since: "2024-02-01", Until: "2024-01-01"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = client.GetInsights(context.Background(), testToken(), "act_1", Query{Since: "2024-02-30", Until: "2024-03-01"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = client.GetInsights(context.Background(), testToken(), "act_1", Query{Level: "region", Since: "2024-01-01", Until: "2024-01-01"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	expired := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}
	_, err = client.GetInsights(context.Background(), expired, "act_1", Query{Since: "2024-01-01", Until: "2024-01-01"})
	assert.True(t, IsCredentialError(err))

	_, err = client.GetInsights(context.Background(), nil, "act_1", Query{Since: "2024-01-01", Until: "2024-01-01"})
	assert.True(t, IsCredentialError(err))
}

func TestFieldsForLevel(t *testing.T) {
	assert.Equal(t, "spend,impressions,inline_link_clicks,inline_link_click_ctr,cpc,cpm,actions,action_values,purchase_roas",
		FieldsForLevel(domain.LevelAccount))
	assert.Contains(t, FieldsForLevel(domain.LevelCampaign), "campaign_id,campaign_name,spend")
	assert.Contains(t, FieldsForLevel(domain.LevelAdset), "adset_id,adset_name,spend")
	assert.Contains(t, FieldsForLevel(domain.LevelAd), "ad_id,ad_name,spend")
}

func TestNormalizeAccountID(t *testing.T) {
	assert.Equal(t, "act_42", NormalizeAccountID("42"))
	assert.Equal(t, "act_42", NormalizeAccountID("act_42"))
	assert.Equal(t, "", NormalizeAccountID(" "))
}

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveGraphRequest(endpoint, outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, endpoint+":"+outcome)
}

func TestGetInsights_NotifiesObserver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	client := newTestClient(server.URL)
	client.SetObserver(obs)

	_, err := client.GetInsights(context.Background(), testToken(), "act_1", Query{Since: "2024-01-01", Until: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, []string{"insights:ok"}, obs.outcomes)
}
