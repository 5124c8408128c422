package meta

import (
	"context"
	"log"
	"net/url"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/metrics"
	"golang.org/x/oauth2"
)

// ListAdAccounts returns every ad account the token can see: personal
// accounts plus accounts owned by or shared with the user's businesses.
// Business edges that fail are skipped; the personal edge must succeed.
func (c *Client) ListAdAccounts(ctx context.Context, token *oauth2.Token) (*AccountsResult, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}

	result := &AccountsResult{}
	seen := make(map[string]bool)
	add := func(raws []rawAccount) {
		for _, r := range raws {
			acct := toPlatformAccount(r)
			if acct.ID == "" || seen[acct.ID] {
				continue
			}
			seen[acct.ID] = true
			result.Accounts = append(result.Accounts, acct)
		}
	}

	personal, _, truncated, err := fetchAll[rawAccount](ctx, c, token, "/me/adaccounts", accountParams())
	if err != nil {
		return nil, err
	}
	result.Truncated = truncated
	add(personal)

	businesses, _, _, err := fetchAll[rawBusiness](ctx, c, token, "/me/businesses", url.Values{"fields": {"id,name"}})
	if err != nil {
		if IsCredentialError(err) {
			log.Printf("[meta] business listing not permitted, using personal accounts only: %v", err)
			return result, nil
		}
		return nil, err
	}

	for _, b := range businesses {
		for _, edge := range []string{"owned_ad_accounts", "client_ad_accounts"} {
			raws, _, truncated, err := fetchAll[rawAccount](ctx, c, token, "/"+b.ID+"/"+edge, accountParams())
			if err != nil {
				log.Printf("[meta] skipping %s for business %s: %v", edge, b.ID, err)
				continue
			}
			for i := range raws {
				if raws[i].Business == nil {
					raws[i].Business = &rawBusiness{ID: b.ID, Name: b.Name}
				}
			}
			result.Truncated = result.Truncated || truncated
			add(raws)
		}
	}

	return result, nil
}

func accountParams() url.Values {
	return url.Values{"fields": {accountFields}}
}

func toPlatformAccount(r rawAccount) domain.PlatformAccount {
	id := r.ID
	if id == "" {
		id = r.AccountID
	}
	acct := domain.PlatformAccount{
		ID:            NormalizeAccountID(id),
		Name:          r.Name,
		AccountStatus: int(metrics.ParseCount(string(r.AccountStatus))),
		Currency:      r.Currency,
		TimezoneName:  r.TimezoneName,
	}
	if r.Business != nil {
		acct.BusinessID = r.Business.ID
		acct.BusinessName = r.Business.Name
	}
	return acct
}
