package entities

import "time"

// Account holds per-account enrichment budget state. ScansUsed and
// ScansLimit are subscription-period counters reset by the billing
// collaborator on period rollover; CreditBalance is purchased top-up
// spent only once the subscription quota is exhausted.
type Account struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ScansUsed     int       `json:"scans_used"`
	ScansLimit    int       `json:"scans_limit"`
	CreditBalance int       `json:"credit_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasBudget reports whether the account may start an enrichment
func (a *Account) HasBudget() bool {
	return a.ScansUsed < a.ScansLimit || a.CreditBalance > 0
}

// SubscriptionState is the quota projection returned to callers
type SubscriptionState struct {
	ScansUsed  int `json:"scans_used"`
	ScansLimit int `json:"scans_limit"`
}

// CreditState is the purchased-credit projection returned to callers
type CreditState struct {
	Balance int `json:"balance"`
}

// QuotaDecision is the answer to "may this account enrich now"
type QuotaDecision struct {
	Allowed      bool              `json:"allowed"`
	Reason       string            `json:"reason,omitempty"`
	Subscription SubscriptionState `json:"subscription"`
	Credits      CreditState       `json:"credits"`
}
