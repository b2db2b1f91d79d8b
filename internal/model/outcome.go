package model

type ClaimStatus string

const (
	ClaimStatusClaimed       ClaimStatus = "claimed"
	ClaimStatusNoClaim       ClaimStatus = "no_claim"
	ClaimStatusResolveFailed ClaimStatus = "resolve_failed"
	ClaimStatusSubmitFailed  ClaimStatus = "submit_failed"
)

func (s ClaimStatus) String() string {
	return string(s)
}

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusClaimed, ClaimStatusNoClaim, ClaimStatusResolveFailed, ClaimStatusSubmitFailed:
		return true
	}
	return false
}

// ClaimOutcome is the single terminal result of one account's claim flow.
type ClaimOutcome struct {
	Account Account
	Status  ClaimStatus
	ClaimID int64 // resolved id, zero unless a claim was found
	Err     error
}

func (o ClaimOutcome) Succeeded() bool {
	return o.Status == ClaimStatusClaimed
}

type DashboardOutcome struct {
	Account    Account
	OK         bool
	StatusCode int
	Err        error
}

type PhoneOutcome struct {
	Phone      string
	OK         bool
	StatusCode int
	Err        error
}

// OutcomeEvent is the payload published for each ClaimOutcome.
type OutcomeEvent struct {
	RunID     string `json:"run_id"`
	Phone     string `json:"phone"`
	UserID    string `json:"userid"`
	Status    string `json:"status"`
	ClaimID   int64  `json:"claim_id,omitempty"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
	At        int64  `json:"at"` // unix millis
}
