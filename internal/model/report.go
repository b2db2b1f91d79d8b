package model

import "time"

// RunReport summarizes one pipeline run.
type RunReport struct {
	RunID           string        `json:"run_id"`
	StartedAt       time.Time     `json:"started_at"`
	Elapsed         time.Duration `json:"elapsed"`
	Accounts        int           `json:"accounts"`
	DashboardOK     int           `json:"dashboard_ok"`
	DashboardFailed int           `json:"dashboard_failed"`
	Claimed         int           `json:"claimed"`
	NoClaim         int           `json:"no_claim"`
	ClaimFailed     int           `json:"claim_failed"`
	PhonesOK        int           `json:"phones_ok"`
	PhonesFailed    int           `json:"phones_failed"`
}

// AddClaims tallies claim outcomes into the report.
func (r *RunReport) AddClaims(outs []ClaimOutcome) {
	for _, o := range outs {
		switch o.Status {
		case ClaimStatusClaimed:
			r.Claimed++
		case ClaimStatusNoClaim:
			r.NoClaim++
		default:
			r.ClaimFailed++
		}
	}
}

func (r *RunReport) AddDashboards(outs []DashboardOutcome) {
	for _, o := range outs {
		if o.OK {
			r.DashboardOK++
		} else {
			r.DashboardFailed++
		}
	}
}
