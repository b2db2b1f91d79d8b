package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ClaimableKind int

const (
	ClaimableError ClaimableKind = iota // lookup failed
	ClaimableNone                       // nothing enabled right now
	ClaimableFound
)

func (k ClaimableKind) String() string {
	switch k {
	case ClaimableNone:
		return "none"
	case ClaimableFound:
		return "found"
	default:
		return "error"
	}
}

// Claimable is the claim-list lookup result for one account.
type Claimable struct {
	Kind ClaimableKind
	ID   int64 // set when Kind == ClaimableFound
	Err  error // set when Kind == ClaimableError
}

func FoundClaim(id int64) Claimable   { return Claimable{Kind: ClaimableFound, ID: id} }
func NoClaim() Claimable              { return Claimable{Kind: ClaimableNone} }
func FailedClaim(err error) Claimable { return Claimable{Kind: ClaimableError, Err: err} }
func (c Claimable) Found() bool       { return c.Kind == ClaimableFound }

// ParseClaimID converts an upstream id to an integer. The API sometimes sends
// integer ids as floats ("123.0"), so the value goes through ParseFloat first
// and is truncated. Non-finite values and values outside the int64 range are
// rejected.
func ParseClaimID(raw string) (int64, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	if s == "" {
		return 0, fmt.Errorf("empty claim id")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse claim id %q: %w", raw, err)
	}
	// float64(math.MaxInt64) rounds up to 2^63, hence >=.
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("claim id %q out of range", raw)
	}
	return int64(f), nil
}
