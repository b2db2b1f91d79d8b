package util

import "strings"

// NormalizeMSISDN undoes the URL-encoded "+959" prefix some account records
// carry ("%2B959..."), so the query encoder does not double-encode it.
func NormalizeMSISDN(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.Replace(s, "%2B959", "+959", 1)
}
