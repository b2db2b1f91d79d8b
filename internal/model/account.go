package model

// Account is one subscriber record from the account list.
// Field names follow the account-list API.
type Account struct {
	Phone       string `json:"phone"`
	UserID      string `json:"userid"`
	AccessToken string `json:"access"`
}

// Valid reports whether the record carries everything an authenticated call needs.
func (a Account) Valid() bool {
	return a.Phone != "" && a.UserID != "" && a.AccessToken != ""
}
