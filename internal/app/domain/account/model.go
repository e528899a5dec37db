package account

// Account represents a registered user. The password travels and is stored
// as plain text; exact-match login against the stored value is part of the
// API contract this service preserves.
type Account struct {
	ID       int64  `json:"account_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}
