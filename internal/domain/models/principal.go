package models

// Principal is the acting identity for one request. It is supplied by the
// identity context (SSO token claims) and trusted as-is; the engine performs
// no authentication of its own.
type Principal struct {
	ID         int64  `json:"id"`
	Department string `json:"department"`
	IsAdmin    bool   `json:"is_admin"`
}
