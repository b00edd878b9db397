package entity

import "time"

// Credential is a saved login for a host.
type Credential struct {
	Host      string
	Username  string
	Password  string
	UpdatedAt time.Time
}

// IsComplete reports whether the credential can be stored or filled.
func (c *Credential) IsComplete() bool {
	return c != nil && c.Host != "" && c.Username != "" && c.Password != ""
}
