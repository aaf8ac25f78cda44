package domain

import "time"

// LoginAttempt is an audit record of a single login, successful or not.
type LoginAttempt struct {
	Account   string    `json:"account"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent,omitempty"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
