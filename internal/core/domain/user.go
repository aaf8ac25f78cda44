package domain

// UserProfile models an account row in the external credential store.
// The store owns these records; this service only ever reads them.
type UserProfile struct {
	ID         int64  `json:"id"`
	Account    string `json:"account"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Messaging  string `json:"messaging,omitempty"`
	Password   string `json:"-"`
	Workspace  string `json:"workspace,omitempty"`
	Title      string `json:"title,omitempty"`
	Active     bool   `json:"active"`
}

// Sanitized returns a copy safe to hand to transport layers: the stored
// password never leaves the core, including through logs or JSON tags
// applied by callers.
func (u UserProfile) Sanitized() UserProfile {
	clean := u
	clean.Password = ""
	return clean
}
