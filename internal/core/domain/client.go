package domain

// Client is the read-only view of a client record owned by the external
// profile directory.
type Client struct {
	ClientID    string `json:"clientID"`
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
}
