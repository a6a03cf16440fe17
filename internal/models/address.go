package models

// Address is a postal address block carried on customers, organizations and
// invoice shipping details. Stored as jsonb on invoices.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	StateCode  string `json:"state_code"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}
