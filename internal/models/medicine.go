package models

// Medicine is one spreadsheet row projected for the drug store endpoints.
// Category files fill ImageURL, the general catalog fills Description.
type Medicine struct {
	Name        string      `json:"name,omitempty"`
	Price       interface{} `json:"price,omitempty"`
	URL         string      `json:"url,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Description string      `json:"description,omitempty"`
}
