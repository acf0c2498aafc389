package models

// Repository is one of a user's top repositories, already ranked by stars
type Repository struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}
