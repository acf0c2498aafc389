package models

// SearchState is a snapshot of a search panel
type SearchState struct {
	Query   string        `json:"query"`
	Users   []UserSummary `json:"users"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error"`
}

// HasUsers reports whether the panel currently shows any cards
func (s SearchState) HasUsers() bool {
	return len(s.Users) > 0
}
