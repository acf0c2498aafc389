package models

// UserSummary is a single item of a user search result
type UserSummary struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// UserProfile holds the extended profile fields the finder displays.
// Bio is nil when GitHub reports no biography.
type UserProfile struct {
	Bio *string `json:"bio"`
}
