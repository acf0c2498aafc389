package models

// CardView is a snapshot of a profile card
type CardView struct {
	User    UserSummary  `json:"user"`
	Bio     *string      `json:"bio"`
	Repos   []Repository `json:"repos"`
	Pending bool         `json:"pending"`
}

// HasBio reports whether a non-empty biography should be rendered
func (v CardView) HasBio() bool {
	return v.Bio != nil && *v.Bio != ""
}

// BioText returns the biography or an empty string
func (v CardView) BioText() string {
	if v.Bio == nil {
		return ""
	}
	return *v.Bio
}
