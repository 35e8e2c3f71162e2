package types

import "time"

// TeamMember is a person shown on the team page.
// Members render in ascending Order; equal orders fall back to ID.
type TeamMember struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Position string `json:"position" db:"position"`
	Image    string `json:"image,omitempty" db:"image"`

	// Biography is multi-paragraph plain text; paragraphs are separated by
	// blank lines.
	Biography string `json:"biography" db:"biography"`

	// BiographyHTML is rendered from Biography for public listings and is
	// not stored.
	BiographyHTML string `json:"biographyHtml,omitempty" db:"-"`

	Order     int       `json:"order" db:"order"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TeamMemberInput is the writable part of a TeamMember. A nil Order leaves
// the stored value untouched on update.
type TeamMemberInput struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	Image     string `json:"image,omitempty"`
	Biography string `json:"biography"`
	Order     *int   `json:"order,omitempty"`
}

// TeamOrder assigns a display position to one member.
type TeamOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
