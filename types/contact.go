package types

import "time"

// ContactSubmission is a sign-up sent through the public contact form.
type ContactSubmission struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Neighborhood string `json:"neighborhood,omitempty"`
	Comment      string `json:"comment,omitempty"`

	// NeighborhoodTitle is resolved from Neighborhood before dispatch.
	NeighborhoodTitle string `json:"neighborhoodTitle,omitempty"`

	// SubmittedAt is stamped when the submission is accepted.
	SubmittedAt time.Time `json:"submittedAt"`
}
