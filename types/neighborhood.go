package types

import "time"

// Neighborhood is a local community (mesna zajednica) and its contact.
// The list is seeded by migration; only the contact fields change.
type Neighborhood struct {
	ID                string    `json:"id" db:"id"`
	Value             string    `json:"value" db:"value"`
	Title             string    `json:"title" db:"title"`
	ResponsiblePerson string    `json:"responsiblePerson" db:"responsible_person"`
	Phone             string    `json:"phone" db:"phone"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// NeighborhoodContact is the editable part of a Neighborhood.
type NeighborhoodContact struct {
	ResponsiblePerson string `json:"responsiblePerson"`
	Phone             string `json:"phone"`
}
