package types

import "time"

// NewsArticle is a news post managed from the admin panel.
// Unpublished articles are hidden from the public listing but can still be
// fetched directly by id.
type NewsArticle struct {
	// ID is the unique identifier of the article.
	ID string `json:"id" db:"id"`

	// Title is the headline shown in listings.
	Title string `json:"title" db:"title"`

	// Content is the sanitised rich-text HTML body.
	Content string `json:"content" db:"content"`

	// Image is either an inline data URI or a URL into object storage.
	// Empty when the article has no image.
	Image string `json:"image,omitempty" db:"image"`

	// Published gates visibility in the public listing.
	Published bool `json:"published" db:"published"`

	// PublishDate is the date shown next to the article.
	PublishDate time.Time `json:"publishDate" db:"publish_date"`

	// CreatedAt is the timestamp at which the article was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the article.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewsSummary is the projection returned by the public news listing.
type NewsSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewsInput is the writable part of a NewsArticle.
type NewsInput struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Image       string     `json:"image,omitempty"`
	Published   bool       `json:"published"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
}
