package types

import "time"

// MaxVideos is the number of YouTube videos the home page shows.
const MaxVideos = 3

// Video is a YouTube video featured on the home page. ID is the YouTube
// video identifier.
type Video struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// VideoInput is the admin payload for adding a video.
type VideoInput struct {
	Title     string `json:"title"`
	YoutubeID string `json:"youtubeId"`
}
