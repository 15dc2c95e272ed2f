package models

import "time"

type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	Category      string    `json:"category"`
	FeaturedImage string    `json:"featured_image"`
	Published     bool      `json:"published"`
	// Tags are stored in a join table and returned deduplicated.
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
