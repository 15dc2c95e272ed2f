package models

import "time"

type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	DemoURL     string `json:"demo_url"`
	GithubURL   string `json:"github_url"`
	ImageURL    string `json:"image_url"`
	// Featured marks the project for promotional display; independent of
	// a post's published flag.
	Featured     bool      `json:"featured"`
	Technologies []string  `json:"technologies"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
