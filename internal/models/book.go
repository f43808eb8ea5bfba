package models

type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Category    string   `json:"category,omitempty"` // "Stories" | "Math" | "Science"
	Level       string   `json:"level,omitempty"`    // "Beginner" | "Intermediate" | "Advanced"
	Description string   `json:"description,omitempty"`
	Cover       string   `json:"cover,omitempty"`
	ResourceURL string   `json:"resource_url,omitempty"`
	Popularity  float64  `json:"popularity"`
	Tags        []string `json:"tags"`
}
