package models

type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	VideoID  string `json:"video_id,omitempty"`
}

type Roadmap struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

type Video struct {
	ID    string `json:"id"` // YouTube video id
	Title string `json:"title"`
}

type VideoCategory struct {
	Category string  `json:"category"`
	Videos   []Video `json:"videos"`
}
