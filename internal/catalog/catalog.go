// Package catalog holds the static learning content shared by every group:
// roadmaps, their quiz banks, the learn video list and the library books.
package catalog

import (
	"orphancare-learning/internal/models"
)

type Catalog struct {
	roadmaps []models.Roadmap
	quizzes  map[string][]models.MCQ
	videos   []models.VideoCategory
	books    []models.Book

	lessonRoadmap map[string]string
}

func New(roadmaps []models.Roadmap, quizzes map[string][]models.MCQ, videos []models.VideoCategory, books []models.Book) *Catalog {
	c := &Catalog{
		roadmaps:      roadmaps,
		quizzes:       quizzes,
		videos:        videos,
		books:         books,
		lessonRoadmap: make(map[string]string),
	}
	for _, r := range roadmaps {
		for _, l := range r.Lessons {
			c.lessonRoadmap[l.ID] = r.ID
		}
	}
	return c
}

// Default returns the built-in content.
func Default() *Catalog {
	return New(defaultRoadmaps, defaultQuizzes, defaultVideos, defaultBooks)
}

func (c *Catalog) Roadmaps() []models.Roadmap {
	return c.roadmaps
}

func (c *Catalog) Videos() []models.VideoCategory {
	return c.videos
}

func (c *Catalog) Books() []models.Book {
	return c.books
}

func (c *Catalog) Book(id string) (models.Book, bool) {
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return models.Book{}, false
}

// Quiz returns the question bank for a lesson.
func (c *Catalog) Quiz(lessonID string) ([]models.MCQ, bool) {
	q, ok := c.quizzes[lessonID]
	return q, ok && len(q) > 0
}

// RoadmapOf returns the roadmap a lesson belongs to.
func (c *Catalog) RoadmapOf(lessonID string) (string, bool) {
	id, ok := c.lessonRoadmap[lessonID]
	return id, ok
}

func (c *Catalog) HasLesson(lessonID string) bool {
	_, ok := c.lessonRoadmap[lessonID]
	return ok
}
