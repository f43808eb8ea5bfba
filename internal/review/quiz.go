package review

import (
	"math"

	"orphancare-learning/internal/models"
)

// PassScore is the quiz percentage at which a group may move on.
const PassScore = 60

// QuizScore returns round(100 * correct / total). An empty quiz scores 0.
func QuizScore(questions []models.MCQ, answers map[string]int) float64 {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.AnswerIndex {
			correct++
		}
	}
	return math.Round(float64(correct) / float64(len(questions)) * 100)
}

func PassMessage(scorePercent float64) string {
	if scorePercent >= PassScore {
		return "Good, proceed to the next lesson"
	}
	return "Low score, schedule a group review before proceeding"
}
