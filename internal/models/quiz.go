package models

type MCQ struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
}

// PublicMCQ is the question as sent to students, without the answer.
type PublicMCQ struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

func (q MCQ) Public() PublicMCQ {
	return PublicMCQ{ID: q.ID, Question: q.Question, Choices: q.Choices}
}
