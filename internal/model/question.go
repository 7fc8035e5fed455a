package model

// CategoryKey names a question set in the question bank
type CategoryKey string

// Question is a single multiple-choice question. Answer always equals
// exactly one member of Options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// HasOption reports whether text is one of the question's choices
func (q Question) HasOption(text string) bool {
	for _, opt := range q.Options {
		if opt == text {
			return true
		}
	}
	return false
}

// QuestionSet is an ordered collection of questions under one category
type QuestionSet []Question

// AnswerRecord is the audit entry for one player's answer to one question
type AnswerRecord struct {
	Answer       string  `json:"answer"`
	IsCorrect    bool    `json:"isCorrect"`
	PointsEarned int     `json:"pointsEarned"`
	TimeTaken    float64 `json:"timeTaken"` // seconds from question start
}
