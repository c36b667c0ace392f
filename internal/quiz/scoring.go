package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"learnify/internal/models"
)

// submitGrace absorbs network latency between the client-side timer firing
// and the submit request landing.
const submitGrace = 5 * time.Second

// Result of grading one submission against a quiz's answer key. Score is a
// percentage in [0,100], the same scale as Quiz.PassingScore.
type Result struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
}

// Grade compares the chosen option label of each quiz question against the
// question's correct label. One unit per correct answer, no partial credit,
// no negative marking. Answer keys that reference no quiz question are
// skipped. A quiz with no questions grades to 0.
func Grade(qz *models.Quiz, answers map[uint]string) Result {
	res := Result{Total: len(qz.Questions)}
	for _, q := range qz.Questions {
		if label, ok := answers[q.ID]; ok && label == q.CorrectLabel {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.Score = res.Correct * 100 / res.Total
	}
	res.Passed = res.Score >= qz.PassingScore
	return res
}

// validateWindow enforces timestamp ordering and the quiz duration limit.
// A limit of zero means the quiz is untimed.
func validateWindow(start, end time.Time, limitSeconds int) error {
	if end.Before(start) {
		return models.ErrInvalidWindow
	}
	if limitSeconds > 0 && end.Sub(start) > time.Duration(limitSeconds)*time.Second+submitGrace {
		return models.ErrAttemptExpired
	}
	return nil
}

func encodeAnswers(answers map[uint]string) (datatypes.JSON, error) {
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	return datatypes.JSON(data), nil
}

func decodeAnswers(raw datatypes.JSON) (map[uint]string, error) {
	if len(raw) == 0 {
		return map[uint]string{}, nil
	}
	var answers map[uint]string
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedSubmission, err)
	}
	return answers, nil
}
