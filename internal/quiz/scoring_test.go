package quiz

import (
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"learnify/internal/models"
)

func fourQuestionQuiz(passingScore int) *models.Quiz {
	return &models.Quiz{
		ID:           1,
		PassingScore: passingScore,
		Questions: []models.Question{
			{ID: 1, CorrectLabel: "a"},
			{ID: 2, CorrectLabel: "b"},
			{ID: 3, CorrectLabel: "c"},
			{ID: 4, CorrectLabel: "d"},
		},
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name        string
		quiz        *models.Quiz
		answers     map[uint]string
		wantScore   int
		wantCorrect int
		wantPassed  bool
	}{
		{
			name:        "all correct",
			quiz:        fourQuestionQuiz(70),
			answers:     map[uint]string{1: "a", 2: "b", 3: "c", 4: "d"},
			wantScore:   100,
			wantCorrect: 4,
			wantPassed:  true,
		},
		{
			name:        "none correct",
			quiz:        fourQuestionQuiz(70),
			answers:     map[uint]string{1: "b", 2: "c", 3: "d", 4: "a"},
			wantScore:   0,
			wantCorrect: 0,
			wantPassed:  false,
		},
		{
			name:        "three of four",
			quiz:        fourQuestionQuiz(70),
			answers:     map[uint]string{1: "a", 2: "b", 3: "x", 4: "d"},
			wantScore:   75,
			wantCorrect: 3,
			wantPassed:  true,
		},
		{
			name:        "missing answers award zero",
			quiz:        fourQuestionQuiz(50),
			answers:     map[uint]string{1: "a", 2: "b"},
			wantScore:   50,
			wantCorrect: 2,
			wantPassed:  true,
		},
		{
			name:        "unknown question ids are skipped",
			quiz:        fourQuestionQuiz(70),
			answers:     map[uint]string{1: "a", 2: "b", 3: "c", 4: "d", 99: "a"},
			wantScore:   100,
			wantCorrect: 4,
			wantPassed:  true,
		},
		{
			name:       "empty quiz grades to zero",
			quiz:       &models.Quiz{ID: 2, PassingScore: 50},
			answers:    map[uint]string{1: "a"},
			wantScore:  0,
			wantPassed: false,
		},
		{
			name:        "empty quiz with zero threshold passes",
			quiz:        &models.Quiz{ID: 3, PassingScore: 0},
			answers:     nil,
			wantScore:   0,
			wantCorrect: 0,
			wantPassed:  true,
		},
		{
			name:        "score at exact threshold passes",
			quiz:        fourQuestionQuiz(75),
			answers:     map[uint]string{1: "a", 2: "b", 3: "c"},
			wantScore:   75,
			wantCorrect: 3,
			wantPassed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Grade(tt.quiz, tt.answers)
			if res.Score != tt.wantScore {
				t.Fatalf("score = %d, want %d", res.Score, tt.wantScore)
			}
			if res.Correct != tt.wantCorrect {
				t.Fatalf("correct = %d, want %d", res.Correct, tt.wantCorrect)
			}
			if res.Passed != tt.wantPassed {
				t.Fatalf("passed = %v, want %v", res.Passed, tt.wantPassed)
			}
			if res.Total != len(tt.quiz.Questions) {
				t.Fatalf("total = %d, want %d", res.Total, len(tt.quiz.Questions))
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		end     time.Time
		limit   int
		wantErr error
	}{
		{"within limit", start.Add(5 * time.Minute), 600, nil},
		{"untimed quiz never expires", start.Add(48 * time.Hour), 0, nil},
		{"end before start", start.Add(-time.Second), 600, models.ErrInvalidWindow},
		{"elapsed past limit", start.Add(11 * time.Minute), 600, models.ErrAttemptExpired},
		{"inside grace window", start.Add(600*time.Second + 3*time.Second), 600, nil},
		{"just past grace window", start.Add(600*time.Second + 6*time.Second), 600, models.ErrAttemptExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWindow(start, tt.end, tt.limit)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("validateWindow() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnswersCodec(t *testing.T) {
	answers := map[uint]string{1: "a", 2: "b"}

	raw, err := encodeAnswers(answers)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := decodeAnswers(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1] != "a" || decoded[2] != "b" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestDecodeAnswersMalformed(t *testing.T) {
	_, err := decodeAnswers(datatypes.JSON(`{"not a map"`))
	if !errors.Is(err, models.ErrMalformedSubmission) {
		t.Fatalf("expected ErrMalformedSubmission, got %v", err)
	}
}

func TestDecodeAnswersEmpty(t *testing.T) {
	decoded, err := decodeAnswers(nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty map, got %v", decoded)
	}
}
