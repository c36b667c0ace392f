package models

import (
	"time"

	"gorm.io/datatypes"
)

// AttemptStatus tracks the submission lifecycle. Submitted and Expired are
// terminal; a retake creates a fresh AnswerSubmission row.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	// AttemptExpired marks an attempt whose duration window lapsed before a
	// valid submit landed. It scores zero and never blocks a retake.
	AttemptExpired AttemptStatus = "expired"
)

// AnswerSubmission is one student's attempt at a quiz. Chosen options are
// kept as a JSON column mapping question id to option label. Score is a
// percentage in [0,100], the same scale as Quiz.PassingScore. Rows are never
// deleted; they are the permanent attempt record.
type AnswerSubmission struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	StudentID       uint           `json:"student_id" gorm:"index;not null"`
	QuizID          uint           `json:"quiz_id" gorm:"index;not null"`
	Status          AttemptStatus  `json:"status" gorm:"type:varchar(16);not null;default:'in_progress'"`
	AnswersJSON     datatypes.JSON `json:"answers,omitempty" gorm:"column:answers_json"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	DurationSeconds int            `json:"duration_seconds"`
	Score           int            `json:"score"`
	Passed          bool           `json:"passed"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`
}

func (AnswerSubmission) TableName() string {
	return "student_answers"
}
