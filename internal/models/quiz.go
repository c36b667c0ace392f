package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Title           string         `json:"title" gorm:"not null"`
	LessonID        uint           `json:"lesson_id" gorm:"index"`
	CourseID        uint           `json:"course_id" gorm:"index;not null"`
	DurationSeconds int            `json:"duration_seconds"` // 0 means untimed
	TotalMarks      int            `json:"total_marks"`
	PassingScore    int            `json:"passing_score"` // percentage, 0-100
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	QuizID       uint           `json:"quiz_id" gorm:"index;not null"`
	Text         string         `json:"text" gorm:"not null"`
	Position     int            `json:"position"`
	Options      []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CorrectLabel string         `json:"correct_label" gorm:"not null"`
}

// Option labels follow the "a", "b", "c", ... convention and are unique
// within a question.
type Option struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	QuestionID uint           `json:"question_id" gorm:"index;not null"`
	Label      string         `json:"label" gorm:"not null"`
	Text       string         `json:"text" gorm:"not null"`
}

// HasOption reports whether label names one of the question's options.
func (q *Question) HasOption(label string) bool {
	for _, opt := range q.Options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

type LeaderboardEntry struct {
	StudentID uint   `json:"student_id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
}
