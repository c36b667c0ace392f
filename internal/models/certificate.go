package models

import "time"

// Certificate is issued once per student and quiz, on the first passed
// attempt.
type Certificate struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	Serial    string    `json:"serial" gorm:"unique;not null"`
	StudentID uint      `json:"student_id" gorm:"index;not null"`
	CourseID  uint      `json:"course_id"`
	QuizID    uint      `json:"quiz_id" gorm:"index;not null"`
	Score     int       `json:"score"`
	IssuedAt  time.Time `json:"issued_at"`
}
