package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	InstructorID uint           `json:"instructor_id" gorm:"index;not null"`
	Lessons      []Lesson       `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

type Lesson struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Position  int            `json:"position"`
}
