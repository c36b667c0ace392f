package course

import (
	"errors"

	"gorm.io/gorm"

	"learnify/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateCourse(c *models.Course) error {
	return r.db.Create(c).Error
}

func (r *Repository) GetCourse(id uint) (*models.Course, error) {
	var c models.Course
	err := r.db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.position asc")
	}).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListByInstructor(instructorID uint) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Where("instructor_id = ?", instructorID).Find(&courses).Error
	return courses, err
}

func (r *Repository) CreateLesson(l *models.Lesson) error {
	return r.db.Create(l).Error
}
