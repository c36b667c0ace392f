package course

import (
	"learnify/internal/models"
)

// Store is the persistence surface the service needs; *Repository is the
// Postgres implementation.
type Store interface {
	CreateCourse(c *models.Course) error
	GetCourse(id uint) (*models.Course, error)
	ListByInstructor(instructorID uint) ([]models.Course, error)
	CreateLesson(l *models.Lesson) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateCourse(c *models.Course, instructorID uint) error {
	c.InstructorID = instructorID
	return s.store.CreateCourse(c)
}

func (s *Service) ListMine(instructorID uint) ([]models.Course, error) {
	return s.store.ListByInstructor(instructorID)
}

// AddLesson appends a lesson to a course the caller owns.
func (s *Service) AddLesson(courseID uint, l *models.Lesson, userID uint, role models.Role) error {
	c, err := s.store.GetCourse(courseID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && c.InstructorID != userID {
		return models.ErrNotOwner
	}
	l.CourseID = courseID
	return s.store.CreateLesson(l)
}
