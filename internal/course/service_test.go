package course

import (
	"errors"
	"testing"

	"learnify/internal/models"
)

type fakeStore struct {
	courses map[uint]*models.Course
	lessons []*models.Lesson
	nextID  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{courses: make(map[uint]*models.Course), nextID: 1}
}

func (f *fakeStore) CreateCourse(c *models.Course) error {
	c.ID = f.nextID
	f.nextID++
	f.courses[c.ID] = c
	return nil
}

func (f *fakeStore) GetCourse(id uint) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, models.ErrCourseNotFound
}

func (f *fakeStore) ListByInstructor(instructorID uint) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.courses {
		if c.InstructorID == instructorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateLesson(l *models.Lesson) error {
	l.ID = f.nextID
	f.nextID++
	f.lessons = append(f.lessons, l)
	return nil
}

func TestCreateCourseSetsInstructor(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	c := &models.Course{Title: "Go 101"}
	if err := svc.CreateCourse(c, 42); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.InstructorID != 42 {
		t.Fatalf("instructor id = %d, want 42", c.InstructorID)
	}

	mine, err := svc.ListMine(42)
	if err != nil || len(mine) != 1 {
		t.Fatalf("list mine = %v, %v", mine, err)
	}
}

func TestAddLessonOwnership(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	c := &models.Course{Title: "Go 101"}
	if err := svc.CreateCourse(c, 42); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := svc.AddLesson(c.ID, &models.Lesson{Title: "Intro"}, 7, models.RoleInstructor)
	if !errors.Is(err, models.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := svc.AddLesson(c.ID, &models.Lesson{Title: "Intro"}, 42, models.RoleInstructor); err != nil {
		t.Fatalf("owner add lesson: %v", err)
	}
	// admins may edit any course
	if err := svc.AddLesson(c.ID, &models.Lesson{Title: "Intro 2"}, 7, models.RoleAdmin); err != nil {
		t.Fatalf("admin add lesson: %v", err)
	}

	err = svc.AddLesson(999, &models.Lesson{Title: "x"}, 42, models.RoleInstructor)
	if !errors.Is(err, models.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}

	if len(store.lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(store.lessons))
	}
	if store.lessons[0].CourseID != c.ID {
		t.Fatalf("lesson course id = %d, want %d", store.lessons[0].CourseID, c.ID)
	}
}
