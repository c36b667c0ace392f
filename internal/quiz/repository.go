package quiz

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"learnify/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateQuiz(qz *models.Quiz) error {
	if err := r.db.Create(qz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return err
	}
	return nil
}

func (r *Repository) UpdateQuiz(qz *models.Quiz) error {
	return r.db.Save(qz).Error
}

func (r *Repository) GetQuizByID(id uint) (*models.Quiz, error) {
	var qz models.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position asc, questions.id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.label asc")
		}).
		First(&qz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrQuizNotFound
		}
		return nil, err
	}
	return &qz, nil
}

// IsCourseOwner is the authorization predicate behind every authoring
// mutation.
func (r *Repository) IsCourseOwner(courseID, instructorID uint) (bool, error) {
	var course models.Course
	err := r.db.Select("instructor_id").First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.ErrCourseNotFound
		}
		return false, err
	}
	return course.InstructorID == instructorID, nil
}

func (r *Repository) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.Preload("Options").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (r *Repository) CreateQuestion(q *models.Question) error {
	return r.db.Create(q).Error
}

func (r *Repository) UpdateQuestion(q *models.Question) error {
	return r.db.Save(q).Error
}

func (r *Repository) DeleteQuestion(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}

// ReplaceOptions swaps a question's option set in one transaction so a
// concurrent read never sees a half-edited question.
func (r *Repository) ReplaceOptions(questionID uint, opts []models.Option) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if len(opts) == 0 {
			return nil
		}
		for i := range opts {
			opts[i].QuestionID = questionID
		}
		return tx.Create(&opts).Error
	})
}

func (r *Repository) CreateSubmission(sub *models.AnswerSubmission) error {
	return r.db.Create(sub).Error
}

func (r *Repository) UpdateSubmission(sub *models.AnswerSubmission) error {
	return r.db.Save(sub).Error
}

func (r *Repository) GetInProgressSubmission(quizID, studentID uint) (*models.AnswerSubmission, error) {
	var sub models.AnswerSubmission
	err := r.db.
		Where("quiz_id = ? AND student_id = ? AND status = ?", quizID, studentID, models.AttemptInProgress).
		Order("start_time desc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAttemptNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) ListSubmissions(quizID uint) ([]models.AnswerSubmission, error) {
	var subs []models.AnswerSubmission
	err := r.db.
		Where("quiz_id = ?", quizID).
		Order("start_time desc").
		Find(&subs).Error
	return subs, err
}

// GetLeaderboard ranks students by their best submitted score for a quiz.
func (r *Repository) GetLeaderboard(quizID uint) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.Raw(`
        SELECT u.id AS student_id, u.username, MAX(sa.score) AS score
        FROM users u
        JOIN student_answers sa ON u.id = sa.student_id
        WHERE sa.quiz_id = ? AND sa.status = ?
        GROUP BY u.id, u.username
        ORDER BY score DESC
    `, quizID, models.AttemptSubmitted).Scan(&entries).Error
	if err != nil {
		log.Printf("Error getting leaderboard: %v", err)
		return nil, err
	}
	return entries, nil
}

func (r *Repository) CreateCertificate(cert *models.Certificate) error {
	return r.db.Create(cert).Error
}

func (r *Repository) HasCertificate(studentID, quizID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Certificate{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ListCertificates(studentID uint) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.
		Where("student_id = ?", studentID).
		Order("issued_at desc").
		Find(&certs).Error
	return certs, err
}
