package quiz

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"learnify/internal/models"
	"learnify/pkg/cache"
	"learnify/pkg/websocket"
)

// Store is the persistence surface the service needs. *Repository is the
// Postgres implementation; tests supply an in-memory fake.
type Store interface {
	CreateQuiz(qz *models.Quiz) error
	UpdateQuiz(qz *models.Quiz) error
	GetQuizByID(id uint) (*models.Quiz, error)
	IsCourseOwner(courseID, instructorID uint) (bool, error)

	GetQuestion(id uint) (*models.Question, error)
	CreateQuestion(q *models.Question) error
	UpdateQuestion(q *models.Question) error
	DeleteQuestion(id uint) error
	ReplaceOptions(questionID uint, opts []models.Option) error

	CreateSubmission(sub *models.AnswerSubmission) error
	UpdateSubmission(sub *models.AnswerSubmission) error
	GetInProgressSubmission(quizID, studentID uint) (*models.AnswerSubmission, error)
	ListSubmissions(quizID uint) ([]models.AnswerSubmission, error)
	GetLeaderboard(quizID uint) ([]models.LeaderboardEntry, error)

	CreateCertificate(cert *models.Certificate) error
	HasCertificate(studentID, quizID uint) (bool, error)
	ListCertificates(studentID uint) ([]models.Certificate, error)
}

type Service struct {
	store Store
	cache *cache.RedisCache
	hub   *websocket.Hub
	now   func() time.Time
	sf    singleflight.Group
}

// NewService wires the quiz use cases. cache and hub may be nil; caching and
// live events are then skipped.
func NewService(store Store, cache *cache.RedisCache, hub *websocket.Hub) *Service {
	return &Service{
		store: store,
		cache: cache,
		hub:   hub,
		now:   time.Now,
	}
}

// GetQuiz reads through the cache, falling back to the store. Concurrent
// misses for the same quiz are collapsed into a single store load.
func (s *Service) GetQuiz(id uint) (*models.Quiz, error) {
	if s.cache != nil {
		if qz, err := s.cache.GetQuiz(id); err == nil {
			return qz, nil
		}
	}

	v, err, _ := s.sf.Do(fmt.Sprintf("quiz:%d", id), func() (interface{}, error) {
		qz, err := s.store.GetQuizByID(id)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetQuiz(qz); err != nil {
				log.Printf("Error caching quiz %d: %v", id, err)
			}
		}
		return qz, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Quiz), nil
}

// GetQuizForViewer projects a quiz for the requesting user. Correct option
// labels are only included for the owning instructor or an admin.
func (s *Service) GetQuizForViewer(id, viewerID uint, role models.Role) (models.QuizDTO, error) {
	qz, err := s.GetQuiz(id)
	if err != nil {
		return models.QuizDTO{}, err
	}

	includeAnswers := false
	if role == models.RoleAdmin {
		includeAnswers = true
	} else if role == models.RoleInstructor {
		owns, err := s.store.IsCourseOwner(qz.CourseID, viewerID)
		if err != nil {
			return models.QuizDTO{}, err
		}
		includeAnswers = owns
	}
	return qz.ToDTO(includeAnswers), nil
}

// IsOwner reports whether the user may mutate or inspect the quiz's
// attempts. Admins always may.
func (s *Service) IsOwner(qz *models.Quiz, userID uint, role models.Role) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}
	if role != models.RoleInstructor {
		return false, nil
	}
	return s.store.IsCourseOwner(qz.CourseID, userID)
}

func (s *Service) ensureOwner(courseID, userID uint, role models.Role) error {
	if role == models.RoleAdmin {
		return nil
	}
	owns, err := s.store.IsCourseOwner(courseID, userID)
	if err != nil {
		return err
	}
	if !owns {
		return models.ErrNotOwner
	}
	return nil
}

// CreateQuiz persists a quiz with its nested questions. Every question's
// correct label must name one of its options.
func (s *Service) CreateQuiz(qz *models.Quiz, userID uint, role models.Role) error {
	if err := s.ensureOwner(qz.CourseID, userID, role); err != nil {
		return err
	}
	for i := range qz.Questions {
		if !qz.Questions[i].HasOption(qz.Questions[i].CorrectLabel) {
			return models.ErrUnknownOption
		}
	}
	if err := s.store.CreateQuiz(qz); err != nil {
		return err
	}
	s.invalidate(qz.ID)
	return nil
}

func (s *Service) AddQuestion(quizID uint, q *models.Question, userID uint, role models.Role) error {
	qz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if err := s.ensureOwner(qz.CourseID, userID, role); err != nil {
		return err
	}
	if !q.HasOption(q.CorrectLabel) {
		return models.ErrUnknownOption
	}
	q.QuizID = quizID
	if err := s.store.CreateQuestion(q); err != nil {
		return err
	}
	s.invalidate(quizID)
	return nil
}

// UpdateQuestion replaces the question text and option set.
func (s *Service) UpdateQuestion(questionID uint, text string, opts []models.Option, correctLabel string, userID uint, role models.Role) error {
	q, qz, err := s.ownedQuestion(questionID, userID, role)
	if err != nil {
		return err
	}

	found := false
	for _, opt := range opts {
		if opt.Label == correctLabel {
			found = true
			break
		}
	}
	if !found {
		return models.ErrUnknownOption
	}

	if err := s.store.ReplaceOptions(questionID, opts); err != nil {
		return err
	}
	q.Text = text
	q.CorrectLabel = correctLabel
	q.Options = nil
	if err := s.store.UpdateQuestion(q); err != nil {
		return err
	}
	s.invalidate(qz.ID)
	return nil
}

func (s *Service) DeleteQuestion(questionID, userID uint, role models.Role) error {
	_, qz, err := s.ownedQuestion(questionID, userID, role)
	if err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(questionID); err != nil {
		return err
	}
	s.invalidate(qz.ID)
	return nil
}

// SetCorrectOption re-keys a question to a different option label.
func (s *Service) SetCorrectOption(questionID uint, label string, userID uint, role models.Role) error {
	q, qz, err := s.ownedQuestion(questionID, userID, role)
	if err != nil {
		return err
	}
	if !q.HasOption(label) {
		return models.ErrUnknownOption
	}
	q.CorrectLabel = label
	if err := s.store.UpdateQuestion(q); err != nil {
		return err
	}
	s.invalidate(qz.ID)
	return nil
}

func (s *Service) ownedQuestion(questionID, userID uint, role models.Role) (*models.Question, *models.Quiz, error) {
	q, err := s.store.GetQuestion(questionID)
	if err != nil {
		return nil, nil, err
	}
	qz, err := s.store.GetQuizByID(q.QuizID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ensureOwner(qz.CourseID, userID, role); err != nil {
		return nil, nil, err
	}
	return q, qz, nil
}

// StartAttempt opens an attempt with a server-side start time. Starting
// while a live attempt is in progress returns that attempt unchanged, so a
// page reload cannot reset the clock. An open attempt whose window has
// already lapsed is expired and replaced with a fresh one.
func (s *Service) StartAttempt(quizID, studentID uint) (*models.AnswerSubmission, error) {
	qz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	if sub, err := s.store.GetInProgressSubmission(quizID, studentID); err == nil {
		if validateWindow(sub.StartTime, s.now(), qz.DurationSeconds) == nil {
			return sub, nil
		}
		if err := s.expireAttempt(sub); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, models.ErrAttemptNotFound) {
		return nil, err
	}

	sub := &models.AnswerSubmission{
		StudentID: studentID,
		QuizID:    quizID,
		Status:    models.AttemptInProgress,
		StartTime: s.now(),
	}
	if err := s.store.CreateSubmission(sub); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(qz.ID, "attempt_started", map[string]interface{}{
			"attempt_id": sub.ID,
			"student_id": studentID,
			"start_time": sub.StartTime,
		})
	}
	return sub, nil
}

// SubmitAttempt finalizes the student's in-progress attempt. The end time is
// taken server-side; client timestamps and durations are never trusted. A
// submit past the quiz's duration limit expires the attempt, so the student
// can start over rather than being stuck on a dead row.
func (s *Service) SubmitAttempt(quizID, studentID uint, answers map[uint]string) (Result, error) {
	qz, err := s.GetQuiz(quizID)
	if err != nil {
		return Result{}, err
	}

	sub, err := s.store.GetInProgressSubmission(quizID, studentID)
	if err != nil {
		return Result{}, err
	}

	end := s.now()
	if werr := validateWindow(sub.StartTime, end, qz.DurationSeconds); werr != nil {
		if errors.Is(werr, models.ErrAttemptExpired) {
			if err := s.expireAttempt(sub); err != nil {
				return Result{}, err
			}
		}
		return Result{}, werr
	}

	raw, err := encodeAnswers(answers)
	if err != nil {
		return Result{}, err
	}

	res := Grade(qz, answers)

	sub.Status = models.AttemptSubmitted
	sub.AnswersJSON = raw
	sub.EndTime = &end
	sub.DurationSeconds = int(end.Sub(sub.StartTime) / time.Second)
	sub.Score = res.Score
	sub.Passed = res.Passed
	sub.SubmittedAt = &end
	if err := s.store.UpdateSubmission(sub); err != nil {
		return Result{}, err
	}

	if res.Passed {
		if err := s.issueCertificate(qz, sub); err != nil {
			log.Printf("Error issuing certificate for student %d quiz %d: %v", studentID, quizID, err)
		}
	}

	s.refreshLeaderboard(qz.ID)

	if s.hub != nil {
		s.hub.Broadcast(qz.ID, "attempt_submitted", map[string]interface{}{
			"attempt_id": sub.ID,
			"student_id": studentID,
			"score":      res.Score,
			"passed":     res.Passed,
		})
	}
	return res, nil
}

// expireAttempt closes out an attempt whose window lapsed without a valid
// submit. Expired is terminal and scores zero; the student's next start
// opens a fresh attempt.
func (s *Service) expireAttempt(sub *models.AnswerSubmission) error {
	end := s.now()
	sub.Status = models.AttemptExpired
	sub.EndTime = &end
	sub.DurationSeconds = int(end.Sub(sub.StartTime) / time.Second)
	return s.store.UpdateSubmission(sub)
}

// issueCertificate creates one certificate per student and quiz. Re-passing
// does not duplicate.
func (s *Service) issueCertificate(qz *models.Quiz, sub *models.AnswerSubmission) error {
	has, err := s.store.HasCertificate(sub.StudentID, qz.ID)
	if err != nil || has {
		return err
	}
	return s.store.CreateCertificate(&models.Certificate{
		Serial:    uuid.NewString(),
		StudentID: sub.StudentID,
		CourseID:  qz.CourseID,
		QuizID:    qz.ID,
		Score:     sub.Score,
		IssuedAt:  s.now(),
	})
}

// GetLeaderboard reads the cached scoreboard, recomputing from the store on
// a miss.
func (s *Service) GetLeaderboard(quizID uint) ([]models.LeaderboardEntry, error) {
	if _, err := s.GetQuiz(quizID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if entries, err := s.cache.GetLeaderboard(quizID); err == nil && len(entries) > 0 {
			return entries, nil
		}
	}

	entries, err := s.store.GetLeaderboard(quizID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetLeaderboard(quizID, entries); err != nil {
			log.Printf("Error caching leaderboard for quiz %d: %v", quizID, err)
		}
	}
	return entries, nil
}

func (s *Service) ListAttempts(quizID, userID uint, role models.Role) ([]models.AnswerSubmission, error) {
	qz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	owns, err := s.IsOwner(qz, userID, role)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, models.ErrNotOwner
	}
	return s.store.ListSubmissions(quizID)
}

func (s *Service) ListCertificates(studentID uint) ([]models.Certificate, error) {
	return s.store.ListCertificates(studentID)
}

// DecodeSubmissionAnswers exposes the stored answer payload of an attempt,
// failing with ErrMalformedSubmission on undecodable rows.
func (s *Service) DecodeSubmissionAnswers(sub *models.AnswerSubmission) (map[uint]string, error) {
	return decodeAnswers(sub.AnswersJSON)
}

func (s *Service) refreshLeaderboard(quizID uint) {
	if s.cache == nil {
		return
	}
	entries, err := s.store.GetLeaderboard(quizID)
	if err != nil {
		log.Printf("Error refreshing leaderboard for quiz %d: %v", quizID, err)
		return
	}
	if err := s.cache.SetLeaderboard(quizID, entries); err != nil {
		log.Printf("Error caching leaderboard for quiz %d: %v", quizID, err)
	}
}

func (s *Service) invalidate(quizID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateQuiz(quizID); err != nil {
		log.Printf("Error invalidating quiz %d cache: %v", quizID, err)
	}
}
