package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"learnify/internal/auth"
	"learnify/internal/models"
	"learnify/pkg/websocket"
)

type Handler struct {
	service  *Service
	hub      *websocket.Hub
	validate *validator.Validate
}

func NewHandler(service *Service, hub *websocket.Hub) *Handler {
	return &Handler{
		service:  service,
		hub:      hub,
		validate: validator.New(),
	}
}

type OptionRequest struct {
	Label string `json:"label" validate:"required,max=8"`
	Text  string `json:"text" validate:"required"`
}

type QuestionRequest struct {
	Text         string          `json:"text" validate:"required"`
	Position     int             `json:"position"`
	Options      []OptionRequest `json:"options" validate:"required,min=2,dive"`
	CorrectLabel string          `json:"correct_label" validate:"required"`
}

type CreateQuizRequest struct {
	Title           string            `json:"title" validate:"required"`
	LessonID        uint              `json:"lesson_id"`
	CourseID        uint              `json:"course_id" validate:"required"`
	DurationSeconds int               `json:"duration_seconds" validate:"gte=0"`
	TotalMarks      int               `json:"total_marks" validate:"gte=0"`
	PassingScore    int               `json:"passing_score" validate:"gte=0,lte=100"`
	Questions       []QuestionRequest `json:"questions" validate:"dive"`
}

type SetCorrectOptionRequest struct {
	Label string `json:"label" validate:"required"`
}

type SubmitRequest struct {
	Answers map[uint]string `json:"answers"`
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	qz := req.toModel()
	if err := h.service.CreateQuiz(qz, userID, auth.UserRole(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(qz.ToDTO(true))
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	dto, err := h.service.GetQuizForViewer(quizID, userID, auth.UserRole(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(dto)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := req.toModel()
	if err := h.service.AddQuestion(quizID, q, userID, auth.UserRole(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(q.ToDTO(true))
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	questionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := make([]models.Option, len(req.Options))
	for i, o := range req.Options {
		opts[i] = models.Option{Label: o.Label, Text: o.Text}
	}
	err = h.service.UpdateQuestion(questionID, req.Text, opts, req.CorrectLabel, userID, auth.UserRole(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	questionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteQuestion(questionID, userID, auth.UserRole(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetCorrectOption(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	questionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req SetCorrectOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SetCorrectOption(questionID, req.Label, userID, auth.UserRole(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	sub, err := h.service.StartAttempt(quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"attempt_id": sub.ID,
		"start_time": sub.StartTime,
	})
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.service.SubmitAttempt(quizID, userID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(res)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	subs, err := h.service.ListAttempts(quizID, userID, auth.UserRole(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(subs)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	entries, err := h.service.GetLeaderboard(quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(entries)
}

func (h *Handler) GetMyCertificates(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	certs, err := h.service.ListCertificates(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(certs)
}

// WatchQuiz upgrades instructors to the live attempt feed of a quiz they
// own.
func (h *Handler) WatchQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	qz, err := h.service.GetQuiz(quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	owns, err := h.service.IsOwner(qz, userID, auth.UserRole(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if !owns {
		http.Error(w, models.ErrNotOwner.Error(), http.StatusForbidden)
		return
	}

	h.hub.Serve(w, r, quizID, userID)
}

func (req CreateQuizRequest) toModel() *models.Quiz {
	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = *q.toModel()
	}
	return &models.Quiz{
		Title:           req.Title,
		LessonID:        req.LessonID,
		CourseID:        req.CourseID,
		DurationSeconds: req.DurationSeconds,
		TotalMarks:      req.TotalMarks,
		PassingScore:    req.PassingScore,
		Questions:       questions,
	}
}

func (req QuestionRequest) toModel() *models.Question {
	opts := make([]models.Option, len(req.Options))
	for i, o := range req.Options {
		opts[i] = models.Option{Label: o.Label, Text: o.Text}
	}
	return &models.Question{
		Text:         req.Text,
		Position:     req.Position,
		Options:      opts,
		CorrectLabel: req.CorrectLabel,
	}
}

func pathID(r *http.Request, key string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[key], 10, 32)
	return uint(id), err
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrQuizNotFound),
		errors.Is(err, models.ErrQuestionNotFound),
		errors.Is(err, models.ErrCourseNotFound),
		errors.Is(err, models.ErrAttemptNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrAttemptExpired),
		errors.Is(err, models.ErrInvalidWindow):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrUnknownOption),
		errors.Is(err, models.ErrMalformedSubmission):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
