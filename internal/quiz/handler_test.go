package quiz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnify/internal/auth"
	"learnify/internal/models"
)

func newTestRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/quiz/{id}", h.GetQuiz).Methods("GET")
	router.HandleFunc("/api/quiz/{id}/start", h.StartAttempt).Methods("POST")
	router.HandleFunc("/api/quiz/{id}/submit", h.SubmitAttempt).Methods("POST")
	router.HandleFunc("/api/quiz/{id}/leaderboard", h.GetLeaderboard).Methods("GET")
	return router
}

func doRequest(router *mux.Router, method, target, body string, userID uint, role models.Role) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), userID, role))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitEndpoint(t *testing.T) {
	svc, store, _ := newTestService(t)
	qz := seedQuiz(t, store, 600, 70)
	router := newTestRouter(NewHandler(svc, nil))

	rec := doRequest(router, "POST", "/api/quiz/1/start", "", studentID, models.RoleStudent)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "POST", "/api/quiz/1/submit",
		`{"answers":{"101":"a","102":"b","103":"c","104":"d"}}`, studentID, models.RoleStudent)
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, len(qz.Questions), res.Total)
}

func TestSubmitEndpointUnknownQuiz(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newTestRouter(NewHandler(svc, nil))

	rec := doRequest(router, "POST", "/api/quiz/99/submit", `{"answers":{}}`, studentID, models.RoleStudent)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitEndpointWithoutStart(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedQuiz(t, store, 600, 70)
	router := newTestRouter(NewHandler(svc, nil))

	rec := doRequest(router, "POST", "/api/quiz/1/submit", `{"answers":{}}`, studentID, models.RoleStudent)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitEndpointExpired(t *testing.T) {
	svc, store, clock := newTestService(t)
	seedQuiz(t, store, 60, 70)
	router := newTestRouter(NewHandler(svc, nil))

	rec := doRequest(router, "POST", "/api/quiz/1/start", "", studentID, models.RoleStudent)
	require.Equal(t, http.StatusOK, rec.Code)

	*clock = clock.Add(2 * time.Minute)
	rec = doRequest(router, "POST", "/api/quiz/1/submit", `{"answers":{}}`, studentID, models.RoleStudent)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// the expired attempt must not block a new start/submit cycle
	rec = doRequest(router, "POST", "/api/quiz/1/start", "", studentID, models.RoleStudent)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(router, "POST", "/api/quiz/1/submit", `{"answers":{}}`, studentID, models.RoleStudent)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetQuizStripsAnswersForStudents(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedQuiz(t, store, 600, 70)
	router := newTestRouter(NewHandler(svc, nil))

	rec := doRequest(router, "GET", "/api/quiz/1", "", studentID, models.RoleStudent)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct_label")

	rec = doRequest(router, "GET", "/api/quiz/1", "", instructorID, models.RoleInstructor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "correct_label")
}
