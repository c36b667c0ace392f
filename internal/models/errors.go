package models

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question id does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrCourseNotFound indicates the course id does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrAttemptNotFound is returned when a student submits without an
	// in-progress attempt.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptExpired is returned when elapsed time exceeds the quiz
	// duration limit at submit time. The attempt is finalized as expired.
	ErrAttemptExpired = errors.New("attempt window expired")
	// ErrInvalidWindow is returned when an attempt's end time precedes its
	// start time.
	ErrInvalidWindow = errors.New("attempt end time precedes start time")
	// ErrMalformedSubmission is returned when a stored answer payload cannot
	// be decoded.
	ErrMalformedSubmission = errors.New("malformed answer payload")
	// ErrUnknownOption is returned when a submitted label names no option of
	// the question.
	ErrUnknownOption = errors.New("unknown option label")
	// ErrNotOwner is returned when a mutation is attempted by someone other
	// than the course's instructor.
	ErrNotOwner = errors.New("not the course owner")
	// ErrUserExists is returned on duplicate registration.
	ErrUserExists = errors.New("user already exists")
)
