package models

// Read-side projections. The student-facing variants never carry the
// correct option label.

type QuizDTO struct {
	ID              uint          `json:"id"`
	Title           string        `json:"title"`
	LessonID        uint          `json:"lesson_id"`
	CourseID        uint          `json:"course_id"`
	DurationSeconds int           `json:"duration_seconds"`
	TotalMarks      int           `json:"total_marks"`
	PassingScore    int           `json:"passing_score"`
	Questions       []QuestionDTO `json:"questions"`
}

type QuestionDTO struct {
	ID           uint        `json:"id"`
	Text         string      `json:"text"`
	Position     int         `json:"position"`
	Options      []OptionDTO `json:"options"`
	CorrectLabel string      `json:"correct_label,omitempty"` // owner only
}

type OptionDTO struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

func (q Question) ToDTO(includeAnswers bool) QuestionDTO {
	optionDTOs := make([]OptionDTO, len(q.Options))
	for i, opt := range q.Options {
		optionDTOs[i] = OptionDTO{
			ID:    opt.ID,
			Label: opt.Label,
			Text:  opt.Text,
		}
	}

	dto := QuestionDTO{
		ID:       q.ID,
		Text:     q.Text,
		Position: q.Position,
		Options:  optionDTOs,
	}
	if includeAnswers {
		dto.CorrectLabel = q.CorrectLabel
	}
	return dto
}

func (qz Quiz) ToDTO(includeAnswers bool) QuizDTO {
	questionDTOs := make([]QuestionDTO, len(qz.Questions))
	for i, q := range qz.Questions {
		questionDTOs[i] = q.ToDTO(includeAnswers)
	}
	return QuizDTO{
		ID:              qz.ID,
		Title:           qz.Title,
		LessonID:        qz.LessonID,
		CourseID:        qz.CourseID,
		DurationSeconds: qz.DurationSeconds,
		TotalMarks:      qz.TotalMarks,
		PassingScore:    qz.PassingScore,
		Questions:       questionDTOs,
	}
}
