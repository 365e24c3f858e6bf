package dto

import "time"

// --- Requests ---

type StartExamRequest struct {
	ExamID uint `json:"exam_id" binding:"required"`
}

// SubmitAnswerRequest stores or overwrites the answer to one question.
type SubmitAnswerRequest struct {
	AttemptID        uint    `json:"attempt_id" binding:"required"`
	QuestionID       uint    `json:"question_id" binding:"required"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	AnswerText       *string `json:"answer_text"`
}

type FinishExamRequest struct {
	AttemptID uint `json:"attempt_id" binding:"required"`
	ExamID    uint `json:"exam_id" binding:"required"`
}

// --- Responses ---

type AttemptDTO struct {
	ID         uint       `json:"id"`
	ExamID     uint       `json:"exam_id"`
	UserUID    string     `json:"user_uid"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

type StartAttemptDTO struct {
	Attempt AttemptDTO `json:"attempt"`
	Resumed bool       `json:"resumed"`
}

// OptionDTO never carries correctness.
type OptionDTO struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
}

type ExamQuestionDTO struct {
	ID              uint        `json:"id"`
	QuestionText    string      `json:"question_text"`
	QuestionType    string      `json:"question_type"`
	DifficultyLevel int         `json:"difficulty_level"`
	PairGroup       *string     `json:"pair_group,omitempty"`
	OrderInExam     int         `json:"order_in_exam"`
	Options         []OptionDTO `json:"options"`
}

type ExamQuestionsDTO struct {
	ExamID          uint              `json:"exam_id"`
	Title           string            `json:"title"`
	DurationMinutes int               `json:"duration_minutes"`
	Questions       []ExamQuestionDTO `json:"questions"`
}

type SavedAnswerDTO struct {
	AttemptID        uint      `json:"attempt_id"`
	QuestionID       uint      `json:"question_id"`
	SelectedOptionID *uint     `json:"selected_option_id,omitempty"`
	AnswerText       *string   `json:"answer_text,omitempty"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// Exam status values.
const (
	ExamStatusNotStarted = "not_started"
	ExamStatusInProgress = "in_progress"
	ExamStatusCompleted  = "completed"
)

type ExamStatusDTO struct {
	ExamID     uint       `json:"exam_id"`
	Status     string     `json:"status"`
	AttemptID  *uint      `json:"attempt_id,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
