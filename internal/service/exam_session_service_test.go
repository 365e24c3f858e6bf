package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/testutil"
	"gorm.io/gorm"
)

func newSessionService(db *gorm.DB, now time.Time) *examSessionService {
	svc := NewExamSessionService(
		repository.NewExamRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewAnswerRepository(db),
	).(*examSessionService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStartAttemptResumesOpenAttempt(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 1})
	svc := newSessionService(db, startedAt)
	ctx := context.Background()

	first, err := svc.StartAttempt(ctx, exam.Exam.ID, "uid-1")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if first.Resumed || first.Attempt.StartedAt == nil || !first.Attempt.StartedAt.Equal(startedAt) {
		t.Fatalf("first start = %+v", first)
	}

	second, err := svc.StartAttempt(ctx, exam.Exam.ID, "uid-1")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if !second.Resumed || second.Attempt.ID != first.Attempt.ID {
		t.Fatalf("second start = %+v, want resumed attempt %d", second, first.Attempt.ID)
	}
	if n := countRows(t, db, &model.ExamAttempt{}); n != 1 {
		t.Errorf("attempt rows = %d, want 1", n)
	}
}

func TestStartAttemptRejections(t *testing.T) {
	db := testutil.NewDB(t)
	inactive := testutil.SeedExam(t, db, false)
	svc := newSessionService(db, startedAt)

	if _, err := svc.StartAttempt(context.Background(), inactive.Exam.ID, "uid-1"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("inactive exam: error = %v, want ErrInvalidState", err)
	}
	if _, err := svc.StartAttempt(context.Background(), 4242, "uid-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown exam: error = %v, want ErrNotFound", err)
	}
}

func TestGetExamQuestionsHidesCorrectness(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true,
		testutil.QuestionSpec{Difficulty: 2, PairGroup: "P1"},
		testutil.QuestionSpec{Difficulty: 3},
	)
	svc := newSessionService(db, startedAt)

	got, err := svc.GetExamQuestions(context.Background(), exam.Exam.ID)
	if err != nil {
		t.Fatalf("GetExamQuestions: %v", err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(got.Questions))
	}
	q := got.Questions[0]
	if q.ID != exam.Questions[0].ID || q.PairGroup == nil || *q.PairGroup != "P1" || len(q.Options) != 2 {
		t.Errorf("first question = %+v", q)
	}
}

func TestSubmitAnswerUpsertsAndScores(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 2, MaxPoint: 3})
	attempt := testutil.SeedAttempt(t, db, exam.Exam.ID, "uid-1", &startedAt)
	svc := newSessionService(db, startedAt.Add(time.Minute))
	ctx := context.Background()

	req := dto.SubmitAnswerRequest{AttemptID: attempt.ID, QuestionID: exam.Questions[0].ID, SelectedOptionID: &exam.WrongOption[0]}
	if _, err := svc.SubmitAnswer(ctx, "uid-1", req); err != nil {
		t.Fatalf("SubmitAnswer (wrong): %v", err)
	}
	req.SelectedOptionID = &exam.CorrectOption[0]
	if _, err := svc.SubmitAnswer(ctx, "uid-1", req); err != nil {
		t.Fatalf("SubmitAnswer (correct): %v", err)
	}

	var answers []model.StudentAnswer
	if err := db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("answer rows = %d, want 1", len(answers))
	}
	if !answers[0].IsCorrect || answers[0].AutoScore != 3 {
		t.Errorf("stored answer = %+v, want correct with auto score 3", answers[0])
	}
}

func TestSubmitAnswerRejections(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 1}, testutil.QuestionSpec{Difficulty: 1})
	other := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 1})
	open := testutil.SeedAttempt(t, db, exam.Exam.ID, "uid-1", &startedAt)
	finishedAt := startedAt.Add(time.Hour)
	closed := model.ExamAttempt{ExamID: exam.Exam.ID, UserUID: "uid-1", StartedAt: &startedAt, FinishedAt: &finishedAt}
	if err := db.Create(&closed).Error; err != nil {
		t.Fatalf("seed closed attempt: %v", err)
	}
	svc := newSessionService(db, startedAt)

	tests := []struct {
		name string
		uid  string
		req  dto.SubmitAnswerRequest
		want error
	}{
		{"finished attempt", "uid-1", dto.SubmitAnswerRequest{AttemptID: closed.ID, QuestionID: exam.Questions[0].ID}, ErrInvalidState},
		{"foreign attempt", "uid-2", dto.SubmitAnswerRequest{AttemptID: open.ID, QuestionID: exam.Questions[0].ID}, ErrNotFound},
		{"question from another exam", "uid-1", dto.SubmitAnswerRequest{AttemptID: open.ID, QuestionID: other.Questions[0].ID}, ErrInvalidInput},
		{"option from another question", "uid-1", dto.SubmitAnswerRequest{AttemptID: open.ID, QuestionID: exam.Questions[0].ID, SelectedOptionID: &exam.CorrectOption[1]}, ErrInvalidInput},
		{"unknown question", "uid-1", dto.SubmitAnswerRequest{AttemptID: open.ID, QuestionID: 9999}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitAnswer(context.Background(), tt.uid, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetExamStatus(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 1})
	svc := newSessionService(db, startedAt)
	ctx := context.Background()

	status := func() *dto.ExamStatusDTO {
		t.Helper()
		s, err := svc.GetExamStatus(ctx, exam.Exam.ID, "uid-1")
		if err != nil {
			t.Fatalf("GetExamStatus: %v", err)
		}
		return s
	}

	if s := status(); s.Status != dto.ExamStatusNotStarted || s.AttemptID != nil {
		t.Fatalf("before start = %+v", s)
	}

	started, err := svc.StartAttempt(ctx, exam.Exam.ID, "uid-1")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if s := status(); s.Status != dto.ExamStatusInProgress || *s.AttemptID != started.Attempt.ID {
		t.Fatalf("after start = %+v", s)
	}

	finished := startedAt.Add(20 * time.Minute)
	if err := db.Model(&model.ExamAttempt{}).Where("id = ?", started.Attempt.ID).Update("finished_at", finished).Error; err != nil {
		t.Fatalf("finish attempt: %v", err)
	}
	if s := status(); s.Status != dto.ExamStatusCompleted || s.FinishedAt == nil {
		t.Fatalf("after finish = %+v", s)
	}
}
