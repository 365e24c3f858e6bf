package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/testutil"
	"gorm.io/gorm"
)

type stubNarrator struct {
	text string
	got  NarrativeInput
}

func (n *stubNarrator) Enabled() bool { return true }

func (n *stubNarrator) Narrate(_ context.Context, in NarrativeInput) (string, error) {
	n.got = in
	return n.text, nil
}

func newResultService(db *gorm.DB, narrator ResultNarrator) ResultService {
	return NewResultService(
		repository.NewAttemptRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewResultRepository(db),
		repository.NewExamRepository(db),
		narrator,
	)
}

func TestGetResultAfterFinalize(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedReferenceThresholds(t, db)
	exam := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 2}, testutil.QuestionSpec{Difficulty: 3})
	attempt := testutil.SeedAttempt(t, db, exam.Exam.ID, "uid-1", &startedAt)
	testutil.SeedAnswer(t, db, attempt.ID, exam.Questions[0], true)
	testutil.SeedAnswer(t, db, attempt.ID, exam.Questions[1], false)

	f := newFinalizerFixture(t, db, startedAt.Add(8*time.Minute))
	if _, err := f.svc.FinalizeAttempt(context.Background(), attempt.ID, "uid-1", exam.Exam.ID); err != nil {
		t.Fatalf("FinalizeAttempt: %v", err)
	}

	narrator := &stubNarrator{text: "Kerja bagus."}
	got, err := newResultService(db, narrator).GetResult(context.Background(), attempt.ID, "uid-1", RoleSiswa, true)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.RawMetrics == nil || got.CrispValues == nil || got.Preference == nil {
		t.Fatalf("score sections missing: %+v", got)
	}
	if got.RawMetrics.JumlahBenar != 1 || got.RawMetrics.SkorKesulitan != 2 || got.RawMetrics.WaktuMenit != 8 {
		t.Errorf("raw metrics = %+v", got.RawMetrics)
	}
	if len(got.Answers) != 2 || len(got.Answers[0].Options) != 2 || got.Answers[0].QuestionText == "" {
		t.Errorf("answers = %+v", got.Answers)
	}
	if got.Feedback != "Kerja bagus." {
		t.Errorf("feedback = %q", got.Feedback)
	}
	if narrator.got.ExamTitle != exam.Exam.Title || len(narrator.got.WrongQuestions) != 1 {
		t.Errorf("narrator input = %+v", narrator.got)
	}
}

func TestGetResultUnfinishedHasNullScores(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true, testutil.QuestionSpec{Difficulty: 1})
	attempt := testutil.SeedAttempt(t, db, exam.Exam.ID, "uid-1", &startedAt)

	got, err := newResultService(db, &stubNarrator{}).GetResult(context.Background(), attempt.ID, "guru-1", "guru", true)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.RawMetrics != nil || got.CrispValues != nil || got.Preference != nil || got.Feedback != "" {
		t.Errorf("unfinished attempt returned scores: %+v", got)
	}
	if got.Answers == nil {
		t.Error("answers should be an empty list, not null")
	}
}

func TestGetResultAccessControl(t *testing.T) {
	db := testutil.NewDB(t)
	exam := testutil.SeedExam(t, db, true)
	attempt := testutil.SeedAttempt(t, db, exam.Exam.ID, "uid-1", &startedAt)
	svc := newResultService(db, &stubNarrator{})

	if _, err := svc.GetResult(context.Background(), attempt.ID, "uid-2", RoleSiswa, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("other participant: error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetResult(context.Background(), 777, "uid-1", RoleSiswa, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown attempt: error = %v, want ErrNotFound", err)
	}
}
