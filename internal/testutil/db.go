// Package testutil provides an in-memory store and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/cbt-saw/database"
	"github.com/lshigami/cbt-saw/internal/model"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that lives as long as the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(gormlogger.Default.LogMode(gormlogger.Silent)))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t testing.TB, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// SeedReferenceThresholds inserts the four criterion tables used throughout
// the tests. Passing criteria limits the seed to those tables.
func SeedReferenceThresholds(t testing.TB, db *gorm.DB, criteria ...string) {
	t.Helper()
	tables := map[string][][3]int{
		"c1": {{0, 2, 2}, {3, 4, 4}, {5, 100, 5}},
		"c2": {{0, 4, 1}, {5, 6, 3}, {7, 100, 5}},
		"c3": {{0, 0, 0}, {1, 2, 3}, {3, 100, 5}},
		"c4": {{0, 15, 1}, {16, 30, 3}, {31, 600, 5}},
	}
	if len(criteria) == 0 {
		criteria = []string{"c1", "c2", "c3", "c4"}
	}
	for _, c := range criteria {
		for i, r := range tables[c] {
			mustCreate(t, db, &model.CriterionThreshold{
				Criterion: c,
				SortOrder: i,
				MinValue:  r[0],
				MaxValue:  r[1],
				Bobot:     r[2],
			})
		}
	}
}

// QuestionSpec describes a seeded question with one correct and one wrong option.
type QuestionSpec struct {
	Difficulty int
	PairGroup  string
	MaxPoint   float64
}

// SeededExam holds the IDs created by SeedExam.
type SeededExam struct {
	Exam      model.Exam
	Questions []model.Question
	// CorrectOption and WrongOption are indexed like Questions.
	CorrectOption []uint
	WrongOption   []uint
}

func SeedExam(t testing.TB, db *gorm.DB, active bool, specs ...QuestionSpec) SeededExam {
	t.Helper()
	exam := model.Exam{Title: "Ujian Matematika", DurationMinutes: 60, IsActive: true}
	mustCreate(t, db, &exam)
	if !active {
		if err := db.Model(&exam).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate exam: %v", err)
		}
		exam.IsActive = false
	}

	seeded := SeededExam{Exam: exam}
	for i, qs := range specs {
		q := model.Question{
			ExamID:          exam.ID,
			QuestionText:    "Soal nomor " + string(rune('A'+i)),
			DifficultyLevel: qs.Difficulty,
			OrderInExam:     i + 1,
		}
		if qs.PairGroup != "" {
			g := qs.PairGroup
			q.PairGroup = &g
		}
		if qs.MaxPoint > 0 {
			p := qs.MaxPoint
			q.MaxPoint = &p
		}
		mustCreate(t, db, &q)

		right := model.QuestionOption{QuestionID: q.ID, OptionText: "benar", IsCorrect: true}
		wrong := model.QuestionOption{QuestionID: q.ID, OptionText: "salah"}
		mustCreate(t, db, &right)
		mustCreate(t, db, &wrong)

		seeded.Questions = append(seeded.Questions, q)
		seeded.CorrectOption = append(seeded.CorrectOption, right.ID)
		seeded.WrongOption = append(seeded.WrongOption, wrong.ID)
	}
	return seeded
}

// SeedAttempt creates an open attempt; a nil startedAt leaves it unset.
func SeedAttempt(t testing.TB, db *gorm.DB, examID uint, userUID string, startedAt *time.Time) model.ExamAttempt {
	t.Helper()
	a := model.ExamAttempt{ExamID: examID, UserUID: userUID, StartedAt: startedAt}
	mustCreate(t, db, &a)
	return a
}

// SeedAnswer records an answer directly, bypassing option lookup.
func SeedAnswer(t testing.TB, db *gorm.DB, attemptID uint, q model.Question, correct bool) {
	t.Helper()
	score := 0.0
	if correct {
		score = q.Point()
	}
	mustCreate(t, db, &model.StudentAnswer{
		AttemptID:  attemptID,
		QuestionID: q.ID,
		IsCorrect:  correct,
		AutoScore:  score,
		AnsweredAt: time.Now().UTC(),
	})
}

func SeedSiswa(t testing.TB, db *gorm.DB, uid, nama, nis, kelas string) {
	t.Helper()
	mustCreate(t, db, &model.Siswa{UserUID: uid, Nama: nama, NIS: nis, Kelas: kelas})
}

// SeedPreference inserts a finished attempt with only its preference result.
func SeedPreference(t testing.TB, db *gorm.DB, examID uint, userUID string, konversi float64, status string) model.RankingSAW {
	t.Helper()
	now := time.Now().UTC()
	a := model.ExamAttempt{ExamID: examID, UserUID: userUID, StartedAt: &now, FinishedAt: &now}
	mustCreate(t, db, &a)
	row := model.RankingSAW{
		AttemptID:       a.ID,
		ExamID:          examID,
		UserUID:         userUID,
		NilaiPreferensi: konversi / 100,
		NilaiKonversi:   konversi,
		Status:          status,
	}
	mustCreate(t, db, &row)
	return row
}
