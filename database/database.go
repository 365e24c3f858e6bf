package database

import (
	"fmt"

	"github.com/lshigami/cbt-saw/config"
	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig is shared by every store the service opens. TranslateError lets
// callers match gorm.ErrDuplicatedKey on unique index violations.
func GormConfig(l gormlogger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:         l,
		TranslateError: true,
	}
}

func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), GormConfig(NewGormLogger(cfg.Database.SlowSQL)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Connected to database")
	return db, nil
}

// Models lists every table owned or read by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Exam{},
		&model.Question{},
		&model.QuestionOption{},
		&model.ExamAttempt{},
		&model.StudentAnswer{},
		&model.Siswa{},
		&model.CriterionThreshold{},
		&model.HasilCBT{},
		&model.NilaiSAW{},
		&model.RankingSAW{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
