package repository

import (
	"context"

	"github.com/lshigami/cbt-saw/internal/model"
	"gorm.io/gorm"
)

type ParticipantRepository interface {
	// FindByUIDs loads every requested profile in a single query. Unknown
	// UIDs are simply absent from the result.
	FindByUIDs(ctx context.Context, uids []string) (map[string]model.Siswa, error)
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) FindByUIDs(ctx context.Context, uids []string) (map[string]model.Siswa, error) {
	out := make(map[string]model.Siswa, len(uids))
	if len(uids) == 0 {
		return out, nil
	}

	var rows []model.Siswa
	if err := r.db.WithContext(ctx).Where("user_uid IN ?", uids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserUID] = row
	}
	return out, nil
}
