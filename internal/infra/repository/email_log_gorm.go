package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type EmailLogGormRepository struct {
	db *gorm.DB
}

func NewEmailLogGormRepository(db *gorm.DB) *EmailLogGormRepository {
	return &EmailLogGormRepository{db: db}
}

func (r *EmailLogGormRepository) Create(ctx context.Context, l model.EmailLog) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		return 0, err
	}
	return l.ID, nil
}

func (r *EmailLogGormRepository) Update(ctx context.Context, id int64, status model.EmailStatus, attempts int, lastError string) error {
	res := r.db.WithContext(ctx).Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"attempts":   attempts,
			"last_error": lastError,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *EmailLogGormRepository) List(ctx context.Context, page int, limit int) ([]model.EmailLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.EmailLog{}).Count(&total).Error; err != nil {
		return []model.EmailLog{}, 0, err
	}

	var items []model.EmailLog
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.EmailLog{}, 0, err
	}

	return items, total, nil
}
