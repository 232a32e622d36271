package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingGormRepository struct {
	db *gorm.DB
}

func NewSettingGormRepository(db *gorm.DB) *SettingGormRepository {
	return &SettingGormRepository{db: db}
}

func (r *SettingGormRepository) Get(ctx context.Context, key string) (model.Setting, error) {
	var s model.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Setting{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Setting{}, err
	}
	return s, nil
}

// upsert
func (r *SettingGormRepository) Set(ctx context.Context, key string, value string) error {
	s := model.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&s).Error
}

func (r *SettingGormRepository) List(ctx context.Context) ([]model.Setting, error) {
	var items []model.Setting

	if err := r.db.WithContext(ctx).Order("key asc").Find(&items).Error; err != nil {
		return []model.Setting{}, err
	}

	return items, nil
}

func (r *SettingGormRepository) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.Setting{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
