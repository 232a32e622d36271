package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) Create(ctx context.Context, n model.Notification) error {
	return r.db.WithContext(ctx).Create(&n).Error
}

func (r *NotificationGormRepository) FindByID(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Notification{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

func (r *NotificationGormRepository) List(ctx context.Context, f repo.NotificationListFilter) ([]model.Notification, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}

	q := r.db.WithContext(ctx).Model(&model.Notification{})

	if f.Read != nil {
		q = q.Where("read = ?", *f.Read)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Notification{}, 0, err
	}

	var items []model.Notification
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Notification{}, 0, err
	}

	return items, total, nil
}

func (r *NotificationGormRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"read": true, "read_at": at})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *NotificationGormRepository) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("read = ?", false).
		Updates(map[string]any{"read": true, "read_at": at})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *NotificationGormRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("read = ?", false).
		Count(&count).Error

	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NotificationGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Notification{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
