package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type EnquiryGormRepository struct {
	db *gorm.DB
}

func NewEnquiryGormRepository(db *gorm.DB) *EnquiryGormRepository {
	return &EnquiryGormRepository{db: db}
}

func (r *EnquiryGormRepository) Create(ctx context.Context, e model.Enquiry) (model.Enquiry, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.Enquiry{}, err
	}
	return e, nil
}

func (r *EnquiryGormRepository) FindByID(ctx context.Context, enquiryID int64) (model.Enquiry, error) {
	var e model.Enquiry
	err := r.db.WithContext(ctx).Where("id = ?", enquiryID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Enquiry{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Enquiry{}, err
	}
	return e, nil
}

func (r *EnquiryGormRepository) List(ctx context.Context, f repo.EnquiryListFilter) ([]model.Enquiry, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}

	q := r.db.WithContext(ctx).Model(&model.Enquiry{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Enquiry{}, 0, err
	}

	var items []model.Enquiry
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Enquiry{}, 0, err
	}

	return items, total, nil
}

func (r *EnquiryGormRepository) UpdateStatus(ctx context.Context, enquiryID int64, status model.EnquiryStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Enquiry{}).
		Where("id = ?", enquiryID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
