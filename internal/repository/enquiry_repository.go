package repository

import (
	"context"

	"app/internal/domain/model"
)

type EnquiryListFilter struct {
	Page   int
	Limit  int
	Status string
}

type EnquiryRepository interface {
	Create(ctx context.Context, e model.Enquiry) (model.Enquiry, error)
	FindByID(ctx context.Context, enquiryID int64) (model.Enquiry, error)
	List(ctx context.Context, f EnquiryListFilter) ([]model.Enquiry, int64, error)
	UpdateStatus(ctx context.Context, enquiryID int64, status model.EnquiryStatus) error
}
