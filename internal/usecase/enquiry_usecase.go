package usecase

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type EnquiryUsecase struct {
	enquiryRepo repo.EnquiryRepository
	notifier    Notifier
}

func NewEnquiryUsecase(enquiryRepo repo.EnquiryRepository, notifier Notifier) *EnquiryUsecase {
	return &EnquiryUsecase{enquiryRepo: enquiryRepo, notifier: notifier}
}

type CreateEnquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// 問い合わせ受付。通知と受付メールはベストエフォート。
func (u *EnquiryUsecase) Create(ctx context.Context, in CreateEnquiryInput) (model.Enquiry, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Enquiry{}, NewError(KindInvalidInput, "name is required")
	}
	if !strings.Contains(in.Email, "@") {
		return model.Enquiry{}, NewError(KindInvalidInput, "invalid email")
	}
	if strings.TrimSpace(in.Message) == "" {
		return model.Enquiry{}, NewError(KindInvalidInput, "message is required")
	}

	created, err := u.enquiryRepo.Create(ctx, model.Enquiry{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
		Status:  model.EnquiryStatusNew,
	})
	if err != nil {
		return model.Enquiry{}, internalError()
	}

	u.notifier.EnquiryReceived(ctx, created)

	return created, nil
}

func (u *EnquiryUsecase) Get(ctx context.Context, id int64) (model.Enquiry, error) {
	if id <= 0 {
		return model.Enquiry{}, NewError(KindInvalidInput, "invalid id")
	}

	e, err := u.enquiryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Enquiry{}, NewError(KindNotFound, "enquiry not found")
	}
	if err != nil {
		return model.Enquiry{}, internalError()
	}
	return e, nil
}

type EnquiryListOutput struct {
	Items []model.Enquiry `json:"items"`
	Total int64           `json:"total"`
}

func (u *EnquiryUsecase) List(ctx context.Context, f repo.EnquiryListFilter) (EnquiryListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	items, total, err := u.enquiryRepo.List(ctx, f)
	if err != nil {
		return EnquiryListOutput{}, internalError()
	}
	return EnquiryListOutput{Items: items, Total: total}, nil
}

func (u *EnquiryUsecase) UpdateStatus(ctx context.Context, id int64, status model.EnquiryStatus) (model.Enquiry, error) {
	if id <= 0 {
		return model.Enquiry{}, NewError(KindInvalidInput, "invalid id")
	}
	if !status.Valid() {
		return model.Enquiry{}, NewError(KindInvalidInput, "invalid status")
	}

	err := u.enquiryRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Enquiry{}, NewError(KindNotFound, "enquiry not found")
	}
	if err != nil {
		return model.Enquiry{}, internalError()
	}

	return u.Get(ctx, id)
}
