package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

type ProductListInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Status   string
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, in ProductListInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		Category: in.Category,
		Status:   in.Status,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, internalError()
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewError(KindInvalidInput, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, internalError()
	}
	return p, nil
}

type ProductInput struct {
	Name        string
	Description string
	Category    string
	Image       string
	Price       decimal.Decimal
	Status      model.ProductStatus
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return NewError(KindInvalidInput, "name is required")
	}
	if in.Price.IsNegative() {
		return NewError(KindInvalidAmount, "price must not be negative")
	}
	if in.Status != "" && in.Status != model.ProductStatusAvailable && in.Status != model.ProductStatusNotAvailable {
		return NewError(KindInvalidInput, "invalid status")
	}
	return nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	status := in.Status
	if status == "" {
		status = model.ProductStatusAvailable
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
		Price:       in.Price,
		Status:      status,
	})
	if err != nil {
		return model.Product{}, internalError()
	}
	return created, nil
}

func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewError(KindInvalidInput, "invalid id")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, internalError()
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Image = in.Image
	p.Price = in.Price
	if in.Status != "" {
		p.Status = in.Status
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		return model.Product{}, internalError()
	}
	return p, nil
}

func (u *ProductUsecase) UpdateRating(ctx context.Context, id int64, rating float64, reviews int64) error {
	if id <= 0 {
		return NewError(KindInvalidInput, "invalid id")
	}
	if rating < 0 || rating > 5 {
		return NewError(KindInvalidInput, "rating must be between 0 and 5")
	}
	if reviews < 0 {
		return NewError(KindInvalidInput, "reviews must not be negative")
	}

	err := u.productRepo.UpdateRating(ctx, id, rating, reviews)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return internalError()
	}
	return nil
}

func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewError(KindInvalidInput, "invalid id")
	}

	err := u.productRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return internalError()
	}
	return nil
}
