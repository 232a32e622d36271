package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SettingsUsecase struct {
	settingRepo repo.SettingRepository
}

func NewSettingsUsecase(settingRepo repo.SettingRepository) *SettingsUsecase {
	return &SettingsUsecase{settingRepo: settingRepo}
}

func (u *SettingsUsecase) Get(ctx context.Context, key string) (model.Setting, error) {
	if key == "" {
		return model.Setting{}, NewError(KindInvalidInput, "invalid key")
	}

	s, err := u.settingRepo.Get(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Setting{}, NewError(KindNotFound, "setting not found")
	}
	if err != nil {
		return model.Setting{}, internalError()
	}
	return s, nil
}

// upsert
func (u *SettingsUsecase) Set(ctx context.Context, key string, value string) (model.Setting, error) {
	if key == "" {
		return model.Setting{}, NewError(KindInvalidInput, "invalid key")
	}

	if err := u.settingRepo.Set(ctx, key, value); err != nil {
		return model.Setting{}, internalError()
	}

	return u.Get(ctx, key)
}

func (u *SettingsUsecase) List(ctx context.Context) ([]model.Setting, error) {
	items, err := u.settingRepo.List(ctx)
	if err != nil {
		return nil, internalError()
	}
	return items, nil
}

func (u *SettingsUsecase) Delete(ctx context.Context, key string) error {
	if key == "" {
		return NewError(KindInvalidInput, "invalid key")
	}

	err := u.settingRepo.Delete(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "setting not found")
	}
	if err != nil {
		return internalError()
	}
	return nil
}
