package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSettingsUsecase_Get_NotFound(t *testing.T) {
	sRepo := new(SettingRepoMock)
	uc := usecase.NewSettingsUsecase(sRepo)

	sRepo.On("Get", mock.Anything, "missing").Return(model.Setting{}, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), "missing")
	assertErrContains(t, err, "not found")
}

// Setはupsertで、更新後の値を返す
func TestSettingsUsecase_Set_ReturnsUpdated(t *testing.T) {
	sRepo := new(SettingRepoMock)
	uc := usecase.NewSettingsUsecase(sRepo)

	sRepo.On("Set", mock.Anything, "site_name", "My Shop").Return(nil)
	sRepo.On("Get", mock.Anything, "site_name").
		Return(model.Setting{Key: "site_name", Value: "My Shop"}, nil)

	s, err := uc.Set(context.Background(), "site_name", "My Shop")
	assert.NoError(t, err)
	assert.Equal(t, "My Shop", s.Value)

	sRepo.AssertExpectations(t)
}

func TestSettingsUsecase_Set_EmptyKey(t *testing.T) {
	uc := usecase.NewSettingsUsecase(new(SettingRepoMock))

	_, err := uc.Set(context.Background(), "", "v")
	assertErrContains(t, err, "invalid key")
}
