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

func TestNotificationUsecase_List_WithUnreadCount(t *testing.T) {
	nRepo := new(NotificationRepoMock)
	uc := usecase.NewNotificationUsecase(nRepo)

	nRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.NotificationListFilter) bool {
		return f.Page == 1 && f.Limit == 20
	})).Return([]model.Notification{{ID: "a"}}, int64(1), nil)
	nRepo.On("CountUnread", mock.Anything).Return(int64(4), nil)

	out, err := uc.List(context.Background(), usecase.NotificationListInput{Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, int64(4), out.Unread)
}

func TestNotificationUsecase_MarkRead_NotFound(t *testing.T) {
	nRepo := new(NotificationRepoMock)
	uc := usecase.NewNotificationUsecase(nRepo)

	nRepo.On("MarkRead", mock.Anything, "missing", mock.Anything).Return(repo.ErrNotFound)

	err := uc.MarkRead(context.Background(), "missing")
	assertErrContains(t, err, "not found")
}

func TestNotificationUsecase_MarkAllRead_ReturnsCount(t *testing.T) {
	nRepo := new(NotificationRepoMock)
	uc := usecase.NewNotificationUsecase(nRepo)

	nRepo.On("MarkAllRead", mock.Anything, mock.Anything).Return(int64(3), nil)

	n, err := uc.MarkAllRead(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
