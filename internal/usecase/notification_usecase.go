package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type NotificationUsecase struct {
	notificationRepo repo.NotificationRepository
}

func NewNotificationUsecase(notificationRepo repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notificationRepo: notificationRepo}
}

type NotificationListInput struct {
	Page     int
	Limit    int
	Read     *bool
	Type     string
	Priority string
}

type NotificationListOutput struct {
	Items  []model.Notification `json:"items"`
	Total  int64                `json:"total"`
	Unread int64                `json:"unread"`
}

func (u *NotificationUsecase) List(ctx context.Context, in NotificationListInput) (NotificationListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}

	items, total, err := u.notificationRepo.List(ctx, repo.NotificationListFilter{
		Page:     in.Page,
		Limit:    in.Limit,
		Read:     in.Read,
		Type:     in.Type,
		Priority: in.Priority,
	})
	if err != nil {
		return NotificationListOutput{}, internalError()
	}

	unread, err := u.notificationRepo.CountUnread(ctx)
	if err != nil {
		return NotificationListOutput{}, internalError()
	}

	return NotificationListOutput{Items: items, Total: total, Unread: unread}, nil
}

func (u *NotificationUsecase) Get(ctx context.Context, id string) (model.Notification, error) {
	if id == "" {
		return model.Notification{}, NewError(KindInvalidInput, "invalid id")
	}

	n, err := u.notificationRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Notification{}, NewError(KindNotFound, "notification not found")
	}
	if err != nil {
		return model.Notification{}, internalError()
	}
	return n, nil
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return NewError(KindInvalidInput, "invalid id")
	}

	err := u.notificationRepo.MarkRead(ctx, id, time.Now())
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "notification not found")
	}
	if err != nil {
		return internalError()
	}
	return nil
}

// 既読にした件数を返す
func (u *NotificationUsecase) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := u.notificationRepo.MarkAllRead(ctx, time.Now())
	if err != nil {
		return 0, internalError()
	}
	return n, nil
}

func (u *NotificationUsecase) UnreadCount(ctx context.Context) (int64, error) {
	n, err := u.notificationRepo.CountUnread(ctx)
	if err != nil {
		return 0, internalError()
	}
	return n, nil
}

func (u *NotificationUsecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewError(KindInvalidInput, "invalid id")
	}

	err := u.notificationRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "notification not found")
	}
	if err != nil {
		return internalError()
	}
	return nil
}
