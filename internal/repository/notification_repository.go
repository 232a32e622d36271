package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type NotificationListFilter struct {
	Page     int
	Limit    int
	Read     *bool
	Type     string
	Priority string
}

type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) error
	FindByID(ctx context.Context, id string) (model.Notification, error)
	List(ctx context.Context, f NotificationListFilter) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, at time.Time) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}
