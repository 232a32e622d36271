package repository

import (
	"context"

	"app/internal/domain/model"
)

type EmailLogRepository interface {
	Create(ctx context.Context, l model.EmailLog) (int64, error)
	// 送信試行のたびに結果を上書きする
	Update(ctx context.Context, id int64, status model.EmailStatus, attempts int, lastError string) error
	List(ctx context.Context, page int, limit int) ([]model.EmailLog, int64, error)
}
