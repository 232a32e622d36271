package repository

import (
	"context"

	"app/internal/domain/model"
)

// キーバリュー設定。Set は upsert。
type SettingRepository interface {
	Get(ctx context.Context, key string) (model.Setting, error)
	Set(ctx context.Context, key string, value string) error
	List(ctx context.Context) ([]model.Setting, error)
	Delete(ctx context.Context, key string) error
}
