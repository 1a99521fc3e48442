package repository

import (
	"context"

	"cryolab-data/internal/domain"
)

// GridTypesRepository 网格类型/批次库存Repository接口
type GridTypesRepository interface {
	// ========== 类型 ==========
	GetGridType(ctx context.Context, gridTypeID string) (*domain.GridType, error)
	ListGridTypes(ctx context.Context, search string, page, size int) ([]*domain.GridType, int, error)
	CreateGridType(ctx context.Context, gt *domain.GridType) (string, error)
	UpdateGridType(ctx context.Context, gridTypeID string, gt *domain.GridType) error
	DeleteGridType(ctx context.Context, gridTypeID string) error

	// ========== 批次 ==========
	ListBatches(ctx context.Context, gridTypeID string) ([]*domain.GridBatch, error)
	CreateBatch(ctx context.Context, b *domain.GridBatch) (string, error)
	// AdjustBatchQuantity 扣减/增加剩余数量（负 delta 表示取用）
	AdjustBatchQuantity(ctx context.Context, batchID string, delta int) error
	DeleteBatch(ctx context.Context, batchID string) error
}
