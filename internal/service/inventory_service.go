package service

import (
	"context"
	"encoding/json"
	"time"

	"cryolab-data/internal/domain"
	"cryolab-data/internal/repository"
	"cryolab-data/internal/store"

	"go.uber.org/zap"
)

const (
	gridTypesCacheKey = "cryolab:grid-types:all"
	gridTypesCacheTTL = 5 * time.Minute
)

// InventoryService 网格类型/批次库存服务
// The unfiltered type list backs every grid-type dropdown in the UI and is
// read far more often than it changes, so it sits in Redis behind a short
// TTL. Mutations drop the cached list.
type InventoryService interface {
	ListGridTypes(ctx context.Context, search string, page, size int) ([]*domain.GridType, int, error)
	GetGridType(ctx context.Context, gridTypeID string) (*domain.GridType, error)
	CreateGridType(ctx context.Context, gt *domain.GridType) (string, error)
	UpdateGridType(ctx context.Context, gridTypeID string, gt *domain.GridType) error
	DeleteGridType(ctx context.Context, gridTypeID string) error

	ListBatches(ctx context.Context, gridTypeID string) ([]*domain.GridBatch, error)
	CreateBatch(ctx context.Context, b *domain.GridBatch) (string, error)
	AdjustBatchQuantity(ctx context.Context, batchID string, delta int) error
	DeleteBatch(ctx context.Context, batchID string) error
}

type inventoryService struct {
	repo   repository.GridTypesRepository
	kv     store.KV
	logger *zap.Logger
}

// NewInventoryService 创建 InventoryService 实例（kv 可为 nil，禁用缓存）
func NewInventoryService(repo repository.GridTypesRepository, kv store.KV, logger *zap.Logger) InventoryService {
	return &inventoryService{repo: repo, kv: kv, logger: logger}
}

func (s *inventoryService) ListGridTypes(ctx context.Context, search string, page, size int) ([]*domain.GridType, int, error) {
	// only the unfiltered first page is cached; that is the dropdown query
	cacheable := s.kv != nil && search == "" && page <= 1

	if cacheable {
		if raw, err := s.kv.Get(ctx, gridTypesCacheKey); err == nil {
			var cached struct {
				Items []*domain.GridType `json:"items"`
				Total int                `json:"total"`
			}
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	items, total, err := s.repo.ListGridTypes(ctx, search, page, size)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		payload, err := json.Marshal(struct {
			Items []*domain.GridType `json:"items"`
			Total int                `json:"total"`
		}{items, total})
		if err == nil {
			if err := s.kv.Set(ctx, gridTypesCacheKey, string(payload), gridTypesCacheTTL); err != nil {
				s.logger.Warn("failed to cache grid types", zap.Error(err))
			}
		}
	}

	return items, total, nil
}

func (s *inventoryService) GetGridType(ctx context.Context, gridTypeID string) (*domain.GridType, error) {
	return s.repo.GetGridType(ctx, gridTypeID)
}

func (s *inventoryService) CreateGridType(ctx context.Context, gt *domain.GridType) (string, error) {
	id, err := s.repo.CreateGridType(ctx, gt)
	if err != nil {
		return "", err
	}
	s.dropCache(ctx)
	s.logger.Info("grid type created", zap.String("grid_type_id", id), zap.String("name", gt.Name))
	return id, nil
}

func (s *inventoryService) UpdateGridType(ctx context.Context, gridTypeID string, gt *domain.GridType) error {
	if err := s.repo.UpdateGridType(ctx, gridTypeID, gt); err != nil {
		return err
	}
	s.dropCache(ctx)
	return nil
}

func (s *inventoryService) DeleteGridType(ctx context.Context, gridTypeID string) error {
	if err := s.repo.DeleteGridType(ctx, gridTypeID); err != nil {
		return err
	}
	s.dropCache(ctx)
	return nil
}

func (s *inventoryService) ListBatches(ctx context.Context, gridTypeID string) ([]*domain.GridBatch, error) {
	return s.repo.ListBatches(ctx, gridTypeID)
}

func (s *inventoryService) CreateBatch(ctx context.Context, b *domain.GridBatch) (string, error) {
	return s.repo.CreateBatch(ctx, b)
}

func (s *inventoryService) AdjustBatchQuantity(ctx context.Context, batchID string, delta int) error {
	return s.repo.AdjustBatchQuantity(ctx, batchID, delta)
}

func (s *inventoryService) DeleteBatch(ctx context.Context, batchID string) error {
	return s.repo.DeleteBatch(ctx, batchID)
}

func (s *inventoryService) dropCache(ctx context.Context) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Del(ctx, gridTypesCacheKey); err != nil {
		s.logger.Warn("failed to drop grid types cache", zap.Error(err))
	}
}
