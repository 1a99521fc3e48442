package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryGridTypesRepo: 用于 DB 未就绪时的本地联测（库存页面不再 404）
type MemoryGridTypesRepo struct {
	mu      sync.RWMutex
	types   map[string]*domain.GridType
	batches map[string]*domain.GridBatch // batchID -> batch
}

func NewMemoryGridTypesRepo() *MemoryGridTypesRepo {
	return &MemoryGridTypesRepo{
		types:   map[string]*domain.GridType{},
		batches: map[string]*domain.GridBatch{},
	}
}

var _ GridTypesRepository = (*MemoryGridTypesRepo)(nil)

func (r *MemoryGridTypesRepo) GetGridType(_ context.Context, gridTypeID string) (*domain.GridType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gt, ok := r.types[gridTypeID]
	if !ok {
		return nil, fmt.Errorf("grid type %s: %w", gridTypeID, ErrNotFound)
	}
	cp := *gt
	return &cp, nil
}

func (r *MemoryGridTypesRepo) ListGridTypes(_ context.Context, search string, page, size int) ([]*domain.GridType, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.GridType
	for _, gt := range r.types {
		if search != "" && !strings.Contains(strings.ToLower(gt.Name), strings.ToLower(search)) {
			continue
		}
		cp := *gt
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []*domain.GridType{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryGridTypesRepo) CreateGridType(_ context.Context, gt *domain.GridType) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *gt
	if cp.GridTypeID == "" {
		cp.GridTypeID = uuid.NewString()
	}
	r.types[cp.GridTypeID] = &cp
	return cp.GridTypeID, nil
}

func (r *MemoryGridTypesRepo) UpdateGridType(_ context.Context, gridTypeID string, gt *domain.GridType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[gridTypeID]; !ok {
		return fmt.Errorf("grid type %s: %w", gridTypeID, ErrNotFound)
	}
	cp := *gt
	cp.GridTypeID = gridTypeID
	r.types[gridTypeID] = &cp
	return nil
}

func (r *MemoryGridTypesRepo) DeleteGridType(_ context.Context, gridTypeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[gridTypeID]; !ok {
		return fmt.Errorf("grid type %s: %w", gridTypeID, ErrNotFound)
	}
	delete(r.types, gridTypeID)
	for id, b := range r.batches {
		if b.GridTypeID == gridTypeID {
			delete(r.batches, id)
		}
	}
	return nil
}

func (r *MemoryGridTypesRepo) ListBatches(_ context.Context, gridTypeID string) ([]*domain.GridBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.GridBatch
	for _, b := range r.batches {
		if b.GridTypeID == gridTypeID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchCode < out[j].BatchCode })
	return out, nil
}

func (r *MemoryGridTypesRepo) CreateBatch(_ context.Context, b *domain.GridBatch) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *b
	if cp.BatchID == "" {
		cp.BatchID = uuid.NewString()
	}
	r.batches[cp.BatchID] = &cp
	return cp.BatchID, nil
}

func (r *MemoryGridTypesRepo) AdjustBatchQuantity(_ context.Context, batchID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[batchID]
	if !ok {
		return fmt.Errorf("grid batch %s: %w", batchID, ErrNotFound)
	}
	qty := 0
	if b.QuantityRemaining != nil {
		qty = *b.QuantityRemaining
	}
	qty += delta
	if qty < 0 {
		qty = 0
	}
	b.QuantityRemaining = &qty
	return nil
}

func (r *MemoryGridTypesRepo) DeleteBatch(_ context.Context, batchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batchID]; !ok {
		return fmt.Errorf("grid batch %s: %w", batchID, ErrNotFound)
	}
	delete(r.batches, batchID)
	return nil
}
