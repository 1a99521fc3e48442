package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryMicroscopeRepo: 用于 DB 未就绪时的本地联测
type MemoryMicroscopeRepo struct {
	mu       sync.RWMutex
	sessions map[string]*domain.MicroscopeSession
}

func NewMemoryMicroscopeRepo() *MemoryMicroscopeRepo {
	return &MemoryMicroscopeRepo{sessions: map[string]*domain.MicroscopeSession{}}
}

var _ MicroscopeRepository = (*MemoryMicroscopeRepo)(nil)

func (r *MemoryMicroscopeRepo) CreateMicroscopeSession(_ context.Context, ms *domain.MicroscopeSession) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *ms
	if cp.MicroscopeSessionID == "" {
		cp.MicroscopeSessionID = uuid.NewString()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.sessions[cp.MicroscopeSessionID] = &cp
	return cp.MicroscopeSessionID, nil
}

func (r *MemoryMicroscopeRepo) ListBySession(_ context.Context, sessionID string) ([]*domain.MicroscopeSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.MicroscopeSession
	for _, ms := range r.sessions {
		if ms.SessionID == sessionID {
			cp := *ms
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionDate != out[j].SessionDate {
			return out[i].SessionDate > out[j].SessionDate
		}
		return out[i].SlotNumber < out[j].SlotNumber
	})
	return out, nil
}

func (r *MemoryMicroscopeRepo) ListMicroscopeSessions(_ context.Context, filter MicroscopeFilters, page, size int) ([]*domain.MicroscopeSession, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.MicroscopeSession
	for _, ms := range r.sessions {
		if filter.Microscope != "" && ms.Microscope != filter.Microscope {
			continue
		}
		if filter.Operator != "" && ms.Operator != filter.Operator {
			continue
		}
		if filter.DateFrom != "" && ms.SessionDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && ms.SessionDate > filter.DateTo {
			continue
		}
		cp := *ms
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SessionDate > all[j].SessionDate })

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []*domain.MicroscopeSession{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryMicroscopeRepo) DeleteMicroscopeSession(_ context.Context, microscopeSessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[microscopeSessionID]; !ok {
		return fmt.Errorf("microscope session %s: %w", microscopeSessionID, ErrNotFound)
	}
	delete(r.sessions, microscopeSessionID)
	return nil
}
