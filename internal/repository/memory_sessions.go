package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// MemorySessionsRepo: 用于 DB 未就绪时的本地联测
// - IDs 使用 uuid
// - 不做唯一约束；事务语义由单把锁保证
type MemorySessionsRepo struct {
	mu       sync.RWMutex
	sessions map[string]*domain.SessionRecord
}

func NewMemorySessionsRepo() *MemorySessionsRepo {
	return &MemorySessionsRepo{sessions: map[string]*domain.SessionRecord{}}
}

var _ SessionsRepository = (*MemorySessionsRepo)(nil)

func (r *MemorySessionsRepo) GetSession(_ context.Context, sessionID string) (*domain.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	cp := *rec
	cp.Slots = append([]domain.GridSlot(nil), rec.Slots...)
	return &cp, nil
}

func (r *MemorySessionsRepo) ListSessions(_ context.Context, filter SessionFilters, page, size int) ([]*domain.Session, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.Session
	for _, rec := range r.sessions {
		s := rec.Session
		if filter.UserName != "" && s.UserName != filter.UserName {
			continue
		}
		if filter.DateFrom != "" && s.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && s.Date > filter.DateTo {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.GridBoxName), strings.ToLower(filter.Search)) {
			continue
		}
		cp := s
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []*domain.Session{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemorySessionsRepo) CreateSession(_ context.Context, rec *domain.SessionRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *rec
	if cp.Session.SessionID == "" {
		cp.Session.SessionID = uuid.NewString()
	}
	now := time.Now()
	cp.Session.CreatedAt = now
	cp.Session.UpdatedAt = now
	cp.Slots = append([]domain.GridSlot(nil), rec.Slots...)
	for i := range cp.Slots {
		if cp.Slots[i].SlotID == "" {
			cp.Slots[i].SlotID = uuid.NewString()
		}
		cp.Slots[i].SessionID = cp.Session.SessionID
	}
	r.sessions[cp.Session.SessionID] = &cp
	return cp.Session.SessionID, nil
}

func (r *MemorySessionsRepo) UpdateSession(_ context.Context, sessionID string, rec *domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	cp := *rec
	cp.Session.SessionID = sessionID
	cp.Session.CreatedAt = old.Session.CreatedAt
	cp.Session.UpdatedAt = time.Now()
	cp.Slots = append([]domain.GridSlot(nil), rec.Slots...)
	for i := range cp.Slots {
		if cp.Slots[i].SlotID == "" {
			cp.Slots[i].SlotID = uuid.NewString()
		}
		cp.Slots[i].SessionID = sessionID
	}
	r.sessions[sessionID] = &cp
	return nil
}

func (r *MemorySessionsRepo) SetSlotTrashed(_ context.Context, sessionID string, slotNumber int, trashed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	for i := range rec.Slots {
		if rec.Slots[i].SlotNumber == slotNumber {
			rec.Slots[i].Trashed = trashed
			return nil
		}
	}
	return fmt.Errorf("slot %d of session %s: %w", slotNumber, sessionID, ErrNotFound)
}

func (r *MemorySessionsRepo) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	delete(r.sessions, sessionID)
	return nil
}
