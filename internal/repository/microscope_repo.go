package repository

import (
	"context"

	"cryolab-data/internal/domain"
)

// MicroscopeRepository 显微镜成像会话Repository接口
type MicroscopeRepository interface {
	CreateMicroscopeSession(ctx context.Context, ms *domain.MicroscopeSession) (string, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.MicroscopeSession, error)
	ListMicroscopeSessions(ctx context.Context, filter MicroscopeFilters, page, size int) ([]*domain.MicroscopeSession, int, error)
	DeleteMicroscopeSession(ctx context.Context, microscopeSessionID string) error
}

// MicroscopeFilters 成像会话查询过滤器
type MicroscopeFilters struct {
	Microscope string // 可选，按镜子名过滤
	Operator   string // 可选
	DateFrom   string // 可选，YYYY-MM-DD（含）
	DateTo     string // 可选，YYYY-MM-DD（含）
}
