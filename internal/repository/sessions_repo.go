package repository

import (
	"context"

	"cryolab-data/internal/domain"
)

// SessionsRepository 制备会话Repository接口
// 使用强类型领域模型，不使用map[string]any
// Repository层只负责数据访问；校验/清洗在 schema 层完成后才会到达这里。
type SessionsRepository interface {
	// ========== 查询（单个）==========
	// GetSession 返回完整的会话组合记录（session + settings + grid_info + slots + sample）
	GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error)

	// ========== 查询（列表）==========
	// ListSessions 查询会话列表（支持分页、过滤、搜索）
	ListSessions(ctx context.Context, filter SessionFilters, page, size int) ([]*domain.Session, int, error)

	// ========== 创建 ==========
	// CreateSession 创建会话及全部嵌套记录。事务性：任一子表写入失败则整体回滚
	//（boundary 的 all-or-nothing 语义由这里落实）。
	CreateSession(ctx context.Context, rec *domain.SessionRecord) (string, error)

	// ========== 更新 ==========
	// UpdateSession 整体替换嵌套记录（同样事务性）
	UpdateSession(ctx context.Context, sessionID string, rec *domain.SessionRecord) error

	// SetSlotTrashed 切换单个槽位的 trashed 标记（独立的状态开关，不触发校验）
	SetSlotTrashed(ctx context.Context, sessionID string, slotNumber int, trashed bool) error

	// ========== 删除 ==========
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionFilters 会话查询过滤器
type SessionFilters struct {
	UserName string // 可选，按操作者过滤
	DateFrom string // 可选，YYYY-MM-DD（含）
	DateTo   string // 可选，YYYY-MM-DD（含）
	Search   string // 可选，按 grid_box_name 模糊搜索
}
