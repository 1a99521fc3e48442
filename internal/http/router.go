package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 /metrics 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterSessionRoutes 注册制备会话路由
func (r *Router) RegisterSessionRoutes(h *SessionsHandler) {
	r.Handle(sessionsPrefix, instrument(sessionsPrefix, h.Collection))
	r.Handle(sessionsPrefix+"/", instrument(sessionsPrefix+"/{id}", h.ByID))
}

// RegisterInventoryRoutes 注册网格类型/批次库存路由
func (r *Router) RegisterInventoryRoutes(h *InventoryHandler) {
	r.Handle(gridTypesPrefix, instrument(gridTypesPrefix, h.GridTypes))
	r.Handle(gridTypesPrefix+"/", instrument(gridTypesPrefix+"/{id}", h.GridTypeByID))
	r.Handle(batchesPrefix+"/", instrument(batchesPrefix+"/{id}", h.BatchByID))
}

// RegisterMicroscopeRoutes 注册显微镜成像会话路由
func (r *Router) RegisterMicroscopeRoutes(h *MicroscopeHandler) {
	r.Handle(microscopePrefix, instrument(microscopePrefix, h.Collection))
	r.Handle(microscopePrefix+"/", instrument(microscopePrefix+"/{id}", h.ByID))
}

// RegisterPostRoutes 注册内部博客路由
func (r *Router) RegisterPostRoutes(h *PostsHandler) {
	r.Handle(postsPrefix, instrument(postsPrefix, h.Collection))
	r.Handle(postsPrefix+"/", instrument(postsPrefix+"/{id}", h.ByID))
}

// RegisterDraftRoutes 注册草稿自动保存路由
func (r *Router) RegisterDraftRoutes(h *DraftsHandler) {
	r.Handle(draftsPrefix, instrument(draftsPrefix, h.List))
	r.Handle(draftsPrefix+"/", instrument(draftsPrefix+"/{user}/{form}", h.Handle))
}

// RegisterOpsRoutes 注册运维端点（健康检查 + Prometheus 指标）
func (r *Router) RegisterOpsRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": "ok"}))
	})
	r.HandleHandler("/metrics", MetricsHandler())
}
