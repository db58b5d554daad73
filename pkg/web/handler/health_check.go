package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"gorm.io/gorm"

	"music-hub/pkg/common/storage"
)

type HealthCheckHandler struct {
	db    *gorm.DB
	store storage.Store
}

func NewHealthCheckHandler(db *gorm.DB, store storage.Store) *HealthCheckHandler {
	return &HealthCheckHandler{db: db, store: store}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

// 启用关键组件标签判断
type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"` // 关键组件标识
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 增强的健康检查接口
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startupTime).Round(time.Second).String(),
		Components: []ComponentStatus{
			h.checkDatabase(ctx),
			h.checkStorage(ctx),
		},
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

func probe(name string, isCore bool, check func() error) ComponentStatus {
	start := time.Now()
	comp := ComponentStatus{Name: name, Status: "ok", IsCore: isCore}
	if err := check(); err != nil {
		comp.Status = "error"
		comp.Error = err.Error()
	}
	comp.Latency = time.Since(start)
	return comp
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) ComponentStatus {
	return probe("database", true, func() error {
		sqlDB, err := h.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

// 存储不可用时接口仍可服务，只标记为非关键组件
func (h *HealthCheckHandler) checkStorage(ctx context.Context) ComponentStatus {
	return probe("storage", false, func() error {
		return h.store.Health(ctx)
	})
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
