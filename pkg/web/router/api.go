package router

import (
	"path/filepath"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/route"
	"gorm.io/gorm"

	"music-hub/pkg/common/config"
	"music-hub/pkg/common/sentry"
	"music-hub/pkg/common/storage"
	authservice "music-hub/pkg/core/auth/service"
	songservice "music-hub/pkg/core/song/service"
	userservice "music-hub/pkg/core/user/service"
	"music-hub/pkg/web/handler"
	"music-hub/pkg/web/middleware"
)

// Services 路由依赖的已装配组件
type Services struct {
	DB       *gorm.DB
	Store    storage.Store
	Reporter *sentry.Reporter
	Auth     authservice.AuthService
	Master   authservice.MasterService
	Users    userservice.UserService
	Songs    songservice.SongService
}

// RegisterAPIs 注册所有API路由
func RegisterAPIs(h *server.Hertz, cfg *config.Config, svc Services) {
	// 初始化Handler实例
	healthHandler := handler.NewHealthCheckHandler(svc.DB, svc.Store)
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Master)
	userHandler := handler.NewUserHandler(svc.Users)
	songHandler := handler.NewSongHandler(svc.Songs)

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg, svc.Reporter),
		middleware.LoggerMiddleware(),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
	)

	// 基础接口组
	h.GET("/health", healthHandler.AdvancedHealthCheck)
	registerStorage(h, cfg.Storage, svc.Store)

	// 业务接口组
	apiGroup := h.Group("/api")
	{
		apiGroup.POST("/generate-master-token", authHandler.GenerateMasterToken)
		apiGroup.POST("/login", authHandler.Login)

		// 需要身份认证的接口
		authed := apiGroup.Group("", middleware.TokenAuthMiddleware(svc.Auth))
		authed.GET("/user", authHandler.Me)
		authed.POST("/logout", authHandler.Logout)

		resource(authed, "/usuarios", userHandler.Index, userHandler.Store, userHandler.Show, userHandler.Update, userHandler.Destroy)
		resource(authed, "/musica", songHandler.Index, songHandler.Store, songHandler.Show, songHandler.Update, songHandler.Destroy)
	}
}

// resource 注册标准资源路由，更新同时支持 PUT 与 PATCH
func resource(g *route.RouterGroup, path string, index, store, show, update, destroy app.HandlerFunc) {
	item := path + "/:id"
	g.GET(path, index)
	g.POST(path, store)
	g.GET(item, show)
	g.PUT(item, update)
	g.PATCH(item, update)
	g.DELETE(item, destroy)
}

// registerStorage 本地磁盘存储时对外提供图片静态访问
func registerStorage(h *server.Hertz, cfg config.StorageConfig, store storage.Store) {
	local, ok := store.(*storage.LocalStore)
	if !ok {
		return
	}
	prefix := strings.Trim(cfg.URLPrefix, "/")
	if prefix == "" || strings.Contains(prefix, ":") {
		hlog.Warnf("storage url prefix %q cannot be served locally", cfg.URLPrefix)
		return
	}
	root, err := filepath.Abs(local.Root())
	if err != nil {
		hlog.Warnf("storage root %q cannot be resolved: %v", local.Root(), err)
		return
	}
	h.StaticFS("/"+prefix, &app.FS{
		Root:        root,
		PathRewrite: app.NewPathSlashesStripper(strings.Count(prefix, "/") + 1),
	})
}
