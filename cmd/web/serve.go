package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"music-hub/pkg/common/config"
	"music-hub/pkg/common/logging"
	"music-hub/pkg/common/sentry"
	"music-hub/pkg/core/migrate"
	"music-hub/pkg/web/router"
)

// loadConfig 命令行指定的配置文件优先
func loadConfig(cmd *cli.Command) (*config.Config, func() error, error) {
	if path := cmd.String("config"); path != "" {
		if err := os.Setenv("APP_CONFIG", path); err != nil {
			return nil, nil, err
		}
	}
	cfg := config.Load()

	closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closeLog, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := migrate.Run(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func migrateDB(_ context.Context, cmd *cli.Command) error {
	cfg, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if _, err := openDB(cfg); err != nil {
		return err
	}
	hlog.Infof("database schema is up to date driver=%s", cfg.Database.Driver)
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	// 初始化配置
	cfg, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	reporter := sentry.NewReporter(cfg.Sentry, cfg.Env)
	defer reporter.Flush(2 * time.Second)

	db, err := openDB(cfg)
	if err != nil {
		reporter.CaptureException(err)
		return err
	}

	// 注入到服务层
	svc, err := router.Wire(ctx, cfg, db, reporter)
	if err != nil {
		reporter.CaptureException(err)
		return err
	}

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Middleware.Security.MaxBodySize)),
	)

	// 注册路由
	router.RegisterAPIs(h, cfg, svc)

	// 启动服务
	hlog.Infof("music-hub listening on %s env=%s", cfg.Server.Address, cfg.Env)
	h.Spin()
	return nil
}
