package config

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN 根据驱动构造连接串
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		if d.UseUnixSock {
			return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
				d.Host, d.Username, d.Password, d.DBName)
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			d.Host, d.Port, d.Username, d.Password, d.DBName)
	case "sqlite":
		// sqlite 下 DBName 即文件路径
		return d.DBName
	default:
		charsetParam := "charset=utf8mb4&parseTime=True&loc=Local"
		if d.UseUnixSock {
			return fmt.Sprintf("%s:%s@unix(%s)/%s?%s",
				d.Username, d.Password, d.Host, d.DBName, charsetParam)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			d.Username, d.Password, d.Host, d.Port, d.DBName, charsetParam)
	}
}

func (d DatabaseConfig) dialector() (gorm.Dialector, error) {
	switch d.Driver {
	case "", "mysql":
		return mysql.Open(d.DSN()), nil
	case "postgres":
		return postgres.Open(d.DSN()), nil
	case "sqlite":
		return sqlite.Open(d.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

// GormConfig 配置GORM日志级别；TranslateError 让各驱动的唯一约束冲突统一成 gorm.ErrDuplicatedKey
func (d DatabaseConfig) GormConfig() *gorm.Config {
	gormConfig := &gorm.Config{TranslateError: true}
	switch d.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gormConfig
}

func (c *Config) InitDB() (*gorm.DB, error) {
	dialector, err := c.Database.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, c.Database.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// 设置连接池
	if c.Database.MinPoolSize > 0 {
		sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	}
	if c.Database.MaxPoolSize > 0 {
		sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)
	}

	return db, nil
}
