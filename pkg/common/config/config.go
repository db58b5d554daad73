package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type ServerConfig struct {
	Address string `json:"address" toml:"address"`
}

type LogConfig struct {
	Level string `json:"level" toml:"level"` // trace/debug/info/notice/warn/error/fatal
	File  string `json:"file" toml:"file"`   // 为空时输出到 stderr
}

type SecurityConfig struct {
	MaxBodySize    int64    `json:"maxBodySize" toml:"max_body_size"` // 单位：字节
	AllowedMethods []string `json:"allowedMethods" toml:"allowed_methods"`
}

type TimeoutConfig struct {
	RequestTimeout int `json:"requestTimeout" toml:"request_timeout"` // 单位：秒
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins" toml:"allow_origins"`
	AllowMethods     []string      `json:"allowMethods" toml:"allow_methods"`
	AllowHeaders     []string      `json:"allowHeaders" toml:"allow_headers"`
	ExposeHeaders    []string      `json:"exposeHeaders" toml:"expose_headers"`
	AllowCredentials bool          `json:"allowCredentials" toml:"allow_credentials"`
	MaxAge           time.Duration `json:"maxAge" toml:"max_age"`
	TrustedDomains   []string      `json:"trustedDomains" toml:"trusted_domains"`
}

type MiddlewareConfig struct {
	Security SecurityConfig `json:"security" toml:"security"`
	Timeout  TimeoutConfig  `json:"timeout" toml:"timeout"`
	CORS     CORSConfig     `json:"cors" toml:"cors"`
}

// TokenConfig 访问令牌签名配置
type TokenConfig struct {
	Secret        string `json:"secret" toml:"secret"`
	Issuer        string `json:"issuer" toml:"issuer"`
	SigningMethod string `json:"signingMethod" toml:"signing_method"`
}

// MasterConfig 主令牌引导配置，对应 MASTER_* 环境变量
type MasterConfig struct {
	SecretKey    string `json:"secretKey" toml:"secret_key"`
	UserEmail    string `json:"userEmail" toml:"user_email"`
	UserName     string `json:"userName" toml:"user_name"`
	UserPassword string `json:"userPassword" toml:"user_password"`
}

// Complete reports whether the master account can be provisioned.
func (m MasterConfig) Complete() bool {
	return m.UserEmail != "" && m.UserName != "" && m.UserPassword != ""
}

type DatabaseConfig struct {
	Driver      string `json:"driver" toml:"driver"`           // mysql / postgres / sqlite
	Host        string `json:"host" toml:"host"`               // 数据库主机地址
	Port        int    `json:"port" toml:"port"`               // 数据库端口
	Username    string `json:"username" toml:"username"`       // 数据库用户名
	Password    string `json:"password" toml:"password"`       // 数据库密码
	DBName      string `json:"dbname" toml:"dbname"`           // 数据库名称 (sqlite 时为文件路径)
	UseUnixSock bool   `json:"useUnixSock" toml:"unix_socket"` // 是否使用Unix套接字连接
	MinPoolSize int    `json:"minPoolSize" toml:"min_pool"`    // 连接池最小连接数
	MaxPoolSize int    `json:"maxPoolSize" toml:"max_pool"`    // 连接池最大连接数
	LogLevel    string `json:"logLevel" toml:"log_level"`      // GORM日志级别
}

// StorageConfig 图片存储配置
type StorageConfig struct {
	Driver    string `json:"driver" toml:"driver"`        // local / minio / s3
	Root      string `json:"root" toml:"root"`            // local 根目录
	URLPrefix string `json:"urlPrefix" toml:"url_prefix"` // local 公共 URL 前缀
	Endpoint  string `json:"endpoint" toml:"endpoint"`
	Region    string `json:"region" toml:"region"`
	Bucket    string `json:"bucket" toml:"bucket"`
	AccessKey string `json:"accessKey" toml:"access_key"`
	SecretKey string `json:"secretKey" toml:"secret_key"`
	UseSSL    bool   `json:"useSSL" toml:"use_ssl"`
	PublicURL string `json:"publicURL" toml:"public_url"` // 对象存储的公共访问地址
}

type SentryConfig struct {
	DSN         string `json:"dsn" toml:"dsn"`
	Environment string `json:"environment" toml:"environment"`
}

type Config struct {
	Server     ServerConfig     `json:"server" toml:"server"`
	Log        LogConfig        `json:"log" toml:"log"`
	Database   DatabaseConfig   `json:"database" toml:"database"`
	Storage    StorageConfig    `json:"storage" toml:"storage"`
	Token      TokenConfig      `json:"token" toml:"token"`
	Master     MasterConfig     `json:"master" toml:"master"`
	Middleware MiddlewareConfig `json:"middleware" toml:"middleware"`
	Sentry     SentryConfig     `json:"sentry" toml:"sentry"`
	Env        string           `json:"env" toml:"env"` // 环境标识
}

var defaultConfig = Config{
	Server: ServerConfig{
		Address: ":8080",
	},
	Log: LogConfig{
		Level: "info",
	},
	Database: DatabaseConfig{
		Driver:      "mysql",
		Host:        "localhost",
		Port:        3306,
		Username:    "root",
		Password:    "root",
		DBName:      "music_hub",
		UseUnixSock: false,
		MinPoolSize: 5,
		MaxPoolSize: 50,
		LogLevel:    "warn",
	},
	Storage: StorageConfig{
		Driver:    "local",
		Root:      "storage/app/public",
		URLPrefix: "/storage/",
		Region:    "us-east-1",
		Bucket:    "music-hub",
	},
	Token: TokenConfig{
		Secret:        "dev-secret-change-me-in-production", // 开发环境默认密钥
		Issuer:        "music-hub",
		SigningMethod: "HS256",
	},
	Middleware: MiddlewareConfig{
		Security: SecurityConfig{
			MaxBodySize:    10 << 20, // 10MB
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		},
		Timeout: TimeoutConfig{
			RequestTimeout: 15,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
	},
	Env: "development",
}

// Default returns a copy of the built-in defaults.
func Default() *Config {
	c := defaultConfig.clone()
	return &c
}

// clone 深拷贝切片字段，避免解码时写回默认值的底层数组
func (c Config) clone() Config {
	sec := &c.Middleware.Security
	sec.AllowedMethods = slices.Clone(sec.AllowedMethods)

	cors := &c.Middleware.CORS
	cors.AllowOrigins = slices.Clone(cors.AllowOrigins)
	cors.AllowMethods = slices.Clone(cors.AllowMethods)
	cors.AllowHeaders = slices.Clone(cors.AllowHeaders)
	cors.ExposeHeaders = slices.Clone(cors.ExposeHeaders)
	cors.TrustedDomains = slices.Clone(cors.TrustedDomains)
	return c
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > 配置文件 > 默认值）
func Load() *Config {
	config := defaultConfig.clone()

	// 1. 尝试从配置文件加载
	if configPath := getConfigPath(); configPath != "" {
		if err := LoadFile(&config, configPath); err != nil {
			hlog.Warnf("Failed to load config file: %v", err)
		}
	}

	// 2. 从环境变量覆盖
	loadFromEnv(&config)

	return &config
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}

	searchPaths := []string{
		"./config.toml",
		"./config.json",
		"../config.json",
		"/etc/music-hub/config.toml",
		"/etc/music-hub/config.json",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// LoadFile 从文件加载配置，按扩展名选择 JSON 或 TOML
func LoadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return nil
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv(config *Config) {
	// 服务器配置
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.Server.Address = v
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		config.Env = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		config.Log.File = v
	}

	// 中间件配置
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Middleware.Security.MaxBodySize = size
		}
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			config.Middleware.Timeout.RequestTimeout = timeout
		}
	}

	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		config.Middleware.CORS.AllowOrigins = splitEnvList(v)
	}
	if v := os.Getenv("CORS_TRUSTED_DOMAINS"); v != "" {
		config.Middleware.CORS.TrustedDomains = splitEnvList(v)
	}

	/****** 令牌配置 ******/
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		config.Token.Secret = v
	}

	if v := os.Getenv("TOKEN_ISSUER"); v != "" {
		config.Token.Issuer = v
	}

	if v := os.Getenv("TOKEN_ALGORITHM"); v != "" {
		algorithm := strings.ToLower(strings.ReplaceAll(v, " ", ""))

		validAlgorithms := map[string]bool{
			"hs256": true,
			"hs384": true,
			"hs512": true,
		}

		if validAlgorithms[algorithm] {
			config.Token.SigningMethod = strings.ToUpper(algorithm)
		} else {
			hlog.Warnf("Unsupported token algorithm: %s", v)
		}
	}

	/****** 主令牌配置 ******/
	if v := os.Getenv("MASTER_SECRET_KEY"); v != "" {
		config.Master.SecretKey = v
	}
	if v := os.Getenv("MASTER_USER_EMAIL"); v != "" {
		config.Master.UserEmail = v
	}
	if v := os.Getenv("MASTER_USER_NAME"); v != "" {
		config.Master.UserName = v
	}
	if v := os.Getenv("MASTER_USER_PASSWORD"); v != "" {
		config.Master.UserPassword = v
	}

	// 数据库配置
	if v := os.Getenv("DB_CONNECTION"); v != "" {
		config.Database.Driver = normalizeDriver(v)
	}

	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Database.Port = port
		}
	}

	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.Username = v
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}

	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.DBName = v
	}

	if v := os.Getenv("DB_SOCKET"); v != "" {
		config.Database.UseUnixSock = parseBool(v)
	}

	if v := os.Getenv("DB_MIN_POOL"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Database.MinPoolSize = size
		}
	}

	if v := os.Getenv("DB_MAX_POOL"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Database.MaxPoolSize = size
		}
	}

	if v := os.Getenv("DB_LOG_LEVEL"); v != "" {
		config.Database.LogLevel = strings.ToLower(v)
	}

	// 存储配置
	if v := os.Getenv("FILESYSTEM_DISK"); v != "" {
		config.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("STORAGE_ROOT"); v != "" {
		config.Storage.Root = v
	}
	if v := os.Getenv("STORAGE_URL_PREFIX"); v != "" {
		config.Storage.URLPrefix = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		config.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		config.Storage.Region = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		config.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		config.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		config.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		config.Storage.UseSSL = parseBool(v)
	}
	if v := os.Getenv("STORAGE_PUBLIC_URL"); v != "" {
		config.Storage.PublicURL = v
	}

	if v := os.Getenv("SENTRY_DSN"); v != "" {
		config.Sentry.DSN = v
	}
	if v := os.Getenv("SENTRY_ENVIRONMENT"); v != "" {
		config.Sentry.Environment = v
	}
}

// normalizeDriver 兼容常见的驱动别名
func normalizeDriver(v string) string {
	switch v = strings.ToLower(v); v {
	case "pgsql", "postgresql":
		return "postgres"
	case "sqlite3":
		return "sqlite"
	default:
		return v
	}
}

// 分割环境变量列表（支持逗号分隔的字符串）
func splitEnvList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// 转换字符串为布尔值
func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}
