package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Generator GeneratorConfig `mapstructure:"generator"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitQPS   float64  `mapstructure:"rate_limit_qps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

// StorageConfig 键值存储后端
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory, redis, postgres
	Prefix string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// DSN gorm 使用的连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode, d.TimeZone)
}

// URL golang-migrate 使用的连接串
func (d DatabaseConfig) URL() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	EventsChannel string `mapstructure:"events_channel"`
	EventsEnabled bool   `mapstructure:"events_enabled"` // 存储不是 redis 时也通过 redis 传播事件
}

// UseRedis 是否需要 Redis 连接
func (c *Config) UseRedis() bool {
	return c.Storage.Driver == "redis" || c.Redis.EventsEnabled
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

// FeedConfig 评论规则
type FeedConfig struct {
	CommentMinLength int           `mapstructure:"comment_min_length"`
	CommentMaxLength int           `mapstructure:"comment_max_length"`
	CommentInterval  time.Duration `mapstructure:"comment_interval"`
	SeedOnStart      bool          `mapstructure:"seed_on_start"`
}

// GeneratorConfig AI 文本生成
type GeneratorConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret")
	}
	if c.App.Env == "prod" && len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	switch c.Storage.Driver {
	case "memory":
	case "redis":
	case "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return errors.New("database configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.UseRedis() && c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	if c.Feed.CommentMinLength <= 0 || c.Feed.CommentMaxLength < c.Feed.CommentMinLength {
		return errors.New("invalid comment length limits")
	}

	return nil
}

// SetDefaults 默认值，测试中也会用到
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.rate_limit_qps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.prefix", "geeknews:")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.events_channel", "geeknews:events")
	v.SetDefault("redis.events_enabled", false)
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("feed.comment_min_length", 3)
	v.SetDefault("feed.comment_max_length", 300)
	v.SetDefault("feed.comment_interval", 15*time.Second)
	v.SetDefault("feed.seed_on_start", true)
	v.SetDefault("generator.model", "gpt-4o-mini")
	v.SetDefault("generator.temperature", 0.8)
	v.SetDefault("generator.timeout", 60*time.Second)
}

// LoadConfig 加载配置
func LoadConfig() {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量
	v.AutomaticEnv()

	if err := v.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// 手动覆盖，以防 viper 无法正确解析嵌套键的环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		GlobalConfig.Storage.Driver = driver
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		GlobalConfig.Generator.APIKey = apiKey
	}

	// 验证配置
	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
