package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"
)

// LLM 供应商
const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// 偏好存储后端
const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Lookup  LookupConfig
	Storage StorageConfig
	Log     LogConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Addr 返回监听地址，允许 PORT 直接写成 ":8080" 或 "127.0.0.1:8080"。
func (c ServerConfig) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	ArkAPIKey    string `env:"ARK_API_KEY"`
	ArkAccessKey string `env:"ARK_ACCESS_KEY"`
	ArkSecretKey string `env:"ARK_SECRET_KEY"`
	ArkModel     string `env:"ARK_MODEL"`
	ArkBaseURL   string `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion    string `env:"ARK_REGION" envDefault:"cn-beijing"`
}

// Enabled 表示所选供应商是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return c.OpenAIKey != ""
	}
}

// LookupConfig 描述天气与逆地理编码服务。
type LookupConfig struct {
	WeatherAPIKey     string `env:"WEATHER_API_KEY"`
	WeatherBaseURL    string `env:"WEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	GeocoderBaseURL   string `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"smart-billboard-v2/1.0"`
}

// StorageConfig 描述食物偏好的持久化后端。
// 所选后端缺少凭证时会静默退回进程内存。
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"dynamodb"`

	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-2"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoDBTable      string `env:"DYNAMODB_TABLE_NAME" envDefault:"billboard-answer"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string `env:"REDIS_KEY" envDefault:"billboard:food-preferences"`

	SQLitePath  string `env:"SQLITE_PATH"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// PrimaryConfigured 表示所选后端是否具备连接所需的配置。
func (c StorageConfig) PrimaryConfigured() bool {
	switch c.Backend {
	case BackendDynamoDB:
		return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
	case BackendRedis:
		return c.RedisAddr != ""
	case BackendSQLite:
		return c.SQLitePath != ""
	case BackendPostgres:
		return c.DatabaseURL != ""
	default:
		return false
	}
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	NoColor bool   `env:"NO_COLOR" envDefault:"false"`
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom 从给定的键值表加载配置，便于测试。
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate 汇总所有配置错误后一次性返回。
func (c *Config) Validate() error {
	var result *multierror.Error

	if port := strings.TrimSpace(c.Server.Port); port == "" || strings.Contains(port, " ") {
		result = multierror.Append(result, fmt.Errorf("invalid PORT value: %q", c.Server.Port))
	}

	switch c.AI.Provider {
	case ProviderOpenAI, ProviderArk:
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported LLM_PROVIDER %q", c.AI.Provider))
	}

	switch c.Storage.Backend {
	case BackendDynamoDB, BackendRedis, BackendSQLite, BackendPostgres:
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend))
	}

	if c.Storage.RedisDB < 0 {
		result = multierror.Append(result, fmt.Errorf("REDIS_DB must be >= 0"))
	}

	return result.ErrorOrNil()
}
