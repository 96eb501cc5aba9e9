// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Conversation  ConversationConfig  `mapstructure:"conversation"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Google        GoogleConfig        `mapstructure:"google"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Log           LogConfig           `mapstructure:"log"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Assistant     AssistantConfig     `mapstructure:"assistant"`
	Weather       WeatherConfig       `mapstructure:"weather"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	CORS          CORSConfig          `mapstructure:"cors"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储关系型数据库的配置。
// Driver 可选 mysql、postgres、sqlite。
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Seed   bool   `mapstructure:"seed"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ConversationConfig 决定对话记录存放在哪里：database、redis 或 memory。
type ConversationConfig struct {
	Store string `mapstructure:"store"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// GoogleConfig 存储 Google 登录的配置。
type GoogleConfig struct {
	ClientID string `mapstructure:"client_id"`
}

// AuthConfig 存储授权相关的配置。
type AuthConfig struct {
	AdminEmails []string `mapstructure:"admin_emails"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	Enabled        bool                `mapstructure:"enabled"`
	APIKey         string              `mapstructure:"api_key"`
	BaseURL        string              `mapstructure:"base_url"`
	Model          string              `mapstructure:"model"`
	TimeoutSeconds int                 `mapstructure:"timeout_seconds"`
	Generation     LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 是调用方未指定时使用的默认生成参数。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// AssistantConfig 存储问答助手的配置。
type AssistantConfig struct {
	MaxQuestionLength int `mapstructure:"max_question_length"`
}

// WeatherConfig 存储天气服务的配置。
type WeatherConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	CacheMaxAgeMins int    `mapstructure:"cache_max_age_minutes"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Endpoint            string `mapstructure:"endpoint"`
	AccessKeyID         string `mapstructure:"access_key_id"`
	SecretAccessKey     string `mapstructure:"secret_access_key"`
	UseSSL              bool   `mapstructure:"use_ssl"`
	Region              string `mapstructure:"region"`
	BucketName          string `mapstructure:"bucket_name"`
	PresignExpiryMinute int    `mapstructure:"presign_expiry_minutes"`
}

// CORSConfig 存储跨域相关的配置。
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// BrokerList 将逗号分隔的 broker 地址拆分为切片。
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// IsAdminEmail 判断邮箱是否属于管理员名单（忽略大小写）。
func (a AuthConfig) IsAdminEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, e := range a.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:farm-assist.db?_foreign_keys=on")
	v.SetDefault("database.seed", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("conversation.store", "database")
	v.SetDefault("jwt.access_token_expire_hours", 24)
	v.SetDefault("jwt.refresh_token_expire_days", 7)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("llm.generation.temperature", 0.7)
	v.SetDefault("llm.generation.max_tokens", 500)
	v.SetDefault("assistant.max_question_length", 2000)
	v.SetDefault("weather.base_url", "https://api.weatherapi.com/v1")
	v.SetDefault("weather.cache_max_age_minutes", 30)
	v.SetDefault("weather.timeout_seconds", 10)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "assistant.events")
	v.SetDefault("kafka.group_id", "farm-assist-stats")
	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.addresses", "http://localhost:9200")
	v.SetDefault("elasticsearch.index_name", "farm_content")
	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.bucket_name", "farm-content")
	v.SetDefault("minio.presign_expiry_minutes", 60)
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})

	// 以下键没有默认值，注册空值后才能被环境变量覆盖
	for _, key := range []string{
		"redis.password", "jwt.secret", "google.client_id", "log.output_path",
		"llm.api_key", "weather.api_key", "elasticsearch.username", "elasticsearch.password",
		"minio.endpoint", "minio.access_key_id", "minio.secret_access_key",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("auth.admin_emails", []string{})
	v.SetDefault("llm.generation.top_p", 0.0)
	v.SetDefault("minio.use_ssl", false)
}

// Load 从指定路径读取 YAML 配置，环境变量（FARM_ 前缀）优先于文件。
// 路径为空时只使用默认值和环境变量。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FARM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return &cfg, nil
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = *cfg
}
