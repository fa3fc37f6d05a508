package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Consul   ConsulConfig   `json:"consul"`
	Jaeger   JaegerConfig   `json:"jaeger"`
	Log      LogConfig      `json:"log"`
	Reports  ReportsConfig  `json:"reports"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name     string `json:"name"`      // 服务名称
	Host     string `json:"host"`      // 服务地址
	HTTPPort int    `json:"http_port"` // HTTP端口
}

// DatabaseConfig 数据库配置。
// driver 支持 mysql（托管库）与 sqlite（单文件嵌入式），两种后端行为一致。
type DatabaseConfig struct {
	Driver   string `json:"driver"`   // mysql / sqlite
	Host     string `json:"host"`     // 数据库地址（mysql）
	Port     int    `json:"port"`     // 数据库端口（mysql）
	User     string `json:"user"`     // 用户名（mysql）
	Password string `json:"password"` // 密码（mysql）
	Database string `json:"database"` // 数据库名（mysql）
	Path     string `json:"path"`     // 数据文件路径（sqlite）
	MaxIdle  int    `json:"max_idle"` // 最大空闲连接
	MaxOpen  int    `json:"max_open"` // 最大打开连接
}

// AuthConfig 登录态配置（后台员工 + 商城用户共用同一套 JWT 签发）。
type AuthConfig struct {
	Enabled   bool     `json:"enabled"`
	JWTSecret string   `json:"jwt_secret"`
	Issuer    string   `json:"issuer"`
	Audience  string   `json:"audience"`
	TokenTTL  int      `json:"token_ttl_hours"` // 小时，<=0 取 24
	Public    []string `json:"public_paths"`    // 免鉴权的路径前缀
}

// ConsulConfig Consul配置
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// ConfigKey 非空时，整份配置改从 Consul KV 的该 key 读取，
	// 本地文件只负责提供 Consul 地址。
	ConfigKey string `json:"config_key"`
}

// JaegerConfig Jaeger配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // 日志文件路径
}

// ReportsConfig 删除车辆存档报告的落盘位置。
type ReportsConfig struct {
	Dir string `json:"dir"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig 加载配置
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		// 如果配置文件不存在，使用默认配置
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

// defaultConfig 默认配置（开发环境：嵌入式 sqlite，免去本地装 MySQL）
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "admin-service",
			Host:     "0.0.0.0",
			HTTPPort: 8080,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "dev.db",
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "dealerdesk",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Auth: AuthConfig{
			Enabled:   false,
			Issuer:    "dealerdesk",
			Audience:  "dealerdesk-admin",
			TokenTTL:  24,
			Public:    []string{"/healthz", "/api/login", "/api/marketplace/auth", "/api/website", "/api/public", "/ws"},
			JWTSecret: "",
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "http://localhost:14268/api/traces",
			Sampler:  1.0,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
		Reports: ReportsConfig{
			Dir: "public/deleted-vehicles",
		},
	}
}
