package config

import (
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Init 加载配置：先读取 config.yaml，再用环境变量覆盖
// 环境变量优先级高于配置文件，便于容器化部署时注入敏感信息
func Init() {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		cfg := defaultConfig()

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				log.Fatalf("读取配置文件失败: %v", err)
			}
			// 没有配置文件时完全依赖环境变量和默认值
		} else if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("解析配置文件失败: %v", err)
		}

		if err := envconfig.Process("CROP", cfg); err != nil {
			log.Fatalf("读取环境变量失败: %v", err)
		}

		if cfg.Mode != ModeRelease {
			cfg.Mode = ModeDebug
		}
		instance = cfg
	})
}

// Get 获取全局配置，必须先调用 Init
func Get() *Config {
	if instance == nil {
		Init()
	}
	return instance
}

func defaultConfig() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Mysql: Mysql{
			Host: "127.0.0.1",
			Port: "3306",
		},
		Redis: Redis{
			Host:         "127.0.0.1",
			Port:         "6379",
			DashboardTTL: 60,
		},
		JWT: JWT{
			AccessSecret: "crop-tracking-secret",
			AccessExpire: 72 * 3600,
		},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// SetForTest 测试专用：直接注入配置，跳过文件和环境变量加载
func SetForTest(cfg *Config) {
	once.Do(func() {})
	instance = cfg
}
