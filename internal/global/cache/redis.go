package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crop-tracking-system/config"
	"crop-tracking-system/internal/global/sentry/tracing"
)

var (
	Client *redis.Client
	ctx    = context.Background()
)

// Init 初始化 Redis 连接，连接失败返回错误由调用方决定是否降级
func Init() error {
	cfg := config.Get().Redis

	Client = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := Client.Ping(ctx).Err(); err != nil {
		Client = nil
		return err
	}

	// Sentry 慢操作追踪
	if config.Get().Sentry.Dsn != "" {
		Client.AddHook(tracing.NewRedisSentryHook())
	}

	return nil
}

// Enabled Redis 不可用时所有缓存操作静默跳过，业务直接落库
func Enabled() bool {
	return Client != nil
}

// Set 序列化后写入缓存
func Set(key string, value interface{}, expiration time.Duration) error {
	if !Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("缓存序列化失败: %w", err)
	}
	return Client.Set(ctx, key, data, expiration).Err()
}

// Get 读取缓存并反序列化到 dest，未命中返回 redis.Nil
func Get(key string, dest interface{}) error {
	if !Enabled() {
		return redis.Nil
	}
	val, err := Client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Delete 删除若干键，用于写操作后的缓存失效
func Delete(keys ...string) error {
	if !Enabled() || len(keys) == 0 {
		return nil
	}
	return Client.Del(ctx, keys...).Err()
}

// Close 关闭连接
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
