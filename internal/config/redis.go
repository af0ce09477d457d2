package config

// Redis backs the admin session store and the login/contact rate limiter.
// When it is disabled or unreachable at startup the constructor returns nil
// and callers fall back to in-process sessions and an open limiter.

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection parameters for the optional Redis server.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{Addr: "localhost:6379"}
}

// applyEnv reads REDIS_ENABLED, REDIS_HOST/REDIS_PORT (which take precedence
// over REDIS_ADDR), REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
func (r *RedisConfig) applyEnv() {
	r.Enabled = envBool("REDIS_ENABLED", r.Enabled)
	r.Addr = envStr("REDIS_ADDR", r.Addr)
	host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		r.Addr = host + ":" + port
	}
	r.Password = envStr("REDIS_PASSWORD", r.Password)
	r.DB = envInt("REDIS_DB", r.DB)
	if tlsEnv := envStr("REDIS_TLS", ""); strings.EqualFold(tlsEnv, "true") || tlsEnv == "1" {
		r.TLS = true
	}
}

// NewRedisClient instantiates a Redis client from cfg. The returned client
// is nil when Redis is disabled or a ping fails.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	// Ping the server with a short timeout.  Return nil on failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
