package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig tunes the token bucket that guards the public contact form
// and the admin login form.
type RateLimitConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Capacity       int           `yaml:"capacity"`
	RefillTokens   int           `yaml:"refillTokens"`
	RefillInterval time.Duration `yaml:"refillInterval"`
	TTL            time.Duration `yaml:"ttl"`
	KeyStrategy    string        `yaml:"keyStrategy"`
	Prefix         string        `yaml:"prefix"`
	Debug          bool          `yaml:"debug"`
}

func defaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   1,
		RefillInterval: 30 * time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func (r *RateLimitConfig) applyEnv() {
	r.Enabled = envBool("RATE_LIMIT_ENABLED", r.Enabled)
	r.Capacity = envInt("RATE_LIMIT_CAPACITY", r.Capacity)
	r.RefillTokens = envInt("RATE_LIMIT_REFILL_TOKENS", r.RefillTokens)
	r.RefillInterval = envDur("RATE_LIMIT_REFILL_INTERVAL", r.RefillInterval)
	r.TTL = envDur("RATE_LIMIT_TTL", r.TTL)
	r.KeyStrategy = envStr("RATE_LIMIT_KEY_STRATEGY", r.KeyStrategy)
	r.Prefix = envStr("RATE_LIMIT_PREFIX", r.Prefix)
	r.Debug = envBool("RATE_LIMIT_DEBUG", r.Debug)
	if b := envInt("RATE_LIMIT_BURST", -1); b > 0 {
		r.Capacity = b
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		r.RefillTokens = 1
		r.RefillInterval = every
	}
}

func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if r.Prefix == "" {
		r.Prefix = "rl"
	}
	minTTL := 5 * r.RefillInterval
	if r.TTL < minTTL {
		r.TTL = minTTL
	}
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

// envList reads a comma-separated list, lower-cased and trimmed.
func envList(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	out := make([]string, 0, 8)
	for _, p := range strings.Split(v, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return d
	}
	return out
}
