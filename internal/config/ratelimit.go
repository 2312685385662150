package config

import (
	"time"

	"github.com/spf13/viper"
)

// RateLimitConfig drives the Redis token-bucket middleware.  Every client
// key starts with Capacity tokens and regains RefillTokens every
// RefillInterval.  Bucket state expires after TTL of inactivity.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

func loadRateLimit(v *viper.Viper) RateLimitConfig {
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_capacity", 60)
	v.SetDefault("rate_limit_refill_tokens", 1)
	v.SetDefault("rate_limit_refill_interval", time.Second)
	v.SetDefault("rate_limit_ttl", 10*time.Minute)
	v.SetDefault("rate_limit_key_strategy", "ip_user_route")
	v.SetDefault("rate_limit_prefix", "rl")
	v.SetDefault("rate_limit_debug", false)

	def := RateLimitConfig{
		Enabled:        v.GetBool("rate_limit_enabled"),
		Capacity:       v.GetInt("rate_limit_capacity"),
		RefillTokens:   v.GetInt("rate_limit_refill_tokens"),
		RefillInterval: v.GetDuration("rate_limit_refill_interval"),
		TTL:            v.GetDuration("rate_limit_ttl"),
		KeyStrategy:    v.GetString("rate_limit_key_strategy"),
		Prefix:         v.GetString("rate_limit_prefix"),
		Debug:          v.GetBool("rate_limit_debug"),
	}
	if b := v.GetInt("rate_limit_burst"); b > 0 {
		def.Capacity = b
	}
	if every := v.GetDuration("rate_limit_refill_every"); every > 0 {
		def.RefillTokens = 1
		def.RefillInterval = every
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.RefillTokens < 1 {
		def.RefillTokens = 1
	}
	if def.RefillInterval <= 0 {
		def.RefillInterval = time.Second
	}
	minTTL := 5 * def.RefillInterval
	if def.TTL < minTTL {
		def.TTL = minTTL
	}
	return def
}
