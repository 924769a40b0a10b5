package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds settings for `breadcrush serve`, read from the environment.
type ServerConfig struct {
	HTTPAddr     string
	SSHAddr      string
	SSHHostKey   string
	RedisAddr    string
	AMQPURL      string
	AMQPExchange string
	IdleTimeout  time.Duration
	MaxSessions  int
	TickRate     int
}

// ServerFromEnv reads BREADCRUSH_* and collaborator variables.
// Empty REDIS_ADDR or AMQP_URL leaves that collaborator disabled.
func ServerFromEnv() ServerConfig {
	return ServerConfig{
		HTTPAddr:     getEnv("BREADCRUSH_HTTP_ADDR", ":8080"),
		SSHAddr:      getEnv("BREADCRUSH_SSH_ADDR", ""),
		SSHHostKey:   getEnv("BREADCRUSH_SSH_HOST_KEY", ".ssh/breadcrush_ed25519"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "breadcrush.loyalty"),
		IdleTimeout:  getDuration("BREADCRUSH_IDLE_TIMEOUT", 30*time.Minute),
		MaxSessions:  getInt("BREADCRUSH_MAX_SESSIONS", 1000),
		TickRate:     getInt("BREADCRUSH_TICK_RATE", 20),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
