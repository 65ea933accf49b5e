package config

import (
	"fmt"

	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
)

// Validate 验证配置
func Validate(cfg *Config) error {
	// 验证Kafka配置
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New(errors.ErrCodeConfigValidate, "kafka.brokers is required")
	}
	if cfg.Kafka.GroupID == "" {
		return errors.New(errors.ErrCodeConfigValidate, "kafka.group_id is required")
	}
	if cfg.Kafka.MaxFetchBytes <= 0 {
		return errors.New(errors.ErrCodeConfigValidate, "kafka.max_fetch_bytes must be positive")
	}
	if cfg.Kafka.ConcurrencyFactor <= 0 {
		cfg.Kafka.ConcurrencyFactor = 1
	}
	if cfg.Kafka.PauseTimeoutMs <= 0 {
		return errors.New(errors.ErrCodeConfigValidate, "kafka.pause_timeout_ms must be positive")
	}
	if cfg.Kafka.ConnectRetries < 0 {
		return errors.New(errors.ErrCodeConfigValidate, "kafka.connect_retries must not be negative")
	}
	if cfg.Kafka.SessionTimeout > 0 && cfg.Kafka.HeartbeatInterval >= cfg.Kafka.SessionTimeout {
		return errors.New(errors.ErrCodeConfigValidate, "kafka.heartbeat_interval must be less than kafka.session_timeout")
	}

	// 验证SASL配置
	switch cfg.Kafka.SASL.Mechanism {
	case "":
	case "plain", "scram-sha-256", "scram-sha-512":
		if cfg.Kafka.SASL.Username == "" {
			return errors.New(errors.ErrCodeConfigValidate, "kafka.sasl.username is required when sasl is enabled")
		}
	default:
		return errors.New(errors.ErrCodeConfigValidate,
			fmt.Sprintf("kafka.sasl.mechanism %q is not supported", cfg.Kafka.SASL.Mechanism))
	}

	// 验证订阅配置
	seen := make(map[string]struct{}, len(cfg.Subscriptions))
	for i, sub := range cfg.Subscriptions {
		if sub.Topic == "" {
			return errors.New(errors.ErrCodeConfigValidate, fmt.Sprintf("subscriptions[%d].topic is required", i))
		}
		if _, ok := seen[sub.Topic]; ok {
			return errors.New(errors.ErrCodeConfigValidate, fmt.Sprintf("subscriptions[%d].topic %q is duplicated", i, sub.Topic))
		}
		seen[sub.Topic] = struct{}{}
	}

	// 验证监控配置
	if cfg.Metrics.Enabled && cfg.Metrics.Port <= 0 {
		return errors.New(errors.ErrCodeConfigValidate, "metrics.port must be positive when enabled")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// 验证pprof配置
	if cfg.Pprof.Enabled && cfg.Pprof.Port <= 0 {
		return errors.New(errors.ErrCodeConfigValidate, "pprof.port must be positive when enabled")
	}

	// 验证端口冲突
	if cfg.Metrics.Enabled && cfg.Pprof.Enabled && cfg.Metrics.Port == cfg.Pprof.Port {
		return errors.New(errors.ErrCodeConfigValidate, "metrics.port and pprof.port cannot be the same")
	}

	return nil
}

// String 返回配置的字符串表示（隐藏敏感信息）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Kafka: %v, Group: %s, Topics: %v, Concurrency: %d, SASL: %s}",
		c.Kafka.Brokers,
		c.Kafka.GroupID,
		c.Topics(),
		c.Kafka.ConcurrencyFactor,
		c.Kafka.SASL.Mechanism,
	)
}
