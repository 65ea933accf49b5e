package config

import (
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
)

// Config 全局配置
type Config struct {
	Kafka         KafkaConfig          `yaml:"kafka"`
	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
	Log           logger.Config        `yaml:"log"`
	Metrics       MetricsConfig        `yaml:"metrics"`
	Pprof         PprofConfig          `yaml:"pprof"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers           []string   `yaml:"brokers"`
	ClientID          string     `yaml:"client_id"`
	GroupID           string     `yaml:"group_id"`
	FromEarliest      bool       `yaml:"from_earliest"`
	MaxFetchBytes     int        `yaml:"max_fetch_bytes"`
	SessionTimeout    int        `yaml:"session_timeout"`    // 秒
	HeartbeatInterval int        `yaml:"heartbeat_interval"` // 秒
	ConcurrencyFactor int        `yaml:"concurrency_factor"` // 同时处理的分区数
	AutoCommit        bool       `yaml:"auto_commit"`        // 回调成功后自动提交
	PauseTimeoutMs    int        `yaml:"pause_timeout_ms"`   // Pause默认恢复时间
	ConnectRetries    int        `yaml:"connect_retries"`
	SASL              SASLConfig `yaml:"sasl"`
	TLS               TLSConfig  `yaml:"tls"`
}

// SASLConfig SASL认证配置
type SASLConfig struct {
	Mechanism string `yaml:"mechanism"` // "", plain, scram-sha-256, scram-sha-512
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// TLSConfig TLS配置
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	CAFile             string `yaml:"ca_file"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// SubscriptionConfig 命令行程序的订阅配置
type SubscriptionConfig struct {
	Topic             string `yaml:"topic"`
	Commit            bool   `yaml:"commit"`              // 每条消息处理后显式提交
	PauseAfterMessage bool   `yaml:"pause_after_message"` // 每条消息后暂停分区 pause_timeout_ms
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// PprofConfig pprof配置
type PprofConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Kafka: KafkaConfig{
			Brokers:           []string{"localhost:9092"},
			ClientID:          "kafka-dispatcher",
			GroupID:           "kafka-dispatcher-group",
			FromEarliest:      true,
			MaxFetchBytes:     52428800, // 50MB
			SessionTimeout:    30,
			HeartbeatInterval: 3,
			ConcurrencyFactor: 1,
			AutoCommit:        true,
			PauseTimeoutMs:    300,
			ConnectRetries:    3,
		},
		Log: logger.Config{
			Level:          "info",
			Output:         "stdout",
			Format:         "json",
			EnableSampling: false,
			MaxSize:        100,
			MaxAge:         7,
			MaxBackups:     10,
			ClientLevel:    "warn",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Pprof: PprofConfig{
			Enabled: false,
			Port:    6060,
		},
	}
}

// Topics 返回订阅的topic列表，保持配置顺序
func (c *Config) Topics() []string {
	topics := make([]string, 0, len(c.Subscriptions))
	for _, sub := range c.Subscriptions {
		topics = append(topics, sub.Topic)
	}
	return topics
}
