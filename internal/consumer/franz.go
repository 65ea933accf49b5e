package consumer

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"

	"github.com/kafka-dispatcher/kafka-dispatcher/internal/config"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"go.uber.org/zap"
)

// NewFranzClient 创建franz-go客户端；topic在Consumer.Start时按注册顺序添加
func NewFranzClient(cfg config.KafkaConfig) (*kgo.Client, error) {
	opts, err := clientOpts(cfg)
	if err != nil {
		return nil, err
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeKafkaConnect, "failed to create kafka client", err)
	}

	logger.Info("kafka client created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("group_id", cfg.GroupID),
		zap.String("client_id", cfg.ClientID),
		zap.Bool("auto_commit", cfg.AutoCommit),
	)

	return client, nil
}

// clientOpts 将配置翻译为kgo选项
func clientOpts(cfg config.KafkaConfig) ([]kgo.Opt, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.FetchMaxBytes(int32(cfg.MaxFetchBytes)),
		kgo.WithLogger(logger.KgoLogger()),
	}

	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.SessionTimeout > 0 {
		opts = append(opts, kgo.SessionTimeout(time.Duration(cfg.SessionTimeout)*time.Second))
	}
	if cfg.HeartbeatInterval > 0 {
		opts = append(opts, kgo.HeartbeatInterval(time.Duration(cfg.HeartbeatInterval)*time.Second))
	}

	if cfg.FromEarliest {
		opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()))
	} else {
		opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()))
	}

	// 自动提交只提交回调成功后标记的offset
	if cfg.AutoCommit {
		opts = append(opts, kgo.AutoCommitMarks())
	} else {
		opts = append(opts, kgo.DisableAutoCommit())
	}

	switch cfg.SASL.Mechanism {
	case "plain":
		opts = append(opts, kgo.SASL(plain.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsMechanism()))
	case "scram-sha-256":
		opts = append(opts, kgo.SASL(scram.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsSha256Mechanism()))
	case "scram-sha-512":
		opts = append(opts, kgo.SASL(scram.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsSha512Mechanism()))
	}

	if cfg.TLS.Enabled {
		tlsCfg, err := tlsConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}

	return opts, nil
}

func tlsConfig(cfg config.TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CAFile == "" {
		return tlsCfg, nil
	}

	pem, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeKafkaConnect, "failed to read tls ca file", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New(errors.ErrCodeKafkaConnect, "no certificates found in tls ca file")
	}
	tlsCfg.RootCAs = pool

	return tlsCfg, nil
}
