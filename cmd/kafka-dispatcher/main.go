package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kafka-dispatcher/kafka-dispatcher/internal/app"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/config"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/consumer"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/serde"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "config file path")
	version    = "1.0.0"
)

func main() {
	flag.Parse()

	fmt.Printf("Kafka-Dispatcher v%s\n", version)
	fmt.Printf("Loading config from: %s\n", *configPath)

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("kafka-dispatcher starting",
		zap.String("version", version),
		zap.String("config", cfg.String()),
	)

	// 3. 创建Kafka客户端
	client, err := consumer.NewFranzClient(cfg.Kafka)
	if err != nil {
		logger.Fatal("failed to create kafka client", zap.Error(err))
	}

	// 4. 创建Consumer并注册订阅
	c := consumer.NewConsumer[string, json.RawMessage](cfg.Kafka, client, serde.String{}, serde.JSON[json.RawMessage]{})
	for _, sub := range cfg.Subscriptions {
		c.Subscribe(sub.Topic, logCallback(c, sub))
	}

	// 5. 运行直到收到关闭信号
	if err := app.New(*cfg, c).Run(context.Background()); err != nil {
		logger.Fatal("kafka-dispatcher exited with error", zap.Error(err))
	}

	logger.Info("kafka-dispatcher stopped")
}

// logCallback 记录每条消息，按订阅配置显式提交或暂停分区
func logCallback(
	c *consumer.Consumer[string, json.RawMessage],
	sub config.SubscriptionConfig,
) consumer.Callback[string, json.RawMessage] {
	return func(ctx context.Context, msg *consumer.Message[string, json.RawMessage]) error {
		logger.Info("message received",
			zap.String("topic", msg.Topic),
			zap.Int32("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.String("key", msg.Key),
			zap.Any("headers", msg.Headers),
			zap.ByteString("value", msg.Value),
		)

		if sub.Commit {
			if err := c.Commit(ctx, msg); err != nil {
				return err
			}
		}
		if sub.PauseAfterMessage {
			c.Pause(msg.Topic, msg.Partition, 0)
		}
		return nil
	}
}
