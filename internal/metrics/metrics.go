package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Kafka消费指标
	KafkaMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total number of messages consumed from Kafka",
		},
		[]string{"topic"},
	)

	KafkaBytesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_bytes_consumed_total",
			Help: "Total bytes consumed from Kafka",
		},
		[]string{"topic"},
	)

	KafkaFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_fetch_errors_total",
			Help: "Total number of Kafka fetch errors",
		},
		[]string{"topic"},
	)

	// 分发指标
	DispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_errors_total",
			Help: "Total number of failed message dispatches",
		},
		[]string{"topic", "error_type"},
	)

	DispatchSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_skipped_total",
			Help: "Total number of messages on topics without callbacks",
		},
		[]string{"topic"},
	)

	CallbackDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_callback_duration_seconds",
			Help:    "Time until all callbacks for a message returned",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)

	Subscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_subscribers",
			Help: "Number of callbacks registered per topic",
		},
		[]string{"topic"},
	)

	// 偏移量操作指标
	PartitionPauses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_partition_pauses_total",
			Help: "Total number of partition pauses",
		},
		[]string{"topic"},
	)

	OffsetCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_offset_commits_total",
			Help: "Total number of explicit offset commits",
		},
		[]string{"topic", "status"},
	)

	OffsetRollbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_offset_rollbacks_total",
			Help: "Total number of partition rewinds",
		},
		[]string{"topic", "reason"},
	)
)
