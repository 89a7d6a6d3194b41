package svc

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"

	"sol-decoder/internal/config"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/logic/progress"
	"sol-decoder/internal/mq"
	"sol-decoder/internal/programs"
	"sol-decoder/pkg/logger"
)

// ServiceContext 包含解码服务的共享资源。
type ServiceContext struct {
	Config     config.IndexerConfig
	Dispatcher *decode.Dispatcher           // 已注册全部内置 parser 的调度器
	Producer   *kafka.Producer              // Kafka 生产者
	Progress   *progress.RedisProgressStore // slot 进度判重
}

// NewServiceContext 创建一个新的服务上下文。
func NewServiceContext(c config.IndexerConfig) (*ServiceContext, error) {
	// 1. 初始化 Kafka 生产者（含 topic 自动创建）
	producer, err := mq.NewKafkaProducer(c.KafkaProducerConf)
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	// 2. 初始化 Redis 客户端（用于 slot 状态缓存）
	rdb := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr, // eg: "127.0.0.1:6379"
	})

	ctx := &ServiceContext{
		Config:     c,
		Dispatcher: programs.NewDispatcher(),
		Producer:   producer,
		Progress:   progress.NewRedisProgressStore(rdb, c.ProgressConf.RecentThresholdSec),
	}

	logger.Infof("服务上下文初始化完成")
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Close()
	}
}
