package config

import "sol-decoder/pkg/logger"

// LogConfig 表示日志配置
type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics struct {
		Instruction string `yaml:"instruction"` // 解码后指令记录的 topic
		Account     string `yaml:"account"`     // 解码后账户记录的 topic
	} `yaml:"topics"`

	Partitions struct {
		Instruction int `yaml:"instruction"` // instruction topic 的分区数
		Account     int `yaml:"account"`     // account topic 的分区数
	} `yaml:"partitions"`
}

// IndexerConfig 是主配置结构体，用于驱动解码服务
type IndexerConfig struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置

	RedisAddr    string `yaml:"redis_addr"` // Redis 地址（slot 进度判重）
	ProgressConf struct {
		RecentThresholdSec int `yaml:"recent_threshold_sec"` // 判定为“近期 block”的时间阈值（秒）
	} `yaml:"progress"`

	// 每个 slot 的发送最大耗时（Kafka ack 等待）
	SlotSendTimeoutMs int `yaml:"slot_send_timeout_ms"`

	// gRPC 客户端连接相关配置
	Grpc struct {
		Endpoint string `yaml:"endpoint"` // gRPC 服务端地址
		XToken   string `yaml:"x_token"`  // x-token 认证

		// 应用级逻辑心跳（ping）配置
		StreamPingIntervalSec int `yaml:"stream_ping_interval_sec"` // 应用层 ping 心跳间隔（秒）

		// gRPC Keepalive 底层连接检测配置
		KeepalivePingIntervalSec int `yaml:"keepalive_ping_interval_sec"` // 底层 keepalive 间隔（秒）
		KeepalivePingTimeoutSec  int `yaml:"keepalive_ping_timeout_sec"`  // 底层 keepalive 超时（秒）

		// gRPC 窗口大小调优（用于大数据流推送）
		InitialWindowSize     int `yaml:"initial_window_size"`      // 单流窗口大小（字节）
		InitialConnWindowSize int `yaml:"initial_conn_window_size"` // 整体连接窗口大小（字节）

		// 消息体大小限制
		MaxCallSendMsgSize int `yaml:"max_call_send_msg_size"` // 单条消息最大发送字节数
		MaxCallRecvMsgSize int `yaml:"max_call_recv_msg_size"` // 单条消息最大接收字节数

		// 超时与重连策略
		ReconnectIntervalSec int `yaml:"reconnect_interval_sec"` // 重连最小间隔（秒）
		ConnectTimeoutSec    int `yaml:"connect_timeout_sec"`    // 连接建立超时（秒）
		SendTimeoutSec       int `yaml:"send_timeout_sec"`       // 发送超时（秒）
		RecvTimeoutSec       int `yaml:"recv_timeout_sec"`       // 接收超时（秒）
		BlockRecvTimeoutSec  int `yaml:"block_recv_timeout_sec"` // block 接收超时（秒）
	} `yaml:"grpc"`
}
