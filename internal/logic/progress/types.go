package progress

// SlotStatus 表示 slot 的处理状态（Redis 编码）
type SlotStatus int

const (
	SlotUnknown   SlotStatus = 0 // Redis 不存在
	SlotProcessed SlotStatus = 1 // 已处理成功
	SlotInvalid   SlotStatus = 2 // 明确结构错误、跳过
	SlotPending   SlotStatus = 3 // Redis 标记中，暂未完成
)

// StreamKind 表示不同的解码输出流（用于区分 Redis key）
type StreamKind int

const (
	StreamInstruction StreamKind = 0 // 指令解码流
	StreamAccount     StreamKind = 1 // 账户解码流
)

func (k StreamKind) String() string {
	switch k {
	case StreamInstruction:
		return "instruction"
	case StreamAccount:
		return "account"
	default:
		return "unknown"
	}
}
