package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisProgressStore 管理 Redis 中的 slot 状态记录（幂等控制）。
// 流式订阅可能因重连收到重复 block，处理前先查 slot 状态避免重复输出。
type RedisProgressStore struct {
	rdb *redis.Client

	// Pending 标记的存活时长（近期阈值）：处理中途崩溃的 slot
	// 超时后回到 Unknown，重推时得以重放
	pendingTTL time.Duration
}

// Redis key 前缀，按输出流区分
const (
	instructionPrefix = "progress:instruction:slot"
	accountPrefix     = "progress:account:slot"
	unknownPrefix     = "progress:unknown:slot"
)

// 每类流的 slot TTL（可调）
const (
	instructionTTL = 7 * 24 * time.Hour
	accountTTL     = 3 * 24 * time.Hour
	defaultTTL     = 24 * time.Hour
)

// NewRedisProgressStore 创建 Redis 判重管理器。
// recentThresholdSec 为 Pending 标记的存活秒数，非正值取默认 60 秒。
func NewRedisProgressStore(rdb *redis.Client, recentThresholdSec int) *RedisProgressStore {
	if recentThresholdSec <= 0 {
		recentThresholdSec = 60
	}
	return &RedisProgressStore{
		rdb:        rdb,
		pendingTTL: time.Duration(recentThresholdSec) * time.Second,
	}
}

// getKey 构造 Redis key，按流类型区分
func (r *RedisProgressStore) getKey(slot uint64, kind StreamKind) string {
	var prefix string
	switch kind {
	case StreamInstruction:
		prefix = instructionPrefix
	case StreamAccount:
		prefix = accountPrefix
	default:
		prefix = unknownPrefix
	}
	return fmt.Sprintf("%s:%d", prefix, slot)
}

// getTTL 获取 Redis key 的 TTL，按流类型区分
func (r *RedisProgressStore) getTTL(kind StreamKind) time.Duration {
	switch kind {
	case StreamInstruction:
		return instructionTTL
	case StreamAccount:
		return accountTTL
	default:
		return defaultTTL
	}
}

// GetSlotStatus 获取 slot 的状态（Unknown / Processed / Invalid / Pending）
func (r *RedisProgressStore) GetSlotStatus(ctx context.Context, slot uint64, kind StreamKind) (SlotStatus, error) {
	key := r.getKey(slot, kind)
	val, err := r.rdb.Get(ctx, key).Int()
	switch {
	case err == redis.Nil:
		return SlotUnknown, nil
	case err != nil:
		return SlotUnknown, fmt.Errorf("redis get error: %w", err)
	case val == int(SlotProcessed):
		return SlotProcessed, nil
	case val == int(SlotInvalid):
		return SlotInvalid, nil
	case val == int(SlotPending):
		return SlotPending, nil
	default:
		return SlotUnknown, nil // 容错处理
	}
}

// MarkSlotStatus 通用设置 slot 的状态。Pending 标记只保留近期阈值时长。
func (r *RedisProgressStore) MarkSlotStatus(ctx context.Context, slot uint64, kind StreamKind, status SlotStatus) error {
	key := r.getKey(slot, kind)
	ttl := r.getTTL(kind)
	if status == SlotPending {
		ttl = r.pendingTTL
	}
	return r.rdb.Set(ctx, key, int(status), ttl).Err()
}

// MarkSlotProcessed 标记 slot 为已处理
func (r *RedisProgressStore) MarkSlotProcessed(ctx context.Context, slot uint64, kind StreamKind) error {
	return r.MarkSlotStatus(ctx, slot, kind, SlotProcessed)
}

// MarkSlotInvalid 标记 slot 为无效（结构失败、跳过）
func (r *RedisProgressStore) MarkSlotInvalid(ctx context.Context, slot uint64, kind StreamKind) error {
	return r.MarkSlotStatus(ctx, slot, kind, SlotInvalid)
}

// MarkSlotPending 标记 slot 为正在处理（幂等控制）
func (r *RedisProgressStore) MarkSlotPending(ctx context.Context, slot uint64, kind StreamKind) error {
	return r.MarkSlotStatus(ctx, slot, kind, SlotPending)
}
