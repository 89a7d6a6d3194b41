// Package pumpfun 解码 Pump.fun 程序（Anchor 族）的指令、账户与事件。
//
// 三类实体均使用 8 字节 SHA-256 截断标识：
// 指令为 sha256("global:<name>")[0:8]，账户为 sha256("account:<Name>")[0:8]，
// 事件为 sha256("event:<Name>")[0:8]。事件通过程序自调用（self-CPI）落在
// inner 指令数据中，前缀为固定的 anchor 事件标签 + 事件标识。
package pumpfun

import "sol-decoder/internal/codec"

// 指令变体名（IDL 声明名）。
const (
	VariantCreate = "create"
	VariantBuy    = "buy"
	VariantSell   = "sell"
)

// 账户变体名。
const (
	VariantGlobal       = "Global"
	VariantBondingCurve = "BondingCurve"
)

// 事件变体名。
const (
	VariantTradeEvent  = "TradeEvent"
	VariantCreateEvent = "CreateEvent"
)

// 初始化期一次性推导的标识常量。注册后只读，可无锁并发查询。
var (
	discCreate = codec.InstructionDiscriminator(VariantCreate)
	discBuy    = codec.InstructionDiscriminator(VariantBuy)
	discSell   = codec.InstructionDiscriminator(VariantSell)

	discGlobal       = codec.AccountDiscriminator(VariantGlobal)
	discBondingCurve = codec.AccountDiscriminator(VariantBondingCurve)

	discTradeEvent  = codec.EventDiscriminator(VariantTradeEvent)
	discCreateEvent = codec.EventDiscriminator(VariantCreateEvent)

	// eventCPITag 是 anchor 事件自调用指令的固定前缀：
	// sha256("anchor:event")[0:8] 按小端 u64 解释后的字节序。
	eventCPITag = codec.Discriminator{0xe4, 0x45, 0xa5, 0x2e, 0x51, 0xcb, 0x9a, 0x1d}
)

// ixVariants / accountVariants / eventVariants 为标识 → 变体名查找表。
var (
	ixVariants = map[codec.Discriminator]string{
		discCreate: VariantCreate,
		discBuy:    VariantBuy,
		discSell:   VariantSell,
	}
	accountVariants = map[codec.Discriminator]string{
		discGlobal:       VariantGlobal,
		discBondingCurve: VariantBondingCurve,
	}
	eventVariants = map[codec.Discriminator]string{
		discTradeEvent:  VariantTradeEvent,
		discCreateEvent: VariantCreateEvent,
	}
)
