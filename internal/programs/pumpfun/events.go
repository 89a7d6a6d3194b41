package pumpfun

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"

	"github.com/near/borsh-go"
)

// TradeEvent 为每笔 buy/sell 成交后程序通过 self-CPI 落盘的事件。
type TradeEvent struct {
	Mint                 types.Pubkey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 types.Pubkey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	RealSolReserves      uint64
	RealTokenReserves    uint64
}

// CreateEvent 为代币发射事件。
type CreateEvent struct {
	Name         string
	Symbol       string
	URI          string
	Mint         types.Pubkey
	BondingCurve types.Pubkey
	User         types.Pubkey
}

// ParsedEvent 是事件解码产物。
type ParsedEvent struct {
	Variant string
	Event   any // *TradeEvent / *CreateEvent
}

// IsEventCPI 判断一条指令数据是否为 anchor 事件自调用
// （前 8 字节等于固定事件标签）。
func IsEventCPI(data []byte) bool {
	return codec.MatchDiscriminator(data, eventCPITag)
}

// ParseEvent 解码事件自调用的指令数据。
// 布局：8 字节事件标签 + 8 字节事件标识 + borsh 编码的事件体。
// 事件标识未命中返回 ErrInvalidDiscriminator（可能是未集成的新事件类型）。
func ParseEvent(data []byte) (*ParsedEvent, error) {
	if !IsEventCPI(data) {
		return nil, fmt.Errorf("%w: not an event cpi", decode.ErrInvalidDiscriminator)
	}
	body := data[codec.DiscriminatorLen:]
	disc, ok := codec.PeekDiscriminator(body)
	if !ok {
		return nil, codec.ErrTruncated
	}
	variant, ok := eventVariants[disc]
	if !ok {
		return nil, fmt.Errorf("%w: event %s", decode.ErrInvalidDiscriminator, disc.Hex())
	}
	payload := body[codec.DiscriminatorLen:]

	switch variant {
	case VariantTradeEvent:
		event := &TradeEvent{}
		if err := borsh.Deserialize(event, payload); err != nil {
			return nil, fmt.Errorf("%w: trade event: %v", codec.ErrTruncated, err)
		}
		return &ParsedEvent{Variant: variant, Event: event}, nil
	case VariantCreateEvent:
		event := &CreateEvent{}
		if err := borsh.Deserialize(event, payload); err != nil {
			return nil, fmt.Errorf("%w: create event: %v", codec.ErrTruncated, err)
		}
		return &ParsedEvent{Variant: variant, Event: event}, nil
	}
	return nil, decode.ErrInvalidDiscriminator
}
