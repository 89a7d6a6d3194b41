package programs

import (
	"testing"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/consts"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/programs/pumpfun"
	"sol-decoder/internal/programs/system"
	"sol-decoder/internal/types"
)

// 端到端：还原调用树后经调度器解码，未注册程序静默，失败结果隔离。
func TestDispatcherEndToEnd(t *testing.T) {
	d := NewDispatcher()

	keys := []types.Pubkey{
		consts.TokenProgram,  // 0
		consts.SystemProgram, // 1
		{10}, {11}, {12},     // 2..4 普通账户
		{99}, // 5 未注册程序
	}

	transferData := codec.NewWriter().
		WriteU8(uint8(sdktoken.InstructionTransfer)).
		WriteU64(1234).
		Bytes()
	systemData := codec.NewWriter().
		WriteU32(system.TagTransfer).
		WriteU64(5678).
		Bytes()

	outer := []decode.RawInstruction{
		// token transfer，inner 含 system transfer
		{ProgramIDIndex: 0, AccountIndexes: []uint32{2, 3, 4}, Data: transferData},
		// 未注册程序：调度结果中不应出现
		{ProgramIDIndex: 5, AccountIndexes: []uint32{2}, Data: []byte{1, 2, 3}},
		// token 指令但数据非法：失败结果而非中断
		{ProgramIDIndex: 0, AccountIndexes: []uint32{2, 3, 4}, Data: []byte{0xEE}},
	}
	groups := []decode.RawInnerGroup{{
		OuterIndex: 0,
		Instructions: []decode.RawInnerInstruction{{
			RawInstruction: decode.RawInstruction{ProgramIDIndex: 1, AccountIndexes: []uint32{2, 3}, Data: systemData},
			StackHeight:    2,
		}},
	}}

	roots, err := decode.BuildInstructionTree(keys, outer, groups)
	require.NoError(t, err)

	outcomes := d.DispatchForest(roots)
	require.Len(t, outcomes, 3)

	// 执行顺序：token transfer → inner system transfer → 非法 token 指令
	assert.Equal(t, decode.StatusDecoded, outcomes[0].Status)
	assert.Equal(t, "transfer", outcomes[0].Instruction.Variant)
	assert.Equal(t, consts.TokenProgram, outcomes[0].Program)

	assert.Equal(t, decode.StatusDecoded, outcomes[1].Status)
	assert.Equal(t, "transfer", outcomes[1].Instruction.Variant)
	assert.Equal(t, consts.SystemProgram, outcomes[1].Program)
	assert.Equal(t, uint32(2), outcomes[1].Update.StackHeight)

	assert.Equal(t, decode.StatusFailed, outcomes[2].Status)
	assert.ErrorIs(t, outcomes[2].Err, decode.ErrInvalidDiscriminator)
}

// Pump.fun 成交后通过 self-CPI 落盘的事件，经调度器产出事件记录而非失败结果。
func TestDispatcherPumpFunEventCPI(t *testing.T) {
	d := NewDispatcher()

	body, err := borsh.Serialize(pumpfun.TradeEvent{
		Mint:        types.Pubkey{1},
		SolAmount:   1_000_000_000,
		TokenAmount: 34_612_903_225,
		IsBuy:       true,
		User:        types.Pubkey{3},
		Timestamp:   1700000000,
	})
	require.NoError(t, err)

	eventTag := []byte{0xe4, 0x45, 0xa5, 0x2e, 0x51, 0xcb, 0x9a, 0x1d}
	disc := codec.EventDiscriminator("TradeEvent")
	eventData := append(append(eventTag, disc[:]...), body...)

	buyDisc := codec.InstructionDiscriminator("buy")
	buyData := codec.NewWriter().
		WriteBytes(buyDisc[:]).
		WriteU64(34_612_903_225).
		WriteU64(1_000_000_000).
		Bytes()

	// 0 为程序地址，1..8 为普通账户
	keys := []types.Pubkey{
		consts.PumpFunProgram,
		{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8},
	}
	outer := []decode.RawInstruction{
		{ProgramIDIndex: 0, AccountIndexes: []uint32{1, 2, 3, 4, 5, 6, 7}, Data: buyData},
	}
	groups := []decode.RawInnerGroup{{
		OuterIndex: 0,
		Instructions: []decode.RawInnerInstruction{{
			RawInstruction: decode.RawInstruction{ProgramIDIndex: 0, AccountIndexes: []uint32{8}, Data: eventData},
			StackHeight:    2,
		}},
	}}

	roots, err := decode.BuildInstructionTree(keys, outer, groups)
	require.NoError(t, err)

	outcomes := d.DispatchForest(roots)
	require.Len(t, outcomes, 2)

	assert.Equal(t, decode.StatusDecoded, outcomes[0].Status)
	assert.Equal(t, "buy", outcomes[0].Instruction.Variant)

	require.Equal(t, decode.StatusDecoded, outcomes[1].Status)
	assert.Equal(t, "TradeEvent", outcomes[1].Instruction.Variant)
	event := outcomes[1].Instruction.Args.(*pumpfun.TradeEvent)
	assert.True(t, event.IsBuy)
	assert.Equal(t, uint64(1_000_000_000), event.SolAmount)
}

// Token 与 Token-2022 账户按 Owner 各自路由，互不串扰。
func TestDispatcherAccountRouting(t *testing.T) {
	d := NewDispatcher()

	accountData := codec.NewWriter().
		WritePubkey(types.Pubkey{1}).
		WritePubkey(types.Pubkey{2}).
		WriteU64(10).
		WriteCOptionPubkey(types.Pubkey{}, false).
		WriteU8(1).
		WriteCOptionU64(0, false).
		WriteU64(0).
		WriteCOptionPubkey(types.Pubkey{}, false).
		Bytes()

	outcomes := d.DispatchAccount(&decode.AccountUpdate{
		Owner: consts.TokenProgram,
		Data:  accountData,
	})
	require.Len(t, outcomes, 1)
	assert.Equal(t, consts.TokenProgram, outcomes[0].Program)
	assert.Equal(t, decode.StatusDecoded, outcomes[0].Status)

	outcomes = d.DispatchAccount(&decode.AccountUpdate{
		Owner: consts.TokenProgram2022,
		Data:  accountData,
	})
	require.Len(t, outcomes, 1)
	assert.Equal(t, consts.TokenProgram2022, outcomes[0].Program)
	assert.Equal(t, decode.StatusDecoded, outcomes[0].Status)
}
