package decode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/types"
)

// stubParser 是可配置的测试用解码器，同时实现指令侧与账户侧契约。
type stubParser struct {
	program types.Pubkey
	fail    error
}

func (p *stubParser) Program() types.Pubkey { return p.program }

func (p *stubParser) Prefilter() Prefilter {
	return NewPrefilter().
		TransactionAccounts(p.program).
		AccountOwners(p.program).
		Build()
}

func (p *stubParser) IdentifyInstruction(data []byte) (string, bool) {
	if len(data) > 0 && data[0] == 1 {
		return "noop", true
	}
	return "", false
}

func (p *stubParser) ParseInstruction(ix *InstructionUpdate) (*ParsedInstruction, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	variant, ok := p.IdentifyInstruction(ix.Data)
	if !ok {
		return nil, ErrInvalidDiscriminator
	}
	return &ParsedInstruction{Program: p.program, Variant: variant}, nil
}

func (p *stubParser) IdentifyAccount(data []byte) (string, bool) {
	if len(data) == 8 {
		return "state", true
	}
	return "", false
}

func (p *stubParser) ParseAccount(acc *AccountUpdate) (*ParsedAccount, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	variant, ok := p.IdentifyAccount(acc.Data)
	if !ok {
		return nil, ErrUnrecognizedAccountLength
	}
	return &ParsedAccount{Program: p.program, Variant: variant}, nil
}

func TestDispatchInstructionFiltered(t *testing.T) {
	d := NewDispatcher()
	d.RegisterInstructionParser(&stubParser{program: types.Pubkey{1}})

	// 目标程序未命中任何 prefilter：静默跳过，零结果
	outcomes := d.DispatchInstruction(&InstructionUpdate{Program: types.Pubkey{9}, Data: []byte{1}})
	assert.Empty(t, outcomes)
}

func TestDispatchInstructionDecoded(t *testing.T) {
	program := types.Pubkey{1}
	d := NewDispatcher()
	d.RegisterInstructionParser(&stubParser{program: program})

	ix := &InstructionUpdate{Program: program, Data: []byte{1}}
	outcomes := d.DispatchInstruction(ix)
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusDecoded, outcomes[0].Status)
	assert.Equal(t, "noop", outcomes[0].Instruction.Variant)
	assert.Same(t, ix, outcomes[0].Update)
}

// 一个解码器失败不影响其他解码器成功；失败以 Outcome 形式返回而非中断。
func TestDispatchInstructionFailureIsolation(t *testing.T) {
	program := types.Pubkey{1}
	boom := errors.New("boom")

	d := NewDispatcher()
	d.RegisterInstructionParser(&stubParser{program: program, fail: boom})
	d.RegisterInstructionParser(&stubParser{program: program})

	outcomes := d.DispatchInstruction(&InstructionUpdate{Program: program, Data: []byte{1}})
	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.Equal(t, StatusDecoded, outcomes[1].Status)
}

func TestDispatchAccount(t *testing.T) {
	owner := types.Pubkey{2}
	d := NewDispatcher()
	d.RegisterAccountParser(&stubParser{program: owner})

	// Owner 命中 + 长度识别成功
	outcomes := d.DispatchAccount(&AccountUpdate{Owner: owner, Data: make([]byte, 8)})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusDecoded, outcomes[0].Status)
	assert.Equal(t, "state", outcomes[0].Account.Variant)

	// Owner 未命中：静默
	outcomes = d.DispatchAccount(&AccountUpdate{Owner: types.Pubkey{3}, Data: make([]byte, 8)})
	assert.Empty(t, outcomes)

	// Owner 命中但长度无法识别：失败结果
	outcomes = d.DispatchAccount(&AccountUpdate{Owner: owner, Data: make([]byte, 5)})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, ErrUnrecognizedAccountLength)
}

func TestDispatchForestOrder(t *testing.T) {
	program := types.Pubkey{1}
	d := NewDispatcher()
	d.RegisterInstructionParser(&stubParser{program: program})

	child := &InstructionUpdate{Program: program, Data: []byte{1}, StackHeight: 2, InnerIndex: 1}
	root := &InstructionUpdate{Program: program, Data: []byte{1}, StackHeight: 1, Inner: []*InstructionUpdate{child}}

	outcomes := d.DispatchForest([]*InstructionUpdate{root})
	require.Len(t, outcomes, 2)
	assert.Same(t, root, outcomes[0].Update)
	assert.Same(t, child, outcomes[1].Update)
}

func TestInsufficientAccountsError(t *testing.T) {
	err := CheckAccounts("transfer", 1, 2)
	require.Error(t, err)

	var insufficient *InsufficientAccountsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "transfer", insufficient.Variant)
	assert.Equal(t, 2, insufficient.Expected)
	assert.Equal(t, 1, insufficient.Actual)

	assert.NoError(t, CheckAccounts("transfer", 2, 2))
	assert.NoError(t, CheckAccounts("transfer", 3, 2))
}
