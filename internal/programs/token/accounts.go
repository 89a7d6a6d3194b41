package token

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"
)

// 账户族固定编码长度，按长度识别变体（无标识字节）。
const (
	MintLen     = 82
	AccountLen  = 165
	MultisigLen = 355

	// MultisigMaxSigners 为 Multisig 固定预留的签名者槽位数。
	MultisigMaxSigners = 11
)

// AccountState 为 Token 账户状态枚举。
type AccountState uint8

const (
	AccountStateUninitialized AccountState = 0
	AccountStateInitialized   AccountState = 1
	AccountStateFrozen        AccountState = 2
)

// Mint 对应 82 字节的 Mint 账户布局。
// 账户态中的 COption 为 4 字节标签 + 定长占位，整体长度恒定。
type Mint struct {
	MintAuthority      types.Pubkey // HasMintAuthority 为 true 时有效
	HasMintAuthority   bool
	Supply             uint64
	Decimals           uint8
	IsInitialized      bool
	FreezeAuthority    types.Pubkey // HasFreezeAuthority 为 true 时有效
	HasFreezeAuthority bool
}

// Account 对应 165 字节的 Token 账户布局。
type Account struct {
	Mint              types.Pubkey
	Owner             types.Pubkey
	Amount            uint64
	Delegate          types.Pubkey // HasDelegate 为 true 时有效
	HasDelegate       bool
	State             AccountState
	IsNative          bool
	NativeReserve     uint64 // IsNative 为 true 时为 rent-exempt 预留量
	DelegatedAmount   uint64
	CloseAuthority    types.Pubkey // HasCloseAuthority 为 true 时有效
	HasCloseAuthority bool
}

// Multisig 对应 355 字节的多签账户布局。
type Multisig struct {
	M             uint8 // 需要的签名数
	N             uint8 // 有效签名者数
	IsInitialized bool
	Signers       [MultisigMaxSigners]types.Pubkey // 前 N 个有效
}

// checkRecordLen 校验定长账户记录的精确长度。
// 长度即变体标识：不足按未识别长度处理，超出视为定长记录后的多余字节。
func checkRecordLen(variant string, data []byte, want int) error {
	switch {
	case len(data) < want:
		return fmt.Errorf("%w: %s wants %d bytes, got %d", decode.ErrUnrecognizedAccountLength, variant, want, len(data))
	case len(data) > want:
		return fmt.Errorf("%w: %s decoded %d bytes, %d left", decode.ErrTrailingBytes, variant, want, len(data)-want)
	}
	return nil
}

// DecodeMint 解码 82 字节 Mint 布局。长度必须精确匹配。
func DecodeMint(data []byte) (*Mint, error) {
	if err := checkRecordLen("mint", data, MintLen); err != nil {
		return nil, err
	}
	r := codec.NewReader(data)
	m := &Mint{}
	var err error
	if m.MintAuthority, m.HasMintAuthority, err = codec.ReadCOption(r, codec.ReadPubkeyFn); err != nil {
		return nil, err
	}
	if m.Supply, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if m.Decimals, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if m.IsInitialized, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if m.FreezeAuthority, m.HasFreezeAuthority, err = codec.ReadCOption(r, codec.ReadPubkeyFn); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeAccount 解码 165 字节 Token 账户布局。长度必须精确匹配。
func DecodeAccount(data []byte) (*Account, error) {
	if err := checkRecordLen("token account", data, AccountLen); err != nil {
		return nil, err
	}
	return decodeAccountBody(codec.NewReader(data))
}

// decodeAccountBody 从游标当前位置读取一个 165 字节账户体。
// token2022 复用该逻辑解码扩展账户的 base 部分。
func decodeAccountBody(r *codec.Reader) (*Account, error) {
	a := &Account{}
	var err error
	if a.Mint, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	if a.Owner, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	if a.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if a.Delegate, a.HasDelegate, err = codec.ReadCOption(r, codec.ReadPubkeyFn); err != nil {
		return nil, err
	}
	state, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	a.State = AccountState(state)
	if a.NativeReserve, a.IsNative, err = codec.ReadCOption(r, codec.ReadU64Fn); err != nil {
		return nil, err
	}
	if a.DelegatedAmount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if a.CloseAuthority, a.HasCloseAuthority, err = codec.ReadCOption(r, codec.ReadPubkeyFn); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeAccountBody 导出包内的账户体读取逻辑，供 token2022 解码 base 记录使用。
func DecodeAccountBody(r *codec.Reader) (*Account, error) {
	return decodeAccountBody(r)
}

// DecodeMultisig 解码 355 字节多签布局。长度必须精确匹配。
func DecodeMultisig(data []byte) (*Multisig, error) {
	if err := checkRecordLen("multisig", data, MultisigLen); err != nil {
		return nil, err
	}
	r := codec.NewReader(data)
	ms := &Multisig{}
	var err error
	if ms.M, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if ms.N, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if ms.IsInitialized, err = r.ReadBool(); err != nil {
		return nil, err
	}
	for i := 0; i < MultisigMaxSigners; i++ {
		if ms.Signers[i], err = r.ReadPubkey(); err != nil {
			return nil, err
		}
	}
	return ms, nil
}
