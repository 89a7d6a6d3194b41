package token2022

import (
	"sol-decoder/internal/codec"
	"sol-decoder/internal/types"
)

// extensionDecoders 是已知扩展类型的解码表。表外类型走 raw 保留路径。
var extensionDecoders = map[ExtensionType]func([]byte) (any, error){
	ExtTypeTransferFeeConfig:   func(b []byte) (any, error) { return decodeTransferFeeConfig(b) },
	ExtTypeTransferFeeAmount:   func(b []byte) (any, error) { return decodeTransferFeeAmount(b) },
	ExtTypeMintCloseAuthority:  func(b []byte) (any, error) { return decodeMintCloseAuthority(b) },
	ExtTypeDefaultAccountState: func(b []byte) (any, error) { return decodeDefaultAccountState(b) },
	ExtTypeImmutableOwner:      func(b []byte) (any, error) { return decodeImmutableOwner(b) },
	ExtTypeMemoTransfer:        func(b []byte) (any, error) { return decodeMemoTransfer(b) },
	ExtTypePermanentDelegate:   func(b []byte) (any, error) { return decodePermanentDelegate(b) },
	ExtTypeTransferHook:        func(b []byte) (any, error) { return decodeTransferHook(b) },
	ExtTypeMetadataPointer:     func(b []byte) (any, error) { return decodeMetadataPointer(b) },
}

// TransferFee 是单个周期的费率配置。
type TransferFee struct {
	Epoch          uint64
	MaximumFee     uint64
	FeeBasisPoints uint16
}

// TransferFeeConfig（Mint 扩展）：转账费配置。
// authority 字段采用"全零即未设置"的 OptionalNonZeroPubkey 编码。
type TransferFeeConfig struct {
	TransferFeeConfigAuthority types.Pubkey // 全零表示未设置
	WithdrawWithheldAuthority  types.Pubkey // 全零表示未设置
	WithheldAmount             uint64
	OlderTransferFee           TransferFee
	NewerTransferFee           TransferFee
}

// TransferFeeAmount（Account 扩展）：账户上累计的待提取转账费。
type TransferFeeAmount struct {
	WithheldAmount uint64
}

// MintCloseAuthority（Mint 扩展）。
type MintCloseAuthority struct {
	CloseAuthority types.Pubkey // 全零表示未设置
}

// DefaultAccountState（Mint 扩展）：新建账户的默认状态。
type DefaultAccountState struct {
	State uint8
}

// ImmutableOwner（Account 扩展）：无 payload 的标记扩展。
type ImmutableOwner struct{}

// MemoTransfer（Account 扩展）：是否要求转入必须附带 memo。
type MemoTransfer struct {
	RequireIncomingTransferMemos bool
}

// PermanentDelegate（Mint 扩展）。
type PermanentDelegate struct {
	Delegate types.Pubkey // 全零表示未设置
}

// TransferHook（Mint 扩展）：转账回调程序配置。
type TransferHook struct {
	Authority types.Pubkey // 全零表示未设置
	ProgramID types.Pubkey // 全零表示未设置
}

// MetadataPointer（Mint 扩展）：元数据位置指针。
type MetadataPointer struct {
	Authority       types.Pubkey // 全零表示未设置
	MetadataAddress types.Pubkey // 全零表示未设置
}

func decodeTransferFee(r *codec.Reader) (TransferFee, error) {
	var fee TransferFee
	var err error
	if fee.Epoch, err = r.ReadU64(); err != nil {
		return fee, err
	}
	if fee.MaximumFee, err = r.ReadU64(); err != nil {
		return fee, err
	}
	if fee.FeeBasisPoints, err = r.ReadU16(); err != nil {
		return fee, err
	}
	return fee, nil
}

func decodeTransferFeeConfig(b []byte) (*TransferFeeConfig, error) {
	r := codec.NewReader(b)
	cfg := &TransferFeeConfig{}
	var err error
	if cfg.TransferFeeConfigAuthority, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	if cfg.WithdrawWithheldAuthority, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	if cfg.WithheldAmount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if cfg.OlderTransferFee, err = decodeTransferFee(r); err != nil {
		return nil, err
	}
	if cfg.NewerTransferFee, err = decodeTransferFee(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeTransferFeeAmount(b []byte) (*TransferFeeAmount, error) {
	r := codec.NewReader(b)
	amount, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return &TransferFeeAmount{WithheldAmount: amount}, nil
}

func decodeMintCloseAuthority(b []byte) (*MintCloseAuthority, error) {
	r := codec.NewReader(b)
	authority, err := r.ReadPubkey()
	if err != nil {
		return nil, err
	}
	return &MintCloseAuthority{CloseAuthority: authority}, nil
}

func decodeDefaultAccountState(b []byte) (*DefaultAccountState, error) {
	r := codec.NewReader(b)
	state, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	return &DefaultAccountState{State: state}, nil
}

func decodeImmutableOwner(b []byte) (*ImmutableOwner, error) {
	return &ImmutableOwner{}, nil
}

func decodeMemoTransfer(b []byte) (*MemoTransfer, error) {
	r := codec.NewReader(b)
	require, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return &MemoTransfer{RequireIncomingTransferMemos: require}, nil
}

func decodePermanentDelegate(b []byte) (*PermanentDelegate, error) {
	r := codec.NewReader(b)
	delegate, err := r.ReadPubkey()
	if err != nil {
		return nil, err
	}
	return &PermanentDelegate{Delegate: delegate}, nil
}

func decodeTransferHook(b []byte) (*TransferHook, error) {
	r := codec.NewReader(b)
	hook := &TransferHook{}
	var err error
	if hook.Authority, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	if hook.ProgramID, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	return hook, nil
}

func decodeMetadataPointer(b []byte) (*MetadataPointer, error) {
	r := codec.NewReader(b)
	ptr := &MetadataPointer{}
	var err error
	if ptr.Authority, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	if ptr.MetadataAddress, err = r.ReadPubkey(); err != nil {
		return nil, err
	}
	return ptr, nil
}
