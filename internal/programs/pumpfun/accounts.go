package pumpfun

import "sol-decoder/internal/types"

// Global 为全局配置账户（8 字节标识后的 borsh 布局）。
type Global struct {
	Initialized                 bool
	Authority                   types.Pubkey
	FeeRecipient                types.Pubkey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
}

// BondingCurve 为单个代币的 bonding curve 状态账户。
type BondingCurve struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool // 曲线是否已完成（迁移到 AMM）
	Creator              types.Pubkey
}
