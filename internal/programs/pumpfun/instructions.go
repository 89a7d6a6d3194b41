package pumpfun

import "sol-decoder/internal/types"

// create：发射新代币并初始化 bonding curve。
//
// 账户结构（IDL 顺序）：
//  0. Mint（签名者）
//  1. Mint Authority（PDA）
//  2. Bonding Curve 主账户（PDA）
//  3. Bonding Curve Vault（池子 TokenAccount）
//  4. Global 配置账户
//  5. Metaplex Token Metadata 程序
//  6. Metadata 账户
//  7. 用户主账户（签名者）
type CreateKeys struct {
	Mint                   types.Pubkey
	MintAuthority          types.Pubkey
	BondingCurve           types.Pubkey
	AssociatedBondingCurve types.Pubkey
	Global                 types.Pubkey
	MplTokenMetadata       types.Pubkey
	Metadata               types.Pubkey
	User                   types.Pubkey
}

// CreateArgs 为 borsh 编码的 create 参数。
type CreateArgs struct {
	Name    string
	Symbol  string
	URI     string
	Creator types.Pubkey
}

// buy / sell 共用的账户结构：
//  0. Global 配置账户
//  1. 手续费账户
//  2. 代币 Mint
//  3. Bonding Curve 主账户
//  4. Bonding Curve Vault（池子 TokenAccount）
//  5. 用户 Associated Token Account
//  6. 用户主账户（签名者）
type TradeKeys struct {
	Global                 types.Pubkey
	FeeRecipient           types.Pubkey
	Mint                   types.Pubkey
	BondingCurve           types.Pubkey
	AssociatedBondingCurve types.Pubkey
	AssociatedUser         types.Pubkey
	User                   types.Pubkey
}

// BuyArgs 为 borsh 编码的 buy 参数。
type BuyArgs struct {
	Amount     uint64 // 期望得到的代币数量（最小单位）
	MaxSolCost uint64 // 愿意支付的 SOL 上限（lamports）
}

// SellArgs 为 borsh 编码的 sell 参数。
type SellArgs struct {
	Amount       uint64 // 卖出的代币数量（最小单位）
	MinSolOutput uint64 // 可接受的 SOL 下限（lamports）
}
