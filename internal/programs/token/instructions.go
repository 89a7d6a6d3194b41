// Package token 解码 SPL Token 程序的指令与账户。
//
// 指令族使用 1 字节顺序编号标识（编号沿用 blocto sdk 的声明）；
// 账户族没有任何标识字节，按数据总长度识别：Mint=82、Account=165、Multisig=355，
// 三者长度互不相同，不存在歧义（这是该程序的布局事实，也是本包的前提）。
package token

import "sol-decoder/internal/types"

// InitializeMint：初始化 Mint。
type InitializeMintKeys struct {
	Mint types.Pubkey // 账户[0]，被初始化的 Mint
	Rent types.Pubkey // 账户[1]，Rent sysvar
}

type InitializeMintArgs struct {
	Decimals           uint8
	MintAuthority      types.Pubkey
	FreezeAuthority    types.Pubkey // HasFreezeAuthority 为 true 时有效
	HasFreezeAuthority bool
}

// InitializeAccount：初始化 Token 账户。
type InitializeAccountKeys struct {
	Account types.Pubkey // 账户[0]，被初始化账户
	Mint    types.Pubkey // 账户[1]
	Owner   types.Pubkey // 账户[2]
	Rent    types.Pubkey // 账户[3]，Rent sysvar
}

// InitializeAccount3：owner 改由参数携带，省去 Rent 账户。
type InitializeAccount3Keys struct {
	Account types.Pubkey // 账户[0]
	Mint    types.Pubkey // 账户[1]
}

type InitializeAccount3Args struct {
	Owner types.Pubkey
}

// Transfer：按最小单位转账。
type TransferKeys struct {
	Source      types.Pubkey // 账户[0]
	Destination types.Pubkey // 账户[1]
	Authority   types.Pubkey // 账户[2]，owner 或 delegate
}

type TransferArgs struct {
	Amount uint64
}

// TransferChecked：带 Mint 与精度校验的转账。
type TransferCheckedKeys struct {
	Source      types.Pubkey // 账户[0]
	Mint        types.Pubkey // 账户[1]
	Destination types.Pubkey // 账户[2]
	Authority   types.Pubkey // 账户[3]
}

type TransferCheckedArgs struct {
	Amount   uint64
	Decimals uint8
}

// Approve：授权 delegate 支配额度。
type ApproveKeys struct {
	Source   types.Pubkey // 账户[0]
	Delegate types.Pubkey // 账户[1]
	Owner    types.Pubkey // 账户[2]
}

type ApproveArgs struct {
	Amount uint64
}

// MintTo：增发到指定账户。
type MintToKeys struct {
	Mint        types.Pubkey // 账户[0]
	Destination types.Pubkey // 账户[1]
	Authority   types.Pubkey // 账户[2]，mint authority
}

type MintToArgs struct {
	Amount uint64
}

// MintToChecked：带精度校验的增发。
type MintToCheckedArgs struct {
	Amount   uint64
	Decimals uint8
}

// Burn：销毁指定数量。
type BurnKeys struct {
	Account   types.Pubkey // 账户[0]
	Mint      types.Pubkey // 账户[1]
	Authority types.Pubkey // 账户[2]
}

type BurnArgs struct {
	Amount uint64
}

// BurnChecked：带精度校验的销毁。
type BurnCheckedArgs struct {
	Amount   uint64
	Decimals uint8
}

// CloseAccount：关闭账户并回收 lamports。
type CloseAccountKeys struct {
	Account     types.Pubkey // 账户[0]，被关闭账户
	Destination types.Pubkey // 账户[1]，lamports 接收方
	Owner       types.Pubkey // 账户[2]
}

// SyncNative：同步 wrapped SOL 账户余额。
type SyncNativeKeys struct {
	Account types.Pubkey // 账户[0]，native token 账户
}
