// Package system 解码 System Program 指令。
//
// 该程序族不使用哈希标识：指令变体由数据起始 4 字节小端 u32 按声明顺序编号
// （CreateAccount=0、Assign=1、Transfer=2 ……），参数紧随其后。
package system

import "sol-decoder/internal/types"

// 指令变体编号（u32 小端，位于数据前 4 字节）。
const (
	TagCreateAccount         uint32 = 0
	TagAssign                uint32 = 1
	TagTransfer              uint32 = 2
	TagCreateAccountWithSeed uint32 = 3
	TagAllocate              uint32 = 8
	TagTransferWithSeed      uint32 = 11
)

// CreateAccount：从 Funding 划转 lamports 创建 NewAccount 并指定 Owner。
type CreateAccountKeys struct {
	Funding    types.Pubkey // 账户[0]，出资账户（签名者）
	NewAccount types.Pubkey // 账户[1]，被创建账户（签名者）
}

type CreateAccountArgs struct {
	Lamports uint64
	Space    uint64
	Owner    types.Pubkey
}

// Assign：变更账户 Owner。
type AssignKeys struct {
	Account types.Pubkey // 账户[0]，被指派账户（签名者）
}

type AssignArgs struct {
	Owner types.Pubkey
}

// Transfer：转移 lamports。
type TransferKeys struct {
	Funding   types.Pubkey // 账户[0]，转出账户（签名者）
	Recipient types.Pubkey // 账户[1]，转入账户
}

type TransferArgs struct {
	Lamports uint64
}

// CreateAccountWithSeed：按 base + seed 派生地址创建账户。
type CreateAccountWithSeedKeys struct {
	Funding    types.Pubkey // 账户[0]，出资账户（签名者）
	NewAccount types.Pubkey // 账户[1]，被创建账户
}

type CreateAccountWithSeedArgs struct {
	Base     types.Pubkey
	Seed     string
	Lamports uint64
	Space    uint64
	Owner    types.Pubkey
}

// Allocate：为账户分配空间。
type AllocateKeys struct {
	Account types.Pubkey // 账户[0]，被分配账户（签名者）
}

type AllocateArgs struct {
	Space uint64
}

// TransferWithSeed：从派生地址账户转出 lamports。
type TransferWithSeedKeys struct {
	Funding   types.Pubkey // 账户[0]，转出账户（派生地址）
	Base      types.Pubkey // 账户[1]，派生 base（签名者）
	Recipient types.Pubkey // 账户[2]，转入账户
}

type TransferWithSeedArgs struct {
	Lamports  uint64
	Seed      string
	FromOwner types.Pubkey
}
