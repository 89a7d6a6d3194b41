package decode

import "sol-decoder/internal/types"

// ParsedInstruction 是指令解码的统一产物。
// Keys / Args 为各程序包内定义的具体结构体（按变体各异），每次解码新建，调用方独占。
type ParsedInstruction struct {
	Program types.Pubkey // 产出该结果的程序
	Variant string       // 变体名（IDL 声明名）
	Keys    any          // 按位绑定的账户结构体指针
	Args    any          // 数据字段结构体指针（无参数变体为 nil）
}

// ParsedAccount 是账户解码的统一产物。
type ParsedAccount struct {
	Program types.Pubkey // 账户所属程序
	Variant string       // 账户类型名
	Account any          // 具体账户结构体指针
}

// InstructionParser 是指令侧解码器的统一能力契约。
// 实现必须是纯函数式的：无副作用、不持有可变状态，可被任意并发调用。
type InstructionParser interface {
	// Program 返回该解码器所属的程序地址。
	Program() types.Pubkey

	// Prefilter 返回粗粒度匹配条件，调度层据此跳过无关更新。
	Prefilter() Prefilter

	// IdentifyInstruction 仅凭数据前缀（或长度）识别变体名，不做完整解码。
	// 未命中返回 ok=false；对相同输入重复调用结果一致。
	IdentifyInstruction(data []byte) (variant string, ok bool)

	// ParseInstruction 识别并完整解码一条指令。
	// 失败返回 ErrInvalidDiscriminator / codec.ErrTruncated / InsufficientAccountsError 等。
	ParseInstruction(ix *InstructionUpdate) (*ParsedInstruction, error)
}

// AccountParser 是账户侧解码器的统一能力契约，约束与 InstructionParser 相同。
type AccountParser interface {
	Program() types.Pubkey
	Prefilter() Prefilter

	// IdentifyAccount 仅凭数据前缀或长度识别账户类型。
	IdentifyAccount(data []byte) (variant string, ok bool)

	// ParseAccount 解码一次账户快照。Owner 不匹配返回 ErrOwnerMismatch。
	ParseAccount(acc *AccountUpdate) (*ParsedAccount, error)
}
