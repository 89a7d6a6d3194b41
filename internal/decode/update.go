package decode

import "sol-decoder/internal/types"

// InstructionUpdate 表示一次链上指令调用（主指令或 inner 指令）。
// 由交易还原层构造，构造完成后只读；Inner 中的子指令 StackHeight 严格大于父指令。
type InstructionUpdate struct {
	Program     types.Pubkey         // 被调用程序地址
	Data        []byte               // 指令原始数据（discriminator + 参数）
	Accounts    []types.Pubkey       // 指令引用的账户列表，顺序即语义
	StackHeight uint32               // 调用栈深度，主指令为 1
	Inner       []*InstructionUpdate // CPI 产生的子指令（按执行顺序）

	IxIndex    uint16 // 所属主指令在交易内的序号
	InnerIndex uint16 // 在主指令内的序号，主指令本身为 0，inner 从 1 开始
}

// Flatten 按深度优先（自身在前，子指令随后）展开整棵指令树，追加到 out 并返回。
// 该顺序与链上实际执行顺序一致。
func (ix *InstructionUpdate) Flatten(out []*InstructionUpdate) []*InstructionUpdate {
	out = append(out, ix)
	for _, inner := range ix.Inner {
		out = inner.Flatten(out)
	}
	return out
}

// Count 返回包含自身与全部嵌套子指令的总数。
func (ix *InstructionUpdate) Count() int {
	n := 1
	for _, inner := range ix.Inner {
		n += inner.Count()
	}
	return n
}

// FlattenForest 展开一批主指令构成的指令森林。
func FlattenForest(roots []*InstructionUpdate) []*InstructionUpdate {
	total := 0
	for _, root := range roots {
		total += root.Count()
	}
	out := make([]*InstructionUpdate, 0, total)
	for _, root := range roots {
		out = root.Flatten(out)
	}
	return out
}

// AccountUpdate 表示一次账户快照。Owner 决定适用哪一族解码器。
type AccountUpdate struct {
	Pubkey     types.Pubkey // 账户地址
	Owner      types.Pubkey // 所属程序
	Data       []byte       // 账户原始数据
	Lamports   uint64
	Executable bool
	RentEpoch  uint64
	Slot       uint64 // 快照产生的 slot
}
