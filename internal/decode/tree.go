package decode

import (
	"fmt"

	"sol-decoder/internal/types"
)

// RawInstruction 是编译态指令：程序与账户均以账户表下标引用。
// 对应 message.instructions 中的条目。
type RawInstruction struct {
	ProgramIDIndex uint32   // 程序地址在账户表中的下标
	AccountIndexes []uint32 // 账户下标列表，顺序即语义
	Data           []byte   // 指令原始数据
}

// RawInnerInstruction 是带调用栈深度的 inner 指令。
// 链上运行时只记录深度不记录父指针，父子关系需由 BuildInstructionTree 还原。
type RawInnerInstruction struct {
	RawInstruction
	StackHeight uint32 // CPI 调用栈深度，主指令的直接子调用为 2
}

// RawInnerGroup 是挂在某条主指令下的 inner 指令组。
// 对应 meta.innerInstructions 中的条目，按主指令下标分组。
type RawInnerGroup struct {
	OuterIndex   uint32                // 所属主指令下标
	Instructions []RawInnerInstruction // 组内指令，保持执行顺序
}

// outerStackHeight 是主指令的约定深度。
const outerStackHeight = 1

// resolveAccounts 将下标列表解析为 Pubkey 列表，越界即整笔拒绝。
func resolveAccounts(accountKeys []types.Pubkey, indexes []uint32) ([]types.Pubkey, error) {
	accounts := make([]types.Pubkey, len(indexes))
	for i, idx := range indexes {
		if int(idx) >= len(accountKeys) {
			return nil, fmt.Errorf("account index %d out of range (table size %d)", idx, len(accountKeys))
		}
		accounts[i] = accountKeys[idx]
	}
	return accounts, nil
}

// BuildInstructionTree 从扁平的主指令列表与按深度标注的 inner 指令组还原完整调用树。
//
// 单轮线性扫描：维护"各深度当前祖先"栈，对组内每条 inner 指令，
// 先弹出深度 >= 该指令 StackHeight 的祖先，再挂到栈顶（栈空则挂到主指令），
// 最后把自己压栈作为更深后代的候选父节点。
// 深度出现跳跃（非父深度 +1）时容错处理：挂到深度严格更小的最深祖先下。
//
// accountKeys 为完整账户表（message keys + address lookup table 展开），
// 任何下标越界都会使整笔交易还原失败。
func BuildInstructionTree(
	accountKeys []types.Pubkey,
	outer []RawInstruction,
	innerGroups []RawInnerGroup,
) ([]*InstructionUpdate, error) {
	roots := make([]*InstructionUpdate, len(outer))
	for i, raw := range outer {
		if int(raw.ProgramIDIndex) >= len(accountKeys) {
			return nil, fmt.Errorf("outer[%d]: program index %d out of range (table size %d)", i, raw.ProgramIDIndex, len(accountKeys))
		}
		accounts, err := resolveAccounts(accountKeys, raw.AccountIndexes)
		if err != nil {
			return nil, fmt.Errorf("outer[%d]: %w", i, err)
		}
		roots[i] = &InstructionUpdate{
			Program:     accountKeys[raw.ProgramIDIndex],
			Data:        raw.Data,
			Accounts:    accounts,
			StackHeight: outerStackHeight,
			IxIndex:     uint16(i),
		}
	}

	for _, group := range innerGroups {
		if int(group.OuterIndex) >= len(roots) {
			return nil, fmt.Errorf("inner group: outer index %d out of range (%d outer instructions)", group.OuterIndex, len(roots))
		}
		parent := roots[group.OuterIndex]

		// stack[i] 为当前路径上深度递增的祖先链（不含主指令）
		stack := make([]*InstructionUpdate, 0, 4)
		for n, raw := range group.Instructions {
			if int(raw.ProgramIDIndex) >= len(accountKeys) {
				return nil, fmt.Errorf("inner[%d][%d]: program index %d out of range", group.OuterIndex, n, raw.ProgramIDIndex)
			}
			accounts, err := resolveAccounts(accountKeys, raw.AccountIndexes)
			if err != nil {
				return nil, fmt.Errorf("inner[%d][%d]: %w", group.OuterIndex, n, err)
			}

			height := raw.StackHeight
			if height <= outerStackHeight {
				// 深度缺失或非法时按主指令直接子调用处理
				height = outerStackHeight + 1
			}

			node := &InstructionUpdate{
				Program:     accountKeys[raw.ProgramIDIndex],
				Data:        raw.Data,
				Accounts:    accounts,
				StackHeight: height,
				IxIndex:     parent.IxIndex,
				InnerIndex:  uint16(n + 1),
			}

			// 弹出深度不小于自身的祖先，剩下的栈顶即最近的浅层祖先
			for len(stack) > 0 && stack[len(stack)-1].StackHeight >= height {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				parent.Inner = append(parent.Inner, node)
			} else {
				top := stack[len(stack)-1]
				top.Inner = append(top.Inner, node)
			}
			stack = append(stack, node)
		}
	}
	return roots, nil
}
