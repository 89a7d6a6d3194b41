// Package txadapter 将 gRPC 推送的原始交易/账户数据适配为内部解码结构。
package txadapter

import (
	"fmt"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"
)

// AdaptedTx 是一笔适配完成的交易：账户下标已全部解析为 Pubkey，
// 主指令与 inner 指令已还原为调用树。
type AdaptedTx struct {
	Slot      uint64
	TxIndex   uint32
	Signature []byte                      // 首个签名（64 字节），作为交易哈希
	Signers   []types.Pubkey              // 前 N 个账户即 signer
	Roots     []*decode.InstructionUpdate // 主指令调用树，按执行顺序
}

// buildFullAccountKeys 构造交易中完整的账户 Pubkey 列表。
// 拼接 message.accountKeys 与 Address Lookup Table 中的 writable / readonly 地址，
// 供后续通过 accountIndex 高效索引使用。
//
// 性能设计：
//   - 一次性预分配切片，避免 append 扩容；
//   - 顺序写入 + copy，有助于 CPU cache 命中；
func buildFullAccountKeys(
	accountKeys, loadedWritable, loadedReadonly [][]byte,
) ([]types.Pubkey, error) {
	// 计算总账户数，确保分配空间恰好
	total := len(accountKeys) + len(loadedWritable) + len(loadedReadonly)
	pubkeys := make([]types.Pubkey, total)

	i := 0 // 写入索引

	// 主账户部分（来自 message.accountKeys）
	for _, b := range accountKeys {
		if len(b) != types.PubkeyLen {
			return nil, fmt.Errorf("invalid pubkey in accountKeys at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}

	// Address Table 中的 writable 部分
	for _, b := range loadedWritable {
		if len(b) != types.PubkeyLen {
			return nil, fmt.Errorf("invalid pubkey in loadedWritable at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}

	// Address Table 中的 readonly 部分
	for _, b := range loadedReadonly {
		if len(b) != types.PubkeyLen {
			return nil, fmt.Errorf("invalid pubkey in loadedReadonly at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}
	return pubkeys, nil
}

// widenIndexes 将 proto 中以字节表示的账户下标列表扩展为 uint32 下标。
func widenIndexes(raw []byte) []uint32 {
	indexes := make([]uint32, len(raw))
	for i, b := range raw {
		indexes[i] = uint32(b)
	}
	return indexes
}

// buildRawInstructions 将 message.instructions 转为编译态指令列表。
func buildRawInstructions(tx *pb.SubscribeUpdateTransactionInfo) []decode.RawInstruction {
	rawList := tx.Transaction.Message.Instructions
	outer := make([]decode.RawInstruction, len(rawList))
	for i, inst := range rawList {
		outer[i] = decode.RawInstruction{
			ProgramIDIndex: inst.ProgramIdIndex,
			AccountIndexes: widenIndexes(inst.Accounts),
			Data:           inst.Data,
		}
	}
	return outer
}

// buildRawInnerGroups 将 meta.innerInstructions 转为按主指令分组的 inner 指令。
// Geyser 旧版本不携带 StackHeight（字段为 nil），此时置 0，
// 由 BuildInstructionTree 按主指令直接子调用容错处理。
func buildRawInnerGroups(tx *pb.SubscribeUpdateTransactionInfo) []decode.RawInnerGroup {
	rawInners := tx.Meta.InnerInstructions
	groups := make([]decode.RawInnerGroup, len(rawInners))
	for i, group := range rawInners {
		instructions := make([]decode.RawInnerInstruction, len(group.Instructions))
		for j, inner := range group.Instructions {
			instructions[j] = decode.RawInnerInstruction{
				RawInstruction: decode.RawInstruction{
					ProgramIDIndex: inner.ProgramIdIndex,
					AccountIndexes: widenIndexes(inner.Accounts),
					Data:           inner.Data,
				},
				StackHeight: inner.GetStackHeight(),
			}
		}
		groups[i] = decode.RawInnerGroup{
			OuterIndex:   group.Index,
			Instructions: instructions,
		}
	}
	return groups
}

// AdaptGrpcTx 将 gRPC 推送的交易数据解析为内部 AdaptedTx 结构。
// 完整流程：
//  1. 构建 accountKeys（含 Address Lookup）；
//  2. 还原主 + inner 指令调用树；
//  3. 返回 AdaptedTx；如 panic 会被 recover。
func AdaptGrpcTx(slot uint64, tx *pb.SubscribeUpdateTransactionInfo) (_ *AdaptedTx, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AdaptGrpcTx panic: %v", r)
		}
	}()

	// 构造完整的账户 pubkey 列表（主账户 + Address Lookup 表中的 writable 和 readonly）
	accountKeys, err := buildFullAccountKeys(
		tx.Transaction.Message.AccountKeys,
		tx.Meta.LoadedWritableAddresses,
		tx.Meta.LoadedReadonlyAddresses,
	)
	if err != nil {
		return nil, fmt.Errorf("buildFullAccountKeys error: %w", err)
	}

	// 基本健壮性校验：签名或账户列表为空时立即报错
	if len(tx.Transaction.Signatures) == 0 || len(accountKeys) == 0 {
		return nil, fmt.Errorf("invalid transaction: missing signature or accountKeys")
	}

	// 获取 signer 数量（前 N 个 accountKeys 视为 signer）
	signerCount := int(tx.Transaction.Message.Header.NumRequiredSignatures)
	if signerCount == 0 || len(accountKeys) < signerCount {
		return nil, fmt.Errorf("invalid signer count: %d", signerCount)
	}

	// 还原调用树：任何账户下标越界都会使整笔交易适配失败
	roots, err := decode.BuildInstructionTree(
		accountKeys,
		buildRawInstructions(tx),
		buildRawInnerGroups(tx),
	)
	if err != nil {
		return nil, fmt.Errorf("build instruction tree error: %w", err)
	}

	// 构造签名者列表：Solana 中交易前 N 个账户即为 signer
	signers := make([]types.Pubkey, signerCount)
	copy(signers, accountKeys[:signerCount])

	return &AdaptedTx{
		Slot:      slot,
		TxIndex:   uint32(tx.Index),
		Signature: tx.Transaction.Signatures[0],
		Signers:   signers,
		Roots:     roots,
	}, nil
}

// AdaptGrpcAccount 将 gRPC 推送的账户变更适配为内部 AccountUpdate。
func AdaptGrpcAccount(slot uint64, acc *pb.SubscribeUpdateAccountInfo) (*decode.AccountUpdate, error) {
	pubkey, err := types.PubkeyFromBytes(acc.Pubkey)
	if err != nil {
		return nil, fmt.Errorf("account pubkey: %w", err)
	}
	owner, err := types.PubkeyFromBytes(acc.Owner)
	if err != nil {
		return nil, fmt.Errorf("account owner: %w", err)
	}
	return &decode.AccountUpdate{
		Pubkey:     pubkey,
		Owner:      owner,
		Data:       acc.Data,
		Lamports:   acc.Lamports,
		Executable: acc.Executable,
		RentEpoch:  acc.RentEpoch,
		Slot:       slot,
	}, nil
}
