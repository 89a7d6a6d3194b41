// Package jobbuilder 将解码结果转换为待发送的 Kafka 消息。
package jobbuilder

import (
	"encoding/json"

	"github.com/mr-tron/base58"

	"sol-decoder/internal/decode"
	"sol-decoder/internal/mq"
	"sol-decoder/internal/types"
	"sol-decoder/pkg/logger"
)

// InstructionRecord 是指令解码结果的输出载体（JSON 编码后入 Kafka）。
type InstructionRecord struct {
	Slot        uint64 `json:"slot"`
	BlockHash   string `json:"block_hash"`
	TxHash      string `json:"tx_hash"`
	Program     string `json:"program"`
	Variant     string `json:"variant"`
	IxIndex     uint16 `json:"ix_index"`
	InnerIndex  uint16 `json:"inner_index"`
	StackHeight uint32 `json:"stack_height"`
	Keys        any    `json:"keys,omitempty"`
	Args        any    `json:"args,omitempty"`
	Error       string `json:"error,omitempty"` // 解码失败时的原因
}

// AccountRecord 是账户解码结果的输出载体。
type AccountRecord struct {
	Slot     uint64 `json:"slot"`
	Pubkey   string `json:"pubkey"`
	Owner    string `json:"owner"`
	Program  string `json:"program"`
	Variant  string `json:"variant"`
	Lamports uint64 `json:"lamports"`
	Account  any    `json:"account,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BuildInstructionJobs 将一批指令调度结果编码为 Kafka 消息。
// Filtered 结果不会出现在入参中；失败结果同样输出（下游可观测坏数据）。
// 分区 key 取指令的程序地址，保证同程序的记录有序。
func BuildInstructionJobs(topic string, slot uint64, blockHash types.Hash, signature []byte, outcomes []decode.InstructionOutcome) []*mq.KafkaJob {
	txHash := base58.Encode(signature)
	blockHashStr := blockHash.String()
	jobs := make([]*mq.KafkaJob, 0, len(outcomes))
	for _, outcome := range outcomes {
		record := InstructionRecord{
			Slot:        slot,
			BlockHash:   blockHashStr,
			TxHash:      txHash,
			Program:     outcome.Program.String(),
			IxIndex:     outcome.Update.IxIndex,
			InnerIndex:  outcome.Update.InnerIndex,
			StackHeight: outcome.Update.StackHeight,
		}
		if outcome.Status == decode.StatusDecoded {
			record.Variant = outcome.Instruction.Variant
			record.Keys = outcome.Instruction.Keys
			record.Args = outcome.Instruction.Args
		} else {
			record.Error = outcome.Err.Error()
		}

		value, err := json.Marshal(&record)
		if err != nil {
			// 理论上不可达：record 的字段均可序列化
			logger.Errorf("[jobbuilder] marshal instruction record failed: slot=%d err=%v", slot, err)
			continue
		}
		jobs = append(jobs, &mq.KafkaJob{
			Topic: topic,
			Key:   outcome.Program[:],
			Value: value,
		})
	}
	return jobs
}

// BuildAccountJobs 将一批账户调度结果编码为 Kafka 消息，分区 key 取账户地址。
func BuildAccountJobs(topic string, outcomes []decode.AccountOutcome) []*mq.KafkaJob {
	jobs := make([]*mq.KafkaJob, 0, len(outcomes))
	for _, outcome := range outcomes {
		record := AccountRecord{
			Slot:     outcome.Update.Slot,
			Pubkey:   outcome.Update.Pubkey.String(),
			Owner:    outcome.Update.Owner.String(),
			Program:  outcome.Program.String(),
			Lamports: outcome.Update.Lamports,
		}
		if outcome.Status == decode.StatusDecoded {
			record.Variant = outcome.Account.Variant
			record.Account = outcome.Account.Account
		} else {
			record.Error = outcome.Err.Error()
		}

		value, err := json.Marshal(&record)
		if err != nil {
			logger.Errorf("[jobbuilder] marshal account record failed: pubkey=%s err=%v", record.Pubkey, err)
			continue
		}
		jobs = append(jobs, &mq.KafkaJob{
			Topic: topic,
			Key:   outcome.Update.Pubkey[:],
			Value: value,
		})
	}
	return jobs
}
