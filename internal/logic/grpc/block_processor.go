package grpc

import (
	"context"
	"errors"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"sol-decoder/internal/consts"
	"sol-decoder/internal/logic/jobbuilder"
	"sol-decoder/internal/logic/progress"
	"sol-decoder/internal/logic/txadapter"
	"sol-decoder/internal/mq"
	"sol-decoder/internal/svc"
	"sol-decoder/internal/types"
	"sol-decoder/internal/utils"
	"sol-decoder/pkg/logger"
)

// BlockProcessor 消费区块通道：逐笔还原调用树、调度解码、
// 将解码记录发往 Kafka，并向 Redis 标记 slot 进度。
type BlockProcessor struct {
	sc        *svc.ServiceContext
	blockChan chan *pb.SubscribeUpdateBlock // 接收 block 的 channel
	ctx       context.Context
	cancel    func(err error)
}

type parsedTxResult struct {
	txIndex int
	jobs    []*mq.KafkaJob
}

func NewBlockProcessor(sc *svc.ServiceContext, blockChan chan *pb.SubscribeUpdateBlock) *BlockProcessor {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &BlockProcessor{
		sc:        sc,
		blockChan: blockChan,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (p *BlockProcessor) Start() {
	for {
		select {
		case <-p.ctx.Done():
			return // 退出
		case block := <-p.blockChan:
			if block == nil {
				// 通道被意外关闭或收到 nil，停止消费
				return
			}
			p.procBlock(block)
			if len(p.blockChan) > 10 {
				logger.Debugf("block chan len:%v", len(p.blockChan))
			}
		}
	}
}

func (p *BlockProcessor) Stop() {
	p.cancel(errors.New("service stop"))
}

func (p *BlockProcessor) procBlock(block *pb.SubscribeUpdateBlock) {
	startTime := time.Now()
	defer func() {
		logger.Infof("区块处理总耗时: %v, slot: %d", time.Since(startTime), block.Slot)
	}()

	// 逐流判重（重连后 Geyser 可能重推）：一条流已处理不妨碍另一条流补发
	doIx := p.streamNeedsProcessing(block.Slot, progress.StreamInstruction)
	doAcc := p.streamNeedsProcessing(block.Slot, progress.StreamAccount)
	if !doIx && !doAcc {
		logger.Infof("slot %d 两条流均已处理，跳过", block.Slot)
		return
	}

	topics := p.sc.Config.KafkaProducerConf.Topics

	// 1. 指令流：过滤合法交易后并发解码
	if doIx {
		validTxs := make([]*pb.SubscribeUpdateTransactionInfo, 0, len(block.Transactions))
		for _, tx := range block.Transactions {
			if IsValidGrpcTx(tx) {
				validTxs = append(validTxs, tx)
			}
		}

		// 尝试解析 blockHash，如果失败只打日志但继续执行
		blockHash, err := types.HashFromBase58(block.Blockhash)
		if err != nil {
			logger.Errorf("[严重] BlockHash 无法解析，将使用零值：slot=%d, blockhash=%s, err=%v",
				block.Slot, block.Blockhash, err)
		}

		parseStart := time.Now()
		results := utils.ParallelMap(validTxs, consts.CpuCount+2,
			func(tx *pb.SubscribeUpdateTransactionInfo) parsedTxResult {
				return p.parseTx(block.Slot, blockHash, topics.Instruction, tx)
			})
		logger.Infof("指令解码耗时: %v, slot: %d", time.Since(parseStart), block.Slot)

		ixJobs := make([]*mq.KafkaJob, 0, len(results)*2)
		for _, result := range results {
			ixJobs = append(ixJobs, result.jobs...)
		}
		logger.Infof("总tx数量: %v, 有效tx数量: %v, 指令记录数量: %v",
			len(block.Transactions), len(validTxs), len(ixJobs))

		p.emit(block.Slot, progress.StreamInstruction, ixJobs)
	}

	// 2. 账户流：解码区块内的账户变更
	if doAcc {
		accJobs := p.parseAccounts(block, topics.Account)
		p.emit(block.Slot, progress.StreamAccount, accJobs)
	}
}

// streamNeedsProcessing 判断某条输出流是否仍需处理该 slot。
func (p *BlockProcessor) streamNeedsProcessing(slot uint64, kind progress.StreamKind) bool {
	status, err := p.sc.Progress.GetSlotStatus(p.ctx, slot, kind)
	return shouldProcessStream(status, err)
}

// shouldProcessStream 仅 Processed 跳过；Pending / Invalid / Unknown 以及
// 查询失败都按需要处理对待（宁可重放，不可漏发）。
func shouldProcessStream(status progress.SlotStatus, err error) bool {
	if err != nil {
		return true
	}
	return status != progress.SlotProcessed
}

// parseTx 解码单笔交易：还原调用树后交给调度器，输出 Kafka 消息。
// Filtered（未注册程序）不产生记录；适配失败整笔丢弃并记日志。
func (p *BlockProcessor) parseTx(slot uint64, blockHash types.Hash, topic string, tx *pb.SubscribeUpdateTransactionInfo) parsedTxResult {
	adaptedTx, err := txadapter.AdaptGrpcTx(slot, tx)
	if err != nil {
		logger.Warnf("适配交易失败: slot=%d txIndex=%d err=%v", slot, tx.Index, err)
		return parsedTxResult{txIndex: int(tx.Index)}
	}

	outcomes := p.sc.Dispatcher.DispatchForest(adaptedTx.Roots)
	return parsedTxResult{
		txIndex: int(tx.Index),
		jobs:    jobbuilder.BuildInstructionJobs(topic, slot, blockHash, adaptedTx.Signature, outcomes),
	}
}

// parseAccounts 解码区块推送中的账户变更。
func (p *BlockProcessor) parseAccounts(block *pb.SubscribeUpdateBlock, topic string) []*mq.KafkaJob {
	jobs := make([]*mq.KafkaJob, 0, len(block.Accounts))
	for _, acc := range block.Accounts {
		update, err := txadapter.AdaptGrpcAccount(block.Slot, acc)
		if err != nil {
			logger.Warnf("适配账户失败: slot=%d err=%v", block.Slot, err)
			continue
		}
		outcomes := p.sc.Dispatcher.DispatchAccount(update)
		jobs = append(jobs, jobbuilder.BuildAccountJobs(topic, outcomes)...)
	}
	return jobs
}

// emit 发送一批消息并标记对应流的 slot 状态。
// 全部成功标记 Processed；部分失败标记 Pending，留待补偿任务重放。
func (p *BlockProcessor) emit(slot uint64, kind progress.StreamKind, jobs []*mq.KafkaJob) {
	partitions := p.numPartitions(kind)
	timeout := time.Duration(p.sc.Config.SlotSendTimeoutMs) * time.Millisecond
	ok, failed := mq.SendKafkaJobs(p.ctx, p.sc.Producer, jobs, partitions, timeout)

	status := progress.SlotProcessed
	if len(failed) > 0 {
		logger.Errorf("slot %d %s 流发送失败: ok=%d failed=%d", slot, kind, len(ok), len(failed))
		status = progress.SlotPending
	}
	if err := p.sc.Progress.MarkSlotStatus(p.ctx, slot, kind, status); err != nil {
		logger.Errorf("slot %d %s 流进度标记失败: %v", slot, kind, err)
	}
}

func (p *BlockProcessor) numPartitions(kind progress.StreamKind) int {
	if kind == progress.StreamAccount {
		return p.sc.Config.KafkaProducerConf.Partitions.Account
	}
	return p.sc.Config.KafkaProducerConf.Partitions.Instruction
}

// IsValidGrpcTx 过滤无效交易：结构缺失、vote 交易与执行失败的交易一律跳过。
func IsValidGrpcTx(tx *pb.SubscribeUpdateTransactionInfo) bool {
	if tx == nil || // - nil transaction info
		tx.Transaction == nil || // - missing Transaction field
		tx.Transaction.Message == nil || // - missing Message field in transaction
		len(tx.Transaction.Signatures) == 0 || // - missing transaction signature
		len(tx.Transaction.Signatures[0]) != 64 || // - invalid transaction signature length
		tx.IsVote || // - vote transaction skipped
		tx.Meta == nil || // - missing transaction meta data
		tx.Meta.Err != nil { // - transaction execution failed
		return false
	}
	return true
}
