package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/logic/progress"
)

// 流判重决策：仅 Processed 跳过，其余状态与查询失败都要处理。
func TestShouldProcessStream(t *testing.T) {
	assert.False(t, shouldProcessStream(progress.SlotProcessed, nil))
	assert.True(t, shouldProcessStream(progress.SlotUnknown, nil))
	assert.True(t, shouldProcessStream(progress.SlotPending, nil))
	assert.True(t, shouldProcessStream(progress.SlotInvalid, nil))
	assert.True(t, shouldProcessStream(progress.SlotProcessed, errors.New("redis down")))
}

// 通道被关闭时消费循环直接退出，不把 nil 区块交给处理逻辑。
func TestBlockProcessorStopsOnClosedChannel(t *testing.T) {
	blockChan := make(chan *pb.SubscribeUpdateBlock, 1)
	p := NewBlockProcessor(nil, blockChan)
	close(blockChan)

	done := make(chan struct{})
	go func() {
		p.Start()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start 未在通道关闭后退出")
	}
}

func TestRecvWithTimeout(t *testing.T) {
	v, err := recvWithTimeout(context.Background(), func() (int, error) { return 7, nil }, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	// 永久阻塞的 Recv 在超时后返回错误
	blocked := make(chan struct{})
	defer close(blocked)
	_, err = recvWithTimeout(context.Background(), func() (int, error) {
		<-blocked
		return 0, nil
	}, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
