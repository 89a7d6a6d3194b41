package txadapter

import (
	"testing"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/types"
)

func uint32Ptr(v uint32) *uint32 { return &v }

func pbKeys(keys ...types.Pubkey) [][]byte {
	raw := make([][]byte, len(keys))
	for i, k := range keys {
		key := k
		raw[i] = key[:]
	}
	return raw
}

func sampleTx() *pb.SubscribeUpdateTransactionInfo {
	return &pb.SubscribeUpdateTransactionInfo{
		Index: 3,
		Transaction: &pb.Transaction{
			Signatures: [][]byte{make([]byte, 64)},
			Message: &pb.Message{
				Header:      &pb.MessageHeader{NumRequiredSignatures: 1},
				AccountKeys: pbKeys(types.Pubkey{1}, types.Pubkey{2}),
				Instructions: []*pb.CompiledInstruction{
					{ProgramIdIndex: 1, Accounts: []byte{0, 2}, Data: []byte{9}},
				},
			},
		},
		Meta: &pb.TransactionStatusMeta{
			LoadedWritableAddresses: pbKeys(types.Pubkey{3}),
			LoadedReadonlyAddresses: pbKeys(types.Pubkey{4}),
			InnerInstructions: []*pb.InnerInstructions{
				{
					Index: 0,
					Instructions: []*pb.InnerInstruction{
						{ProgramIdIndex: 3, Accounts: []byte{2}, Data: []byte{7}, StackHeight: uint32Ptr(2)},
					},
				},
			},
		},
	}
}

func TestAdaptGrpcTx(t *testing.T) {
	adapted, err := AdaptGrpcTx(555, sampleTx())
	require.NoError(t, err)

	assert.Equal(t, uint64(555), adapted.Slot)
	assert.Equal(t, uint32(3), adapted.TxIndex)
	assert.Equal(t, []types.Pubkey{{1}}, adapted.Signers)
	require.Len(t, adapted.Roots, 1)

	root := adapted.Roots[0]
	// 下标 2 引用的是 Address Lookup 展开后的 writable 地址
	assert.Equal(t, types.Pubkey{2}, root.Program)
	assert.Equal(t, []types.Pubkey{{1}, {3}}, root.Accounts)

	require.Len(t, root.Inner, 1)
	inner := root.Inner[0]
	assert.Equal(t, types.Pubkey{4}, inner.Program)
	assert.Equal(t, uint32(2), inner.StackHeight)
	assert.Equal(t, uint16(1), inner.InnerIndex)
}

func TestAdaptGrpcTxInvalidPubkeyLength(t *testing.T) {
	tx := sampleTx()
	tx.Transaction.Message.AccountKeys[0] = []byte{1, 2, 3}
	_, err := AdaptGrpcTx(1, tx)
	assert.Error(t, err)
}

func TestAdaptGrpcTxMissingSignature(t *testing.T) {
	tx := sampleTx()
	tx.Transaction.Signatures = nil
	_, err := AdaptGrpcTx(1, tx)
	assert.Error(t, err)
}

func TestAdaptGrpcTxIndexOutOfRange(t *testing.T) {
	tx := sampleTx()
	tx.Transaction.Message.Instructions[0].Accounts = []byte{0, 99}
	_, err := AdaptGrpcTx(1, tx)
	assert.Error(t, err)
}

func TestAdaptGrpcAccount(t *testing.T) {
	pubkey, owner := types.Pubkey{8}, types.Pubkey{9}
	update, err := AdaptGrpcAccount(777, &pb.SubscribeUpdateAccountInfo{
		Pubkey:   pubkey[:],
		Owner:    owner[:],
		Data:     []byte{1, 2, 3},
		Lamports: 2_039_280,
	})
	require.NoError(t, err)
	assert.Equal(t, pubkey, update.Pubkey)
	assert.Equal(t, owner, update.Owner)
	assert.Equal(t, uint64(777), update.Slot)
	assert.Equal(t, uint64(2_039_280), update.Lamports)

	_, err = AdaptGrpcAccount(1, &pb.SubscribeUpdateAccountInfo{Pubkey: []byte{1}, Owner: owner[:]})
	assert.Error(t, err)
}
