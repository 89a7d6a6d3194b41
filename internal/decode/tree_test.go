package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/types"
)

func testAccountKeys(n int) []types.Pubkey {
	keys := make([]types.Pubkey, n)
	for i := range keys {
		keys[i][0] = byte(i + 1)
	}
	return keys
}

func TestBuildInstructionTreeFlat(t *testing.T) {
	keys := testAccountKeys(4)
	outer := []RawInstruction{
		{ProgramIDIndex: 0, AccountIndexes: []uint32{1, 2}, Data: []byte{1}},
		{ProgramIDIndex: 3, AccountIndexes: []uint32{2}, Data: []byte{2}},
	}

	roots, err := BuildInstructionTree(keys, outer, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	assert.Equal(t, keys[0], roots[0].Program)
	assert.Equal(t, []types.Pubkey{keys[1], keys[2]}, roots[0].Accounts)
	assert.Equal(t, uint32(1), roots[0].StackHeight)
	assert.Equal(t, uint16(0), roots[0].IxIndex)
	assert.Empty(t, roots[0].Inner)

	assert.Equal(t, keys[3], roots[1].Program)
	assert.Equal(t, uint16(1), roots[1].IxIndex)
}

// 深度序列 [2,3,2]：第一条 inner 挂在主指令下，第二条挂在第一条下，
// 第三条回到深度 2，重新挂回主指令。
func TestBuildInstructionTreeNesting(t *testing.T) {
	keys := testAccountKeys(3)
	outer := []RawInstruction{
		{ProgramIDIndex: 0, Data: []byte{0}},
	}
	inner := func(height uint32, tag byte) RawInnerInstruction {
		return RawInnerInstruction{
			RawInstruction: RawInstruction{ProgramIDIndex: 1, Data: []byte{tag}},
			StackHeight:    height,
		}
	}
	groups := []RawInnerGroup{{
		OuterIndex:   0,
		Instructions: []RawInnerInstruction{inner(2, 'a'), inner(3, 'b'), inner(2, 'c')},
	}}

	roots, err := BuildInstructionTree(keys, outer, groups)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	root := roots[0]
	require.Len(t, root.Inner, 2)
	a, c := root.Inner[0], root.Inner[1]
	assert.Equal(t, []byte{'a'}, a.Data)
	assert.Equal(t, []byte{'c'}, c.Data)

	require.Len(t, a.Inner, 1)
	assert.Equal(t, []byte{'b'}, a.Inner[0].Data)
	assert.Empty(t, c.Inner)

	// InnerIndex 按组内顺序连续编号（从 1 开始），与树形无关
	assert.Equal(t, uint16(1), a.InnerIndex)
	assert.Equal(t, uint16(2), a.Inner[0].InnerIndex)
	assert.Equal(t, uint16(3), c.InnerIndex)

	// 深度优先展开应还原执行顺序
	flat := FlattenForest(roots)
	require.Len(t, flat, 4)
	assert.Equal(t, []byte{0}, flat[0].Data)
	assert.Equal(t, []byte{'a'}, flat[1].Data)
	assert.Equal(t, []byte{'b'}, flat[2].Data)
	assert.Equal(t, []byte{'c'}, flat[3].Data)
}

// 深度缺失（0）按主指令直接子调用处理。
func TestBuildInstructionTreeMissingHeights(t *testing.T) {
	keys := testAccountKeys(2)
	outer := []RawInstruction{{ProgramIDIndex: 0}}
	groups := []RawInnerGroup{{
		OuterIndex: 0,
		Instructions: []RawInnerInstruction{
			{RawInstruction: RawInstruction{ProgramIDIndex: 1, Data: []byte{'x'}}},
			{RawInstruction: RawInstruction{ProgramIDIndex: 1, Data: []byte{'y'}}},
		},
	}}

	roots, err := BuildInstructionTree(keys, outer, groups)
	require.NoError(t, err)
	require.Len(t, roots[0].Inner, 2)
	assert.Equal(t, uint32(2), roots[0].Inner[0].StackHeight)
}

// 深度跳跃（2 → 4）容错：挂到最近的浅层祖先下，不报错。
func TestBuildInstructionTreeDepthGap(t *testing.T) {
	keys := testAccountKeys(2)
	outer := []RawInstruction{{ProgramIDIndex: 0}}
	groups := []RawInnerGroup{{
		OuterIndex: 0,
		Instructions: []RawInnerInstruction{
			{RawInstruction: RawInstruction{ProgramIDIndex: 1, Data: []byte{'a'}}, StackHeight: 2},
			{RawInstruction: RawInstruction{ProgramIDIndex: 1, Data: []byte{'b'}}, StackHeight: 4},
		},
	}}

	roots, err := BuildInstructionTree(keys, outer, groups)
	require.NoError(t, err)
	a := roots[0].Inner[0]
	require.Len(t, a.Inner, 1)
	assert.Equal(t, []byte{'b'}, a.Inner[0].Data)
}

// 任何账户下标越界都使整笔交易还原失败。
func TestBuildInstructionTreeIndexOutOfRange(t *testing.T) {
	keys := testAccountKeys(2)

	_, err := BuildInstructionTree(keys, []RawInstruction{{ProgramIDIndex: 9}}, nil)
	assert.Error(t, err)

	_, err = BuildInstructionTree(keys, []RawInstruction{{ProgramIDIndex: 0, AccountIndexes: []uint32{5}}}, nil)
	assert.Error(t, err)

	_, err = BuildInstructionTree(keys, []RawInstruction{{ProgramIDIndex: 0}}, []RawInnerGroup{{OuterIndex: 7}})
	assert.Error(t, err)
}
