package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelMapOrder(t *testing.T) {
	inputs := make([]int, 100)
	for i := range inputs {
		inputs[i] = i
	}

	results := ParallelMap(inputs, 8, func(v int) int { return v * 2 })
	assert.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, i*2, r)
	}
}

func TestParallelMapEdgeCases(t *testing.T) {
	assert.Nil(t, ParallelMap(nil, 4, func(v int) int { return v }))
	assert.Equal(t, []int{10}, ParallelMap([]int{5}, 4, func(v int) int { return v * 2 }))
	// workers 非法时退化为单协程
	assert.Equal(t, []int{1, 2}, ParallelMap([]int{1, 2}, 0, func(v int) int { return v }))
}

func TestPartitionHashBytes(t *testing.T) {
	key := make([]byte, 32)
	key[7], key[15], key[19], key[27] = 1, 2, 3, 4

	v := PartitionHashBytes(key, 8)
	assert.Less(t, v, uint32(8))

	// 同输入同输出
	assert.Equal(t, v, PartitionHashBytes(key, 8))

	// 过短输入与 0 模数安全退回 0 分区
	assert.Zero(t, PartitionHashBytes(key[:20], 8))
	assert.Zero(t, PartitionHashBytes(key, 0))
}
