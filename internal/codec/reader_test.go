package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/types"
)

func TestReaderPrimitivesRoundTrip(t *testing.T) {
	pk := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")

	data := NewWriter().
		WriteU8(0xAB).
		WriteU16(0xBEEF).
		WriteU32(0xDEADBEEF).
		WriteU64(0x0102030405060708).
		WriteI64(-42).
		WriteBool(true).
		WritePubkey(pk).
		Bytes()

	r := NewReader(data)

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64v, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64v)

	i64v, err := r.ReadI64()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i64v)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	got, err := r.ReadPubkey()
	require.NoError(t, err)
	assert.Equal(t, pk, got)

	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderLittleEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x00, 0x00, 0x00})
	v, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
}

// 对每个前缀长度都验证：读取失败返回 ErrTruncated 且游标不推进。
func TestReaderTruncationAtEveryPrefix(t *testing.T) {
	full := NewWriter().
		WriteU64(123456789).
		WritePubkey(types.Pubkey{1, 2, 3}).
		Bytes()

	for n := 0; n < len(full); n++ {
		r := NewReader(full[:n])
		if n < 8 {
			_, err := r.ReadU64()
			require.ErrorIs(t, err, ErrTruncated, "prefix %d", n)
			assert.Equal(t, 0, r.Offset(), "prefix %d: cursor must not advance", n)
			continue
		}
		_, err := r.ReadU64()
		require.NoError(t, err)
		_, err = r.ReadPubkey()
		require.ErrorIs(t, err, ErrTruncated, "prefix %d", n)
		assert.Equal(t, 8, r.Offset(), "prefix %d: cursor must stay after last success", n)
	}
}

func TestReaderU128(t *testing.T) {
	// 小端 16 字节：低 8 字节为 1，高 8 字节为 2 → 2<<64 | 1
	data := NewWriter().WriteU64(1).WriteU64(2).Bytes()
	r := NewReader(data)
	v, err := r.ReadU128()
	require.NoError(t, err)

	want := new(big.Int).Lsh(big.NewInt(2), 64)
	want.Add(want, big.NewInt(1))
	assert.Zero(t, v.Cmp(want))
}

func TestReaderBoolRejectsInvalidTag(t *testing.T) {
	r := NewReader([]byte{2})
	_, err := r.ReadBool()
	assert.Error(t, err)
	// 失败不推进游标
	assert.Equal(t, 0, r.Offset())
}

func TestReaderBytesWithLen(t *testing.T) {
	payload := []byte("hello solana")
	data := NewWriter().WriteBytesWithLen(payload).Bytes()

	r := NewReader(data)
	got, err := r.ReadBytesWithLen()
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// 长度前缀声明 100 字节但实际只有 3 字节：失败且游标回退到前缀之前
	r = NewReader(NewWriter().WriteU32(100).WriteBytes([]byte{1, 2, 3}).Bytes())
	_, err = r.ReadBytesWithLen()
	require.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, r.Offset())
}

func TestReaderString64(t *testing.T) {
	data := NewWriter().WriteString64("seed").Bytes()
	r := NewReader(data)
	s, err := r.ReadString64()
	require.NoError(t, err)
	assert.Equal(t, "seed", s)

	// 恶意超大长度前缀不应导致溢出或大段分配
	r = NewReader(NewWriter().WriteU64(1 << 62).Bytes())
	_, err = r.ReadString64()
	require.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, r.Offset())
}

func TestReadOption(t *testing.T) {
	pk := types.Pubkey{7}

	// present
	r := NewReader(NewWriter().WriteOptionPubkey(pk, true).Bytes())
	v, present, err := ReadOption(r, ReadPubkeyFn)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, pk, v)
	assert.True(t, r.Empty())

	// absent：仅消费 1 字节标签
	r = NewReader(NewWriter().WriteOptionPubkey(pk, false).Bytes())
	_, present, err = ReadOption(r, ReadPubkeyFn)
	require.NoError(t, err)
	assert.False(t, present)
	assert.True(t, r.Empty())

	// 非法标签
	r = NewReader([]byte{9})
	_, _, err = ReadOption(r, ReadPubkeyFn)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Offset())
}

func TestReadCOption(t *testing.T) {
	pk := types.Pubkey{5}

	// present：4 字节标签 + 32 字节值
	r := NewReader(NewWriter().WriteCOptionPubkey(pk, true).Bytes())
	v, present, err := ReadCOption(r, ReadPubkeyFn)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, pk, v)
	assert.True(t, r.Empty())

	// absent：占位的 32 字节同样被消费，返回零值
	r = NewReader(NewWriter().WriteCOptionPubkey(pk, false).Bytes())
	v, present, err = ReadCOption(r, ReadPubkeyFn)
	require.NoError(t, err)
	assert.False(t, present)
	assert.True(t, v.IsZero())
	assert.True(t, r.Empty())

	// absent 但占位字节缺失：按截断处理
	r = NewReader(NewWriter().WriteU32(0).Bytes())
	_, _, err = ReadCOption(r, ReadPubkeyFn)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, r.Offset())
}
