package codec

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"sol-decoder/internal/types"
)

// Reader 是基于游标的二进制读取器，所有定长整数均按小端序解析。
// 读取失败时返回 ErrTruncated 且不推进游标（保证失败后状态可用），
// 任何输入都不会越界或 panic。
type Reader struct {
	data []byte
	off  int
}

// NewReader 基于给定字节切片构造 Reader。不复制数据，调用方保证底层切片不被修改。
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining 返回尚未读取的字节数。
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Offset 返回当前游标位置（已读取的字节数）。
func (r *Reader) Offset() int {
	return r.off
}

// Empty 判断是否已读尽。
func (r *Reader) Empty() bool {
	return r.off >= len(r.data)
}

// take 校验剩余长度并推进游标，返回对应的子切片。
// 所有读取操作最终都经由此处，越界检查集中在这一个分支上。
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, remaining %d", ErrTruncated, n, r.off, r.Remaining())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU128 读取 16 字节小端整数。Go 无原生 u128，返回 big.Int。
func (r *Reader) ReadU128() (*big.Int, error) {
	b, err := r.take(16)
	if err != nil {
		return nil, err
	}
	// big.Int 要求大端输入，反转后构造
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[i] = b[15-i]
	}
	return new(big.Int).SetBytes(be), nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadBool 读取 1 字节布尔值，非 0/1 视为非法输入。
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		r.off-- // 失败不推进
		return false, fmt.Errorf("codec: invalid bool tag %d at offset %d", v, r.off)
	}
}

// ReadBytes 读取定长字节段。返回的切片直接引用底层数据，调用方不应修改。
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadPubkey 读取固定 32 字节地址。
func (r *Reader) ReadPubkey() (types.Pubkey, error) {
	b, err := r.take(types.PubkeyLen)
	if err != nil {
		return types.Pubkey{}, err
	}
	var p types.Pubkey
	copy(p[:], b)
	return p, nil
}

// ReadBytesWithLen 读取 u32 小端长度前缀 + 等长字节段（Borsh 的 Vec<u8> 编码）。
// 长度前缀本身读取成功但剩余不足时，游标回退到前缀之前，保证"失败不推进"。
func (r *Reader) ReadBytesWithLen() ([]byte, error) {
	start := r.off
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	b, err := r.take(int(n))
	if err != nil {
		r.off = start
		return nil, err
	}
	return b, nil
}

// ReadString 读取 u32 长度前缀字符串（Borsh 的 String 编码）。
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytesWithLen()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadString64 读取 u64 长度前缀字符串（bincode 的 String 编码，System Program 使用）。
func (r *Reader) ReadString64() (string, error) {
	start := r.off
	n, err := r.ReadU64()
	if err != nil {
		return "", err
	}
	if n > uint64(r.Remaining()) {
		r.off = start
		return "", fmt.Errorf("%w: string length %d exceeds remaining %d", ErrTruncated, n, r.Remaining())
	}
	b, err := r.take(int(n))
	if err != nil {
		r.off = start
		return "", err
	}
	return string(b), nil
}

// ReadOption 读取 1 字节 Option 标签：0 表示缺省，1 表示后随一个 T 值。
// 由调用方传入具体的读取函数；标签非法按截断同等对待错误处理。
func ReadOption[T any](r *Reader, read func(*Reader) (T, error)) (value T, present bool, err error) {
	start := r.off
	tag, err := r.ReadU8()
	if err != nil {
		return value, false, err
	}
	switch tag {
	case 0:
		return value, false, nil
	case 1:
		value, err = read(r)
		if err != nil {
			r.off = start
			return value, false, err
		}
		return value, true, nil
	default:
		r.off = start
		return value, false, fmt.Errorf("codec: invalid option tag %d at offset %d", tag, start)
	}
}

// ReadCOption 读取 SPL Token 账户态中使用的 4 字节 COption 标签（0/1 小端 u32）+ T。
// 注意指令数据中的 Option 是 1 字节标签，两者不可混用。
func ReadCOption[T any](r *Reader, read func(*Reader) (T, error)) (value T, present bool, err error) {
	start := r.off
	tag, err := r.ReadU32()
	if err != nil {
		return value, false, err
	}
	switch tag {
	case 0:
		// 缺省分支仍需消费 T 的占位字节，由调用方读取后丢弃
		value, err = read(r)
		if err != nil {
			r.off = start
			return value, false, err
		}
		var zero T
		return zero, false, nil
	case 1:
		value, err = read(r)
		if err != nil {
			r.off = start
			return value, false, err
		}
		return value, true, nil
	default:
		r.off = start
		return value, false, fmt.Errorf("codec: invalid coption tag %d at offset %d", tag, start)
	}
}

// ReadPubkeyFn 是 ReadOption/ReadCOption 的 Pubkey 读取函数。
func ReadPubkeyFn(r *Reader) (types.Pubkey, error) {
	return r.ReadPubkey()
}

// ReadU64Fn 是 ReadOption/ReadCOption 的 u64 读取函数。
func ReadU64Fn(r *Reader) (uint64, error) {
	return r.ReadU64()
}
