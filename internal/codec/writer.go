package codec

import (
	"encoding/binary"

	"sol-decoder/internal/types"
)

// Writer 是 Reader 的逆向编码器，主要服务于测试中的 round-trip 校验，
// 以及需要重新构造指令数据的调用方。追加写入，不会失败。
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes 返回已写入的数据。
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) WriteU8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) WriteU16(v uint16) *Writer {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

func (w *Writer) WriteU32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

func (w *Writer) WriteU64(v uint64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

func (w *Writer) WriteI64(v int64) *Writer {
	return w.WriteU64(uint64(v))
}

func (w *Writer) WriteBool(v bool) *Writer {
	if v {
		return w.WriteU8(1)
	}
	return w.WriteU8(0)
}

func (w *Writer) WriteBytes(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

func (w *Writer) WritePubkey(p types.Pubkey) *Writer {
	w.buf = append(w.buf, p[:]...)
	return w
}

// WriteBytesWithLen 写入 u32 小端长度前缀 + 数据。
func (w *Writer) WriteBytesWithLen(b []byte) *Writer {
	w.WriteU32(uint32(len(b)))
	return w.WriteBytes(b)
}

func (w *Writer) WriteString(s string) *Writer {
	return w.WriteBytesWithLen([]byte(s))
}

// WriteString64 写入 u64 小端长度前缀字符串（bincode 编码）。
func (w *Writer) WriteString64(s string) *Writer {
	w.WriteU64(uint64(len(s)))
	return w.WriteBytes([]byte(s))
}

// WriteOptionPubkey 写入 1 字节 Option 标签 + Pubkey（仅 present 时写值）。
func (w *Writer) WriteOptionPubkey(p types.Pubkey, present bool) *Writer {
	if !present {
		return w.WriteU8(0)
	}
	return w.WriteU8(1).WritePubkey(p)
}

// WriteCOptionPubkey 写入账户态 4 字节 COption 标签 + Pubkey 占位（缺省时写全零）。
func (w *Writer) WriteCOptionPubkey(p types.Pubkey, present bool) *Writer {
	if !present {
		return w.WriteU32(0).WritePubkey(types.Pubkey{})
	}
	return w.WriteU32(1).WritePubkey(p)
}

// WriteCOptionU64 写入账户态 4 字节 COption 标签 + u64 占位。
func (w *Writer) WriteCOptionU64(v uint64, present bool) *Writer {
	if !present {
		return w.WriteU32(0).WriteU64(0)
	}
	return w.WriteU32(1).WriteU64(v)
}
