// Package token2022 解码 Token-2022 程序的可扩展账户格式。
//
// 账户数据 = 定长 base 记录（与 SPL Token 同布局）+ 1 字节账户类型 + TLV 扩展链。
// 每个扩展块为 u16 小端类型 + u16 小端长度 + 等长 payload；
// 未知类型的块原样保留 payload（向前兼容），已知类型解码为具体结构。
package token2022

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/decode"
)

// ExtensionType 为扩展块的 2 字节类型编号。
type ExtensionType uint16

// 已知扩展类型（编号为链上布局事实）。
const (
	ExtTypeUninitialized       ExtensionType = 0
	ExtTypeTransferFeeConfig   ExtensionType = 1
	ExtTypeTransferFeeAmount   ExtensionType = 2
	ExtTypeMintCloseAuthority  ExtensionType = 3
	ExtTypeDefaultAccountState ExtensionType = 6
	ExtTypeImmutableOwner      ExtensionType = 7
	ExtTypeMemoTransfer        ExtensionType = 8
	ExtTypePermanentDelegate   ExtensionType = 12
	ExtTypeTransferHook        ExtensionType = 14
	ExtTypeMetadataPointer     ExtensionType = 18
)

// Extension 是扩展链中的一个条目。
// Decoded 为已识别类型的具体结构体指针；未识别类型 Decoded 为 nil，Raw 保留原始 payload。
type Extension struct {
	Type    ExtensionType
	Raw     []byte // 原始 payload（引用底层数据，只读）
	Decoded any    // 已知类型时为对应结构体指针
}

// Known 判断该条目是否被解码为具体结构。
func (e Extension) Known() bool {
	return e.Decoded != nil
}

// DecodeExtensions 解码 base 记录之后的整条 TLV 扩展链。
//
// 零字节剩余是正常终止。长度头声明超过剩余缓冲区时返回 ErrTruncatedExtension，
// 此时游标已不可信，调用方应将整条链视为失败而不是使用部分结果。
func DecodeExtensions(data []byte) ([]Extension, error) {
	r := codec.NewReader(data)
	var exts []Extension
	for !r.Empty() {
		extType, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("%w: reading type at offset %d", decode.ErrTruncatedExtension, r.Offset())
		}
		length, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("%w: reading length at offset %d", decode.ErrTruncatedExtension, r.Offset())
		}
		payload, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: type %d declares %d bytes, %d remaining", decode.ErrTruncatedExtension, extType, length, r.Remaining())
		}

		ext := Extension{Type: ExtensionType(extType), Raw: payload}
		if decoder, ok := extensionDecoders[ext.Type]; ok {
			decoded, err := decoder(payload)
			if err != nil {
				// 类型已知但 payload 不合布局，同样使整条链失败
				return nil, fmt.Errorf("decode extension %d: %w", extType, err)
			}
			ext.Decoded = decoded
		}
		exts = append(exts, ext)
	}
	return exts, nil
}
