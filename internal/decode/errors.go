package decode

import (
	"errors"
	"fmt"
)

// 解码层错误全部是"仅拒绝本次尝试"级别，不会中断批处理，也不会污染共享状态。
var (
	// ErrInvalidDiscriminator 表示数据前缀未命中本解码器任何已知变体，
	// 语义上等价于"这不是我的数据"。
	ErrInvalidDiscriminator = errors.New("decode: invalid discriminator")

	// ErrUnrecognizedAccountLength 表示按长度识别的账户族未找到匹配的固定长度。
	ErrUnrecognizedAccountLength = errors.New("decode: unrecognized account length")

	// ErrOwnerMismatch 表示账户 Owner 与解码器所属程序不一致。
	ErrOwnerMismatch = errors.New("decode: account owner mismatch")

	// ErrTrailingBytes 表示定长变体匹配成功后缓冲区仍有剩余字节（严格模式下报错）。
	ErrTrailingBytes = errors.New("decode: trailing bytes after fixed-length variant")

	// ErrTruncatedExtension 表示扩展块声明长度超过剩余缓冲区。
	// 此时游标位置已不可信，整条扩展链按失败处理。
	ErrTruncatedExtension = errors.New("decode: truncated extension block")
)

// InsufficientAccountsError 表示按位绑定账户时，提供的账户数少于该变体要求。
type InsufficientAccountsError struct {
	Variant  string // 已识别出的变体名
	Expected int    // 该变体要求的最少账户数
	Actual   int    // 实际提供的账户数
}

func (e *InsufficientAccountsError) Error() string {
	return fmt.Sprintf("decode: insufficient accounts for %s: expected %d, got %d", e.Variant, e.Expected, e.Actual)
}

// NewInsufficientAccounts 构造账户数不足错误。
func NewInsufficientAccounts(variant string, expected, actual int) error {
	return &InsufficientAccountsError{Variant: variant, Expected: expected, Actual: actual}
}

// CheckAccounts 校验账户数量下限，不足时返回 InsufficientAccountsError。
func CheckAccounts(variant string, accounts int, expected int) error {
	if accounts < expected {
		return NewInsufficientAccounts(variant, expected, accounts)
	}
	return nil
}
