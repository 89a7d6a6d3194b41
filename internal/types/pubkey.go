package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Pubkey 表示 Solana 上的 32 字节地址（账户、程序、Mint 等统一使用）。
// 值类型，按字节精确比较。
type Pubkey [32]byte

// PubkeyLen 为 Pubkey 的固定字节长度。
const PubkeyLen = 32

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) Equals(other Pubkey) bool {
	return p == other
}

// IsZero 判断是否为全零地址（常用于表示"未设置"）。
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// PubkeyFromBytes 从原始字节构造 Pubkey，长度不为 32 时返回 error（用于不信任输入路径）。
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	if len(b) != PubkeyLen {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want %d", len(b), PubkeyLen)
	}
	var p Pubkey
	copy(p[:], b)
	return p, nil
}

// TryPubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时返回 error（用于不信任输入路径）
func TryPubkeyFromBase58(s string) (Pubkey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("failed to decode base58 pubkey %q: %w", s, err)
	}
	if len(data) != PubkeyLen {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want 32, input=%q", len(data), s)
	}
	var p Pubkey
	copy(p[:], data)
	return p, nil
}

// PubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时 panic（仅用于初始化期常量地址）。
func PubkeyFromBase58(s string) Pubkey {
	p, err := TryPubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return p
}

func PubkeysFromBase58(strs []string) []Pubkey {
	result := make([]Pubkey, 0, len(strs))
	for _, s := range strs {
		result = append(result, PubkeyFromBase58(s))
	}
	return result
}
