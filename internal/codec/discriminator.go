package codec

import (
	"crypto/sha256"
	"encoding/hex"
)

// Discriminator 是 Anchor 系程序使用的 8 字节变体标识，
// 位于指令数据 / 账户数据 / 事件数据的起始位置。
type Discriminator [8]byte

// DiscriminatorLen 为 Anchor 标识的固定宽度。
const DiscriminatorLen = 8

func (d Discriminator) Hex() string {
	return hex.EncodeToString(d[:])
}

// derive 对命名空间字符串取 SHA-256 并截取前 8 字节。
// 该推导必须与链上程序编译期生成的常量逐位一致，否则任何已上链数据都无法识别。
func derive(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorLen])
	return d
}

// InstructionDiscriminator 计算指令标识：sha256("global:<name>")[0:8]。
// name 为 IDL 中声明的指令名（snake_case）。
func InstructionDiscriminator(name string) Discriminator {
	return derive("global:" + name)
}

// AccountDiscriminator 计算账户标识：sha256("account:<Name>")[0:8]。
// Name 为 IDL 中声明的账户类型名（PascalCase）。
func AccountDiscriminator(name string) Discriminator {
	return derive("account:" + name)
}

// EventDiscriminator 计算事件标识：sha256("event:<Name>")[0:8]。
func EventDiscriminator(name string) Discriminator {
	return derive("event:" + name)
}

// MatchDiscriminator 判断 data 是否以指定标识开头。
// data 不足 8 字节时恒为 false，不产生越界。
func MatchDiscriminator(data []byte, d Discriminator) bool {
	if len(data) < DiscriminatorLen {
		return false
	}
	return [8]byte(data[:DiscriminatorLen]) == [8]byte(d)
}

// PeekDiscriminator 取出 data 的前 8 字节标识；不足 8 字节时返回 false。
func PeekDiscriminator(data []byte) (Discriminator, bool) {
	if len(data) < DiscriminatorLen {
		return Discriminator{}, false
	}
	var d Discriminator
	copy(d[:], data[:DiscriminatorLen])
	return d, true
}
