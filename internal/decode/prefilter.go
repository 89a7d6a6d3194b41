package decode

import "sol-decoder/internal/types"

// Prefilter 是解码器注册时声明的粗粒度匹配条件：
// 指令侧按"交易必须引用的程序地址"匹配，账户侧按"账户 Owner"匹配。
// 注册后只读，调度层对每条更新做 O(1) 集合查找，未命中不会触发任何解码逻辑。
// 注意这只是共现判断而非归属证明，最终接受与否由解码器的识别逻辑决定。
type Prefilter struct {
	programs map[types.Pubkey]struct{}
	owners   map[types.Pubkey]struct{}
}

// PrefilterBuilder 以链式调用构造 Prefilter。
type PrefilterBuilder struct {
	programs []types.Pubkey
	owners   []types.Pubkey
}

func NewPrefilter() *PrefilterBuilder {
	return &PrefilterBuilder{}
}

// TransactionAccounts 声明交易中必须出现的程序地址（任一命中即通过）。
func (b *PrefilterBuilder) TransactionAccounts(keys ...types.Pubkey) *PrefilterBuilder {
	b.programs = append(b.programs, keys...)
	return b
}

// AccountOwners 声明账户更新的 Owner 白名单（任一命中即通过）。
func (b *PrefilterBuilder) AccountOwners(owners ...types.Pubkey) *PrefilterBuilder {
	b.owners = append(b.owners, owners...)
	return b
}

func (b *PrefilterBuilder) Build() Prefilter {
	p := Prefilter{
		programs: make(map[types.Pubkey]struct{}, len(b.programs)),
		owners:   make(map[types.Pubkey]struct{}, len(b.owners)),
	}
	for _, k := range b.programs {
		p.programs[k] = struct{}{}
	}
	for _, k := range b.owners {
		p.owners[k] = struct{}{}
	}
	return p
}

// MatchesProgram 判断指令的目标程序是否在声明集合内。
func (p Prefilter) MatchesProgram(program types.Pubkey) bool {
	_, ok := p.programs[program]
	return ok
}

// MatchesOwner 判断账户 Owner 是否在声明集合内。
func (p Prefilter) MatchesOwner(owner types.Pubkey) bool {
	_, ok := p.owners[owner]
	return ok
}
