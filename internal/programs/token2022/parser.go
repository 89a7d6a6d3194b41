package token2022

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/consts"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/programs/token"
	"sol-decoder/internal/types"
)

// AccountType 为 base 记录之后的 1 字节账户类型标记。
type AccountType uint8

const (
	AccountTypeUninitialized AccountType = 0
	AccountTypeMint          AccountType = 1
	AccountTypeAccount       AccountType = 2
)

// baseLen 为扩展格式中 base 记录的统一长度。
// Mint 本体只有 82 字节，但带扩展时会零填充到 165，使账户类型字节处于固定偏移。
const baseLen = token.AccountLen

// 账户变体名。
const (
	VariantMint     = "Mint"
	VariantAccount  = "Account"
	VariantMultisig = "Multisig"
)

// ExtendedMint 是带扩展链的 Mint 账户。
type ExtendedMint struct {
	Base       *token.Mint
	Extensions []Extension // 无扩展时为空
}

// ExtendedAccount 是带扩展链的 Token 账户。
type ExtendedAccount struct {
	Base       *token.Account
	Extensions []Extension
}

// Parser 实现 Token-2022 的账户与指令解码。
// 指令布局与 SPL Token 兼容（编号超集），直接复用 token 包的指令解码；
// 账户侧在定长识别之上增加扩展格式：长度 > 165 时按账户类型字节分派。
type Parser struct {
	token     *token.Parser
	prefilter decode.Prefilter
}

func NewParser() *Parser {
	return &Parser{
		token: token.NewParserFor(consts.TokenProgram2022),
		prefilter: decode.NewPrefilter().
			TransactionAccounts(consts.TokenProgram2022).
			AccountOwners(consts.TokenProgram2022).
			Build(),
	}
}

func (p *Parser) Program() types.Pubkey {
	return consts.TokenProgram2022
}

func (p *Parser) Prefilter() decode.Prefilter {
	return p.prefilter
}

func (p *Parser) IdentifyInstruction(data []byte) (string, bool) {
	return p.token.IdentifyInstruction(data)
}

// ParseInstruction 复用 SPL Token 的指令解码逻辑（编号一致的子集）。
func (p *Parser) ParseInstruction(ix *decode.InstructionUpdate) (*decode.ParsedInstruction, error) {
	return p.token.ParseInstruction(ix)
}

// IdentifyAccount 识别账户变体：
// 定长命中走 SPL Token 的长度规则；超过 baseLen 的按偏移 165 处的账户类型字节分派。
func (p *Parser) IdentifyAccount(data []byte) (string, bool) {
	switch len(data) {
	case token.MintLen:
		return VariantMint, true
	case token.AccountLen:
		return VariantAccount, true
	case token.MultisigLen:
		return VariantMultisig, true
	}
	if len(data) > baseLen {
		switch AccountType(data[baseLen]) {
		case AccountTypeMint:
			return VariantMint, true
		case AccountTypeAccount:
			return VariantAccount, true
		}
	}
	return "", false
}

// ParseAccount 解码一次 Token-2022 账户快照。
// 无扩展的定长布局与 SPL Token 完全一致；带扩展的布局为
// base(165，Mint 为 82 + 零填充) + 账户类型字节 + TLV 链。
func (p *Parser) ParseAccount(acc *decode.AccountUpdate) (*decode.ParsedAccount, error) {
	if acc.Owner != consts.TokenProgram2022 {
		return nil, fmt.Errorf("%w: owner %s", decode.ErrOwnerMismatch, acc.Owner)
	}
	data := acc.Data

	switch len(data) {
	case token.MintLen:
		base, err := token.DecodeMint(data)
		if err != nil {
			return nil, err
		}
		return p.parsed(VariantMint, &ExtendedMint{Base: base}), nil
	case token.AccountLen:
		base, err := token.DecodeAccount(data)
		if err != nil {
			return nil, err
		}
		return p.parsed(VariantAccount, &ExtendedAccount{Base: base}), nil
	case token.MultisigLen:
		ms, err := token.DecodeMultisig(data)
		if err != nil {
			return nil, err
		}
		return p.parsed(VariantMultisig, ms), nil
	}

	if len(data) <= baseLen {
		return nil, fmt.Errorf("%w: %d bytes", decode.ErrUnrecognizedAccountLength, len(data))
	}

	accountType := AccountType(data[baseLen])
	tail := data[baseLen+1:]

	switch accountType {
	case AccountTypeMint:
		// Mint 只占 base 区前 82 字节，其余为零填充
		base, err := token.DecodeMint(data[:token.MintLen])
		if err != nil {
			return nil, err
		}
		exts, err := DecodeExtensions(tail)
		if err != nil {
			return nil, err
		}
		return p.parsed(VariantMint, &ExtendedMint{Base: base, Extensions: exts}), nil

	case AccountTypeAccount:
		base, err := token.DecodeAccountBody(codec.NewReader(data[:token.AccountLen]))
		if err != nil {
			return nil, err
		}
		exts, err := DecodeExtensions(tail)
		if err != nil {
			return nil, err
		}
		return p.parsed(VariantAccount, &ExtendedAccount{Base: base, Extensions: exts}), nil

	default:
		return nil, fmt.Errorf("%w: account type %d", decode.ErrInvalidDiscriminator, accountType)
	}
}

func (p *Parser) parsed(variant string, account any) *decode.ParsedAccount {
	return &decode.ParsedAccount{
		Program: consts.TokenProgram2022,
		Variant: variant,
		Account: account,
	}
}
