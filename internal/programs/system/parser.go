package system

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/consts"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"
)

// variantNames 按变体编号映射声明名，用于 Identify 与错误信息。
var variantNames = map[uint32]string{
	TagCreateAccount:         "create_account",
	TagAssign:                "assign",
	TagTransfer:              "transfer",
	TagCreateAccountWithSeed: "create_account_with_seed",
	TagAllocate:              "allocate",
	TagTransferWithSeed:      "transfer_with_seed",
}

// Parser 实现 System Program 的指令解码。无状态，可并发复用。
type Parser struct {
	prefilter decode.Prefilter
}

func NewParser() *Parser {
	return &Parser{
		prefilter: decode.NewPrefilter().
			TransactionAccounts(consts.SystemProgram).
			Build(),
	}
}

func (p *Parser) Program() types.Pubkey {
	return consts.SystemProgram
}

func (p *Parser) Prefilter() decode.Prefilter {
	return p.prefilter
}

func (p *Parser) IdentifyInstruction(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}
	tag := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	name, ok := variantNames[tag]
	return name, ok
}

// ParseInstruction 解码一条 System Program 指令。
// 账户数校验先于数据解析；数据按变体布局严格读取，剩余字节不做要求
// （System Program 自身对多余字节宽容，保持一致）。
func (p *Parser) ParseInstruction(ix *decode.InstructionUpdate) (*decode.ParsedInstruction, error) {
	r := codec.NewReader(ix.Data)
	tag, err := r.ReadU32()
	if err != nil {
		return nil, decode.ErrInvalidDiscriminator
	}
	variant, ok := variantNames[tag]
	if !ok {
		return nil, fmt.Errorf("%w: system tag %d", decode.ErrInvalidDiscriminator, tag)
	}

	switch tag {
	case TagCreateAccount:
		if err := decode.CheckAccounts(variant, len(ix.Accounts), 2); err != nil {
			return nil, err
		}
		args := &CreateAccountArgs{}
		if args.Lamports, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Space, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Owner, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &CreateAccountKeys{
			Funding:    ix.Accounts[0],
			NewAccount: ix.Accounts[1],
		}, args), nil

	case TagAssign:
		if err := decode.CheckAccounts(variant, len(ix.Accounts), 1); err != nil {
			return nil, err
		}
		args := &AssignArgs{}
		if args.Owner, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &AssignKeys{Account: ix.Accounts[0]}, args), nil

	case TagTransfer:
		if err := decode.CheckAccounts(variant, len(ix.Accounts), 2); err != nil {
			return nil, err
		}
		args := &TransferArgs{}
		if args.Lamports, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &TransferKeys{
			Funding:   ix.Accounts[0],
			Recipient: ix.Accounts[1],
		}, args), nil

	case TagCreateAccountWithSeed:
		if err := decode.CheckAccounts(variant, len(ix.Accounts), 2); err != nil {
			return nil, err
		}
		args := &CreateAccountWithSeedArgs{}
		if args.Base, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		if args.Seed, err = r.ReadString64(); err != nil {
			return nil, err
		}
		if args.Lamports, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Space, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Owner, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &CreateAccountWithSeedKeys{
			Funding:    ix.Accounts[0],
			NewAccount: ix.Accounts[1],
		}, args), nil

	case TagAllocate:
		if err := decode.CheckAccounts(variant, len(ix.Accounts), 1); err != nil {
			return nil, err
		}
		args := &AllocateArgs{}
		if args.Space, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &AllocateKeys{Account: ix.Accounts[0]}, args), nil

	case TagTransferWithSeed:
		if err := decode.CheckAccounts(variant, len(ix.Accounts), 3); err != nil {
			return nil, err
		}
		args := &TransferWithSeedArgs{}
		if args.Lamports, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Seed, err = r.ReadString64(); err != nil {
			return nil, err
		}
		if args.FromOwner, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &TransferWithSeedKeys{
			Funding:   ix.Accounts[0],
			Base:      ix.Accounts[1],
			Recipient: ix.Accounts[2],
		}, args), nil
	}
	// variantNames 命中过，不会到达
	return nil, decode.ErrInvalidDiscriminator
}

func (p *Parser) parsed(variant string, keys, args any) *decode.ParsedInstruction {
	return &decode.ParsedInstruction{
		Program: consts.SystemProgram,
		Variant: variant,
		Keys:    keys,
		Args:    args,
	}
}
