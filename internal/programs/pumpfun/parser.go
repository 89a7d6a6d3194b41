package pumpfun

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/consts"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"

	"github.com/near/borsh-go"
)

// Parser 实现 Pump.fun 的指令与账户解码。
// Anchor 族对定长参数后的多余字节宽容（链上数据存在版本间的尾部增量）。
type Parser struct {
	prefilter decode.Prefilter
}

func NewParser() *Parser {
	return &Parser{
		prefilter: decode.NewPrefilter().
			TransactionAccounts(consts.PumpFunProgram).
			AccountOwners(consts.PumpFunProgram).
			Build(),
	}
}

func (p *Parser) Program() types.Pubkey {
	return consts.PumpFunProgram
}

func (p *Parser) Prefilter() decode.Prefilter {
	return p.prefilter
}

func (p *Parser) IdentifyInstruction(data []byte) (string, bool) {
	if IsEventCPI(data) {
		disc, ok := codec.PeekDiscriminator(data[codec.DiscriminatorLen:])
		if !ok {
			return "", false
		}
		name, ok := eventVariants[disc]
		return name, ok
	}
	disc, ok := codec.PeekDiscriminator(data)
	if !ok {
		return "", false
	}
	name, ok := ixVariants[disc]
	return name, ok
}

func (p *Parser) IdentifyAccount(data []byte) (string, bool) {
	disc, ok := codec.PeekDiscriminator(data)
	if !ok {
		return "", false
	}
	name, ok := accountVariants[disc]
	return name, ok
}

// ParseInstruction 解码一条 Pump.fun 指令。
// 事件自调用（data 以 anchor 事件标签开头）经 ParseEvent 解码，
// 产物变体名为事件名（TradeEvent / CreateEvent），Keys 为空、Args 为事件体。
func (p *Parser) ParseInstruction(ix *decode.InstructionUpdate) (*decode.ParsedInstruction, error) {
	if IsEventCPI(ix.Data) {
		event, err := ParseEvent(ix.Data)
		if err != nil {
			return nil, err
		}
		return &decode.ParsedInstruction{
			Program: consts.PumpFunProgram,
			Variant: event.Variant,
			Args:    event.Event,
		}, nil
	}

	disc, ok := codec.PeekDiscriminator(ix.Data)
	if !ok {
		return nil, decode.ErrInvalidDiscriminator
	}
	variant, ok := ixVariants[disc]
	if !ok {
		return nil, fmt.Errorf("%w: pumpfun ix %s", decode.ErrInvalidDiscriminator, disc.Hex())
	}
	data := ix.Data[codec.DiscriminatorLen:]
	accounts := ix.Accounts

	switch variant {
	case VariantBuy:
		if err := decode.CheckAccounts(variant, len(accounts), 7); err != nil {
			return nil, err
		}
		r := codec.NewReader(data)
		args := &BuyArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.MaxSolCost, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, tradeKeys(accounts), args), nil

	case VariantSell:
		if err := decode.CheckAccounts(variant, len(accounts), 7); err != nil {
			return nil, err
		}
		r := codec.NewReader(data)
		args := &SellArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.MinSolOutput, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, tradeKeys(accounts), args), nil

	case VariantCreate:
		if err := decode.CheckAccounts(variant, len(accounts), 8); err != nil {
			return nil, err
		}
		args := &CreateArgs{}
		if err := borsh.Deserialize(args, data); err != nil {
			return nil, fmt.Errorf("%w: create args: %v", codec.ErrTruncated, err)
		}
		return p.parsed(variant, &CreateKeys{
			Mint:                   accounts[0],
			MintAuthority:          accounts[1],
			BondingCurve:           accounts[2],
			AssociatedBondingCurve: accounts[3],
			Global:                 accounts[4],
			MplTokenMetadata:       accounts[5],
			Metadata:               accounts[6],
			User:                   accounts[7],
		}, args), nil
	}
	return nil, decode.ErrInvalidDiscriminator
}

// ParseAccount 解码 Global / BondingCurve 账户（8 字节标识 + borsh 布局）。
func (p *Parser) ParseAccount(acc *decode.AccountUpdate) (*decode.ParsedAccount, error) {
	if acc.Owner != consts.PumpFunProgram {
		return nil, fmt.Errorf("%w: owner %s", decode.ErrOwnerMismatch, acc.Owner)
	}
	disc, ok := codec.PeekDiscriminator(acc.Data)
	if !ok {
		return nil, decode.ErrInvalidDiscriminator
	}
	variant, ok := accountVariants[disc]
	if !ok {
		return nil, fmt.Errorf("%w: pumpfun account %s", decode.ErrInvalidDiscriminator, disc.Hex())
	}
	payload := acc.Data[codec.DiscriminatorLen:]

	var account any
	switch variant {
	case VariantGlobal:
		g := &Global{}
		if err := borsh.Deserialize(g, payload); err != nil {
			return nil, fmt.Errorf("%w: global: %v", codec.ErrTruncated, err)
		}
		account = g
	case VariantBondingCurve:
		bc, err := decodeBondingCurve(payload)
		if err != nil {
			return nil, err
		}
		account = bc
	}
	return &decode.ParsedAccount{
		Program: consts.PumpFunProgram,
		Variant: variant,
		Account: account,
	}, nil
}

// decodeBondingCurve 逐字段读取 BondingCurve。
// 旧版程序的账户没有结尾的 creator 字段，字节存在时才读取。
func decodeBondingCurve(payload []byte) (*BondingCurve, error) {
	r := codec.NewReader(payload)
	bc := &BondingCurve{}
	var err error
	if bc.VirtualTokenReserves, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if bc.VirtualSolReserves, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if bc.RealTokenReserves, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if bc.RealSolReserves, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if bc.TokenTotalSupply, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if bc.Complete, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if r.Remaining() >= types.PubkeyLen {
		if bc.Creator, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
	}
	return bc, nil
}

func tradeKeys(accounts []types.Pubkey) *TradeKeys {
	return &TradeKeys{
		Global:                 accounts[0],
		FeeRecipient:           accounts[1],
		Mint:                   accounts[2],
		BondingCurve:           accounts[3],
		AssociatedBondingCurve: accounts[4],
		AssociatedUser:         accounts[5],
		User:                   accounts[6],
	}
}

func (p *Parser) parsed(variant string, keys, args any) *decode.ParsedInstruction {
	return &decode.ParsedInstruction{
		Program: consts.PumpFunProgram,
		Variant: variant,
		Keys:    keys,
		Args:    args,
	}
}
