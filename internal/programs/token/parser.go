package token

import (
	"fmt"

	"sol-decoder/internal/codec"
	"sol-decoder/internal/consts"
	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// variantNames 按 1 字节指令编号映射声明名。编号常量来自 blocto sdk。
var variantNames = map[uint8]string{
	uint8(sdktoken.InstructionInitializeMint):     "initialize_mint",
	uint8(sdktoken.InstructionInitializeAccount):  "initialize_account",
	uint8(sdktoken.InstructionTransfer):           "transfer",
	uint8(sdktoken.InstructionApprove):            "approve",
	uint8(sdktoken.InstructionMintTo):             "mint_to",
	uint8(sdktoken.InstructionBurn):               "burn",
	uint8(sdktoken.InstructionCloseAccount):       "close_account",
	uint8(sdktoken.InstructionTransferChecked):    "transfer_checked",
	uint8(sdktoken.InstructionMintToChecked):      "mint_to_checked",
	uint8(sdktoken.InstructionBurnChecked):        "burn_checked",
	uint8(sdktoken.InstructionSyncNative):         "sync_native",
	uint8(sdktoken.InstructionInitializeAccount3): "initialize_account3",
}

// 账户变体名（按长度识别）。
const (
	VariantMint     = "Mint"
	VariantAccount  = "Account"
	VariantMultisig = "Multisig"
)

// Parser 实现 SPL Token 的指令与账户解码。
// 指令数据尾部多余字节不报错（链上常见 padding），账户族长度精确匹配。
type Parser struct {
	program   types.Pubkey
	prefilter decode.Prefilter
}

// NewParser 构造 Token 程序解码器。
func NewParser() *Parser {
	return NewParserFor(consts.TokenProgram)
}

// NewParserFor 以指定程序地址构造解码器。
// Token-2022 指令布局与 SPL Token 兼容，token2022 包用它复用本包的指令逻辑。
func NewParserFor(program types.Pubkey) *Parser {
	return &Parser{
		program: program,
		prefilter: decode.NewPrefilter().
			TransactionAccounts(program).
			AccountOwners(program).
			Build(),
	}
}

func (p *Parser) Program() types.Pubkey {
	return p.program
}

func (p *Parser) Prefilter() decode.Prefilter {
	return p.prefilter
}

func (p *Parser) IdentifyInstruction(data []byte) (string, bool) {
	if len(data) < 1 {
		return "", false
	}
	name, ok := variantNames[data[0]]
	return name, ok
}

// IdentifyAccount 按数据总长识别账户变体。
func (p *Parser) IdentifyAccount(data []byte) (string, bool) {
	switch len(data) {
	case MintLen:
		return VariantMint, true
	case AccountLen:
		return VariantAccount, true
	case MultisigLen:
		return VariantMultisig, true
	default:
		return "", false
	}
}

// ParseAccount 解码账户快照。Owner 必须等于本程序地址。
func (p *Parser) ParseAccount(acc *decode.AccountUpdate) (*decode.ParsedAccount, error) {
	if acc.Owner != p.program {
		return nil, fmt.Errorf("%w: owner %s", decode.ErrOwnerMismatch, acc.Owner)
	}
	variant, ok := p.IdentifyAccount(acc.Data)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes", decode.ErrUnrecognizedAccountLength, len(acc.Data))
	}
	var (
		account any
		err     error
	)
	switch variant {
	case VariantMint:
		account, err = DecodeMint(acc.Data)
	case VariantAccount:
		account, err = DecodeAccount(acc.Data)
	case VariantMultisig:
		account, err = DecodeMultisig(acc.Data)
	}
	if err != nil {
		return nil, err
	}
	return &decode.ParsedAccount{
		Program: p.program,
		Variant: variant,
		Account: account,
	}, nil
}

// ParseInstruction 解码一条 Token 指令。
func (p *Parser) ParseInstruction(ix *decode.InstructionUpdate) (*decode.ParsedInstruction, error) {
	if len(ix.Data) == 0 {
		return nil, decode.ErrInvalidDiscriminator
	}
	tag := ix.Data[0]
	variant, ok := variantNames[tag]
	if !ok {
		return nil, fmt.Errorf("%w: token tag %d", decode.ErrInvalidDiscriminator, tag)
	}
	r := codec.NewReader(ix.Data[1:])
	accounts := ix.Accounts

	switch sdktoken.Instruction(tag) {
	case sdktoken.InstructionInitializeMint:
		if err := decode.CheckAccounts(variant, len(accounts), 2); err != nil {
			return nil, err
		}
		args := &InitializeMintArgs{}
		var err error
		if args.Decimals, err = r.ReadU8(); err != nil {
			return nil, err
		}
		if args.MintAuthority, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		// 指令数据中的 Option 为 1 字节标签（区别于账户态的 COption）
		if args.FreezeAuthority, args.HasFreezeAuthority, err = codec.ReadOption(r, codec.ReadPubkeyFn); err != nil {
			return nil, err
		}
		return p.parsed(variant, &InitializeMintKeys{Mint: accounts[0], Rent: accounts[1]}, args), nil

	case sdktoken.InstructionInitializeAccount:
		if err := decode.CheckAccounts(variant, len(accounts), 4); err != nil {
			return nil, err
		}
		return p.parsed(variant, &InitializeAccountKeys{
			Account: accounts[0],
			Mint:    accounts[1],
			Owner:   accounts[2],
			Rent:    accounts[3],
		}, nil), nil

	case sdktoken.InstructionInitializeAccount3:
		if err := decode.CheckAccounts(variant, len(accounts), 2); err != nil {
			return nil, err
		}
		args := &InitializeAccount3Args{}
		var err error
		if args.Owner, err = r.ReadPubkey(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &InitializeAccount3Keys{Account: accounts[0], Mint: accounts[1]}, args), nil

	case sdktoken.InstructionTransfer:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		args := &TransferArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &TransferKeys{
			Source:      accounts[0],
			Destination: accounts[1],
			Authority:   accounts[2],
		}, args), nil

	case sdktoken.InstructionTransferChecked:
		if err := decode.CheckAccounts(variant, len(accounts), 4); err != nil {
			return nil, err
		}
		args := &TransferCheckedArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Decimals, err = r.ReadU8(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &TransferCheckedKeys{
			Source:      accounts[0],
			Mint:        accounts[1],
			Destination: accounts[2],
			Authority:   accounts[3],
		}, args), nil

	case sdktoken.InstructionApprove:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		args := &ApproveArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &ApproveKeys{
			Source:   accounts[0],
			Delegate: accounts[1],
			Owner:    accounts[2],
		}, args), nil

	case sdktoken.InstructionMintTo:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		args := &MintToArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &MintToKeys{
			Mint:        accounts[0],
			Destination: accounts[1],
			Authority:   accounts[2],
		}, args), nil

	case sdktoken.InstructionMintToChecked:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		args := &MintToCheckedArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Decimals, err = r.ReadU8(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &MintToKeys{
			Mint:        accounts[0],
			Destination: accounts[1],
			Authority:   accounts[2],
		}, args), nil

	case sdktoken.InstructionBurn:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		args := &BurnArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &BurnKeys{
			Account:   accounts[0],
			Mint:      accounts[1],
			Authority: accounts[2],
		}, args), nil

	case sdktoken.InstructionBurnChecked:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		args := &BurnCheckedArgs{}
		var err error
		if args.Amount, err = r.ReadU64(); err != nil {
			return nil, err
		}
		if args.Decimals, err = r.ReadU8(); err != nil {
			return nil, err
		}
		return p.parsed(variant, &BurnKeys{
			Account:   accounts[0],
			Mint:      accounts[1],
			Authority: accounts[2],
		}, args), nil

	case sdktoken.InstructionCloseAccount:
		if err := decode.CheckAccounts(variant, len(accounts), 3); err != nil {
			return nil, err
		}
		return p.parsed(variant, &CloseAccountKeys{
			Account:     accounts[0],
			Destination: accounts[1],
			Owner:       accounts[2],
		}, nil), nil

	case sdktoken.InstructionSyncNative:
		if err := decode.CheckAccounts(variant, len(accounts), 1); err != nil {
			return nil, err
		}
		return p.parsed(variant, &SyncNativeKeys{Account: accounts[0]}, nil), nil
	}
	// variantNames 命中过，不会到达
	return nil, decode.ErrInvalidDiscriminator
}

func (p *Parser) parsed(variant string, keys, args any) *decode.ParsedInstruction {
	return &decode.ParsedInstruction{
		Program: p.program,
		Variant: variant,
		Keys:    keys,
		Args:    args,
	}
}
