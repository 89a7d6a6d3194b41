package decode

import "sol-decoder/internal/types"

// Status 表示一次（解码器 × 更新）尝试的终态。
type Status int

const (
	// StatusFiltered 表示预过滤未命中，解码器本体未被调用。正常信号，非错误。
	StatusFiltered Status = iota
	// StatusDecoded 表示预过滤命中且解码成功。
	StatusDecoded
	// StatusFailed 表示预过滤命中但识别或解码失败，Err 携带具体原因。
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFiltered:
		return "filtered"
	case StatusDecoded:
		return "decoded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InstructionOutcome 是指令调度的单次尝试结果。
type InstructionOutcome struct {
	Program     types.Pubkey       // 做出该尝试的解码器所属程序
	Status      Status
	Instruction *ParsedInstruction // StatusDecoded 时有效
	Err         error              // StatusFailed 时有效
	Update      *InstructionUpdate // 被解码的原始更新
}

// AccountOutcome 是账户调度的单次尝试结果。
type AccountOutcome struct {
	Program types.Pubkey
	Status  Status
	Account *ParsedAccount
	Err     error
	Update  *AccountUpdate
}

// Dispatcher 持有全部已注册解码器，将更新路由到预过滤命中的子集并聚合结果。
// 注册完成后只读，可被任意并发调用；多个解码器命中同一更新是合法情况
// （预过滤只看地址共现），因此总是尝试全部命中者而非首个成功即返回。
type Dispatcher struct {
	ixParsers  []InstructionParser
	accParsers []AccountParser
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// RegisterInstructionParser 注册指令解码器。结果按注册顺序稳定输出。
func (d *Dispatcher) RegisterInstructionParser(p InstructionParser) {
	d.ixParsers = append(d.ixParsers, p)
}

// RegisterAccountParser 注册账户解码器。
func (d *Dispatcher) RegisterAccountParser(p AccountParser) {
	d.accParsers = append(d.accParsers, p)
}

// DispatchInstruction 将单条指令更新依次送入每个注册解码器。
// 预过滤未命中的结果不出现在返回值中（Filtered 对消费方静默）；
// 某个解码器失败不影响其他解码器的尝试与成功。
func (d *Dispatcher) DispatchInstruction(ix *InstructionUpdate) []InstructionOutcome {
	var outcomes []InstructionOutcome
	for _, p := range d.ixParsers {
		if !p.Prefilter().MatchesProgram(ix.Program) {
			continue
		}
		parsed, err := p.ParseInstruction(ix)
		if err != nil {
			outcomes = append(outcomes, InstructionOutcome{
				Program: p.Program(),
				Status:  StatusFailed,
				Err:     err,
				Update:  ix,
			})
			continue
		}
		outcomes = append(outcomes, InstructionOutcome{
			Program:     p.Program(),
			Status:      StatusDecoded,
			Instruction: parsed,
			Update:      ix,
		})
	}
	return outcomes
}

// DispatchAccount 将单条账户快照依次送入每个注册解码器，规则与指令侧一致。
func (d *Dispatcher) DispatchAccount(acc *AccountUpdate) []AccountOutcome {
	var outcomes []AccountOutcome
	for _, p := range d.accParsers {
		if !p.Prefilter().MatchesOwner(acc.Owner) {
			continue
		}
		parsed, err := p.ParseAccount(acc)
		if err != nil {
			outcomes = append(outcomes, AccountOutcome{
				Program: p.Program(),
				Status:  StatusFailed,
				Err:     err,
				Update:  acc,
			})
			continue
		}
		outcomes = append(outcomes, AccountOutcome{
			Program: p.Program(),
			Status:  StatusDecoded,
			Account: parsed,
			Update:  acc,
		})
	}
	return outcomes
}

// DispatchForest 深度优先展开指令森林后逐条调度，返回全部非 Filtered 结果。
// 各条指令之间互不依赖，结果顺序为执行顺序 × 注册顺序。
func (d *Dispatcher) DispatchForest(roots []*InstructionUpdate) []InstructionOutcome {
	var outcomes []InstructionOutcome
	for _, ix := range FlattenForest(roots) {
		outcomes = append(outcomes, d.DispatchInstruction(ix)...)
	}
	return outcomes
}
