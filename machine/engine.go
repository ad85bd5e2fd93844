package machine

// Logger is the minimal sink the engine uses for non-fatal diagnostics,
// principally an unrecognised instruction word. Kept as a small interface
// rather than a direct logrus dependency so the core package stays
// dependency-free; internal/logging supplies the logrus-backed
// implementation used by cmd/regvm.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...interface{}) {}

// Option configures a Machine at construction time, grounded on
// syifan-m2sim2/emu/emulator.go's EmulatorOption functional-options
// pattern (WithStdout, WithMaxInstructions, ...).
type Option func(*options)

type options struct {
	ramCapacity  int
	wordBits     int
	baseAddress  Word
	maxCycles    uint64
	logger       Logger
	logUnknownOp bool
}

// WithRAMCapacity sets the number of addressable 64-bit words. Zero or
// negative falls back to DefaultCapacity.
func WithRAMCapacity(capacity int) Option {
	return func(o *options) { o.ramCapacity = capacity }
}

// WithWordBits sets the configured RAM word width in bits (8/16/32/64).
func WithWordBits(bits int) Option {
	return func(o *options) { o.wordBits = bits }
}

// WithBaseAddress sets the initial PC (and the loader's load origin, when
// driven through the same value).
func WithBaseAddress(addr Word) Option {
	return func(o *options) { o.baseAddress = addr }
}

// WithMaxCycles installs an ambient safety cap: Run returns
// ErrCycleBudgetExceeded if the program has not halted after this many
// cycles. Zero (the default) means unlimited — the cap is an external
// safety net the caller opts into, not part of the fetch-decode-execute
// contract itself.
func WithMaxCycles(n uint64) Option {
	return func(o *options) { o.maxCycles = n }
}

// WithLogger installs a diagnostic sink for unknown instructions.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLogUnknownOp toggles whether the execute loop's default case reports
// unrecognised instruction words through the Logger. Execution always
// advances past an unknown word regardless of this setting — it only gates
// the diagnostic, never the fetch-decode-execute contract itself.
func WithLogUnknownOp(enabled bool) Option {
	return func(o *options) { o.logUnknownOp = enabled }
}

// Machine is the CPU: a register file, RAM, and ALU wired together by a
// fetch-decode-execute loop. One Machine owns exactly one Regs/Mem/ALU
// triple — a single core, single thread of execution, no shared state
// between instances.
type Machine struct {
	Regs *RegisterFile
	Mem  *Memory
	ALU  *ALU

	Running bool
	Cycles  uint64

	maxCycles    uint64
	logger       Logger
	logUnknownOp bool
}

// New builds a Machine with the given options applied over the defaults
// (64K words of RAM, 64-bit word width, PC/entry at address 0, unknown
// instructions logged). SP is initialised to capacity-1 after options are
// applied, so a custom RAM capacity is reflected in the initial stack
// pointer.
func New(opts ...Option) *Machine {
	cfg := options{ramCapacity: DefaultCapacity, wordBits: 64, logUnknownOp: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}

	regs := NewRegisterFile()
	mem := NewMemory(cfg.ramCapacity, cfg.wordBits)
	regs.PC = cfg.baseAddress
	regs.SP = Word(mem.Capacity() - 1)

	return &Machine{
		Regs:         regs,
		Mem:          mem,
		ALU:          NewALU(regs),
		Running:      true,
		maxCycles:    cfg.maxCycles,
		logger:       cfg.logger,
		logUnknownOp: cfg.logUnknownOp,
	}
}

// busRead latches address into MAR, issues a bus read, latches the result
// into MDR, and returns it. The MAR/MDR latch sequence is observable in
// register dumps, so every memory access path reproduces it, not just
// fetch.
func (m *Machine) busRead(address Word) Word {
	m.Regs.MAR = address
	value := m.Mem.Request(0, address, BusRead)
	m.Regs.MDR = value
	return value
}

// busWrite latches address into MAR, data into MDR, and issues a bus
// write.
func (m *Machine) busWrite(address, data Word) {
	m.Regs.MAR = address
	m.Regs.MDR = data
	m.Mem.Request(data, address, BusWrite)
}

// fetch performs the fetch step: MAR<-PC, bus read into MDR, IR<-MDR,
// PC<-PC+1 (unmasked; Word wrapping at 2^64 already behaves as an implicit
// mask).
func (m *Machine) fetch() Word {
	word := m.busRead(m.Regs.PC)
	m.Regs.IR = word
	m.Regs.PC++
	return word
}

// Step executes exactly one fetch-decode-execute cycle. It is a no-op
// returning nil once the machine has halted. A non-nil error indicates a
// fatal condition (division by zero); the caller should stop calling
// Step.
func (m *Machine) Step() error {
	if !m.Running {
		return nil
	}
	word := m.fetch()
	inst := Decode(word)
	m.Cycles++
	return m.execute(inst)
}

// Run steps the machine until it halts or a fatal/cycle-budget error
// occurs.
func (m *Machine) Run() error {
	for m.Running {
		if m.maxCycles > 0 && m.Cycles >= m.maxCycles {
			return ErrCycleBudgetExceeded
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func jumpCondition(op Op, f Flags) bool {
	switch op {
	case OpJmp:
		return true
	case OpJmpZ:
		return f.Z
	case OpJmpNZ:
		return !f.Z
	case OpJmpN:
		return f.N
	case OpJmpNN:
		return !f.N
	case OpJmpOvr:
		return f.D
	case OpJmpUnd:
		return f.U
	case OpJmpNorZ:
		return !f.N && !f.Z
	case OpJmpNandZ:
		return !(f.N && f.Z)
	}
	return false
}

// execute dispatches a decoded Instruction by Op, one case per
// instruction semantics.
func (m *Machine) execute(inst Instruction) error {
	switch inst.Op {
	case OpNop:
		return nil
	case OpHlt:
		m.Running = false
		return nil

	case OpJmp, OpJmpZ, OpJmpNZ, OpJmpN, OpJmpNN, OpJmpOvr, OpJmpUnd, OpJmpNorZ, OpJmpNandZ:
		if jumpCondition(inst.Op, m.Regs.Flags) {
			m.Regs.PC = inst.Target
		}
		return nil

	case OpLoadMem:
		addr := m.Regs.ReadCode(inst.RegY)
		m.Regs.WriteCode(inst.RegX, m.busRead(addr))
		return nil
	case OpStor:
		addr := m.Regs.ReadCode(inst.RegY)
		m.busWrite(addr, m.Regs.ReadCode(inst.RegX))
		return nil
	case OpLoadInt, OpLoadFloat:
		m.Regs.WriteCode(inst.RegX, inst.Imm)
		return nil
	case OpStorI, OpStorFloat:
		addr := m.Regs.ReadCode(inst.RegX)
		m.busWrite(addr, inst.Imm)
		return nil
	case OpMov:
		m.Regs.WriteCode(inst.RegX, m.Regs.ReadCode(inst.RegY))
		return nil

	case OpAbval:
		m.Regs.WriteCode(inst.RegX, m.ALU.AbsValue(m.Regs.ReadCode(inst.RegY)))
		return nil
	case OpChngSig:
		m.Regs.WriteCode(inst.RegX, m.ALU.NegateSigned(m.Regs.ReadCode(inst.RegY)))
		return nil
	case OpChngInt:
		m.Regs.WriteCode(inst.RegX, m.ALU.IntegerPart(m.Regs.ReadCode(inst.RegY)))
		return nil
	case OpChngFloat:
		m.Regs.WriteCode(inst.RegX, m.ALU.ToFixed(m.Regs.ReadCode(inst.RegY)))
		return nil
	case OpComp:
		m.ALU.Comp(m.Regs.ReadCode(inst.RegX), m.Regs.ReadCode(inst.RegY))
		return nil

	case OpAnd:
		m.Regs.WriteCode(inst.RegX, m.ALU.And(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpOr:
		m.Regs.WriteCode(inst.RegX, m.ALU.Or(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpXor:
		m.Regs.WriteCode(inst.RegX, m.ALU.Xor(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpNot:
		m.Regs.WriteCode(inst.RegX, m.ALU.Not(m.Regs.ReadCode(inst.RegY)))
		return nil
	case OpShiftL:
		m.Regs.WriteCode(inst.RegX, m.ALU.ShiftLeft(m.Regs.ReadCode(inst.RegY), 1))
		return nil
	case OpShiftR:
		m.Regs.WriteCode(inst.RegX, m.ALU.ShiftRight(m.Regs.ReadCode(inst.RegY), 1))
		return nil

	case OpAddFloat:
		m.Regs.WriteCode(inst.RegX, m.ALU.AddFloat(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpSubFloat:
		m.Regs.WriteCode(inst.RegX, m.ALU.SubFloat(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpMulFloat:
		m.Regs.WriteCode(inst.RegX, m.ALU.MulFloat(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpDivFloat:
		result, err := m.ALU.DivFloat(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ))
		if err != nil {
			return err
		}
		m.Regs.WriteCode(inst.RegX, result)
		return nil

	case OpPush:
		m.Regs.SP--
		m.busWrite(m.Regs.SP, m.Regs.ReadCode(inst.RegX))
		return nil
	case OpPop:
		m.Regs.WriteCode(inst.RegX, m.busRead(m.Regs.SP))
		m.Regs.SP++
		return nil

	case OpDec:
		m.Regs.WriteCode(inst.RegX, m.ALU.Sub(m.Regs.ReadCode(inst.RegX), 1))
		return nil
	case OpInc:
		m.Regs.WriteCode(inst.RegX, m.ALU.Add(m.Regs.ReadCode(inst.RegX), 1))
		return nil

	case OpAdd:
		m.Regs.WriteCode(inst.RegX, m.ALU.Add(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpSub:
		m.Regs.WriteCode(inst.RegX, m.ALU.Sub(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpMul:
		m.Regs.WriteCode(inst.RegX, m.ALU.Mul(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ)))
		return nil
	case OpDiv:
		result, err := m.ALU.Div(m.Regs.ReadCode(inst.RegY), m.Regs.ReadCode(inst.RegZ))
		if err != nil {
			return err
		}
		m.Regs.WriteCode(inst.RegX, result)
		return nil

	default:
		if m.logUnknownOp {
			m.logger.Warnf("unknown instruction word 0x%016X at PC=0x%X, advancing", inst.Raw, m.Regs.PC-1)
		}
		return nil
	}
}
