package machine

import "math/big"

// ALU performs the pure arithmetic/logic/shift operations over two 64-bit
// words, writing flag side effects through a back-reference to the
// register file. See DESIGN.md for why a back-reference was chosen over
// returning a flags delta.
type ALU struct {
	regs *RegisterFile
}

// NewALU creates an ALU connected to the given register file.
func NewALU(regs *RegisterFile) *ALU {
	return &ALU{regs: regs}
}

const (
	minInt32 = -1 << 31
	maxInt32 = (1 << 31) - 1
)

var (
	two64       = new(big.Int).Lsh(big.NewInt(1), 64)
	minInt64Big = big.NewInt(-1 << 63)
	maxInt64Big = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 63), big.NewInt(1))
)

// maskToWord reduces an arbitrary-precision signed big.Int to its two's
// complement representation in [0, 2^64), i.e. the "mask to 64 bits" step
// every integer ALU op performs after computing in infinite precision.
func maskToWord(v *big.Int) Word {
	m := new(big.Int).Mod(v, two64)
	return m.Uint64()
}

func fitsInt64(v *big.Int) bool {
	return v.Cmp(minInt64Big) >= 0 && v.Cmp(maxInt64Big) <= 0
}

// Add computes a+b (signed), masks to 64 bits, and updates Z/N/D/U.
func (u *ALU) Add(a, b Word) Word {
	result := a + b
	signA, signB, signR := a>>63, b>>63, result>>63
	d := signA == signB && signR != signA
	u.applyIntegerFlags(result, d)
	return result
}

// Sub computes a-b (signed), masks to 64 bits, and updates Z/N/D/U.
// Overflow uses the standard two's-complement subtraction rule (operand
// signs differ, result sign differs from the minuend's) rather than the
// addition rule — see DESIGN.md for why.
func (u *ALU) Sub(a, b Word) Word {
	result := a - b
	d := subOverflow(a, b, result)
	u.applyIntegerFlags(result, d)
	return result
}

func subOverflow(a, b, result Word) bool {
	signA, signB, signR := a>>63, b>>63, result>>63
	return signA != signB && signR != signA
}

// Comp computes a-b, updates flags exactly as Sub would, and discards the
// result.
func (u *ALU) Comp(a, b Word) {
	result := a - b
	d := subOverflow(a, b, result)
	u.applyIntegerFlags(result, d)
}

// Mul computes a*b in infinite precision (math/big, since the product of
// two 64-bit signed values can exceed the 64-bit range before masking),
// masks to 64 bits, and updates Z/N/D/U.
func (u *ALU) Mul(a, b Word) Word {
	full := new(big.Int).Mul(signed(a), signed(b))
	d := !fitsInt64(full)
	result := maskToWord(full)
	u.applyIntegerFlags(result, d)
	return result
}

// Div performs signed floored integer division: the quotient rounds toward
// negative infinity rather than toward zero, so a negative divisor flips
// the rounding direction relative to Go's native `/` operator. Division by
// zero returns ErrDivisionByZero and leaves flags untouched.
func (u *ALU) Div(a, b Word) (Word, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	ba, bb := signed(a), signed(b)
	q, r := new(big.Int).QuoRem(ba, bb, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (bb.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	d := !fitsInt64(q)
	result := maskToWord(q)
	u.applyIntegerFlags(result, d)
	return result, nil
}

// signed reinterprets a stored word as a signed 64-bit integer, widened to
// a big.Int so downstream arithmetic can exceed the 64-bit range before the
// final mask.
func signed(w Word) *big.Int {
	return big.NewInt(int64(w))
}

func (u *ALU) applyIntegerFlags(result Word, overflow bool) {
	u.regs.Flags.SetFlagsFromResult(result)
	u.regs.Flags.D = overflow
	u.regs.Flags.U = false
}

// AddFloat adds two Q32.32 fixed-point words. The fractional and integer
// parts add directly on the raw 64-bit pattern; only the post-hoc range
// check differs from a plain integer add.
func (u *ALU) AddFloat(a, b Word) Word {
	result := a + b
	u.applyFixedFlags(result)
	return result
}

// SubFloat subtracts two Q32.32 fixed-point words.
func (u *ALU) SubFloat(a, b Word) Word {
	result := a - b
	u.applyFixedFlags(result)
	return result
}

// MulFloat multiplies two Q32.32 fixed-point words: (a*b)>>32 in infinite
// precision, then masked to 64 bits.
func (u *ALU) MulFloat(a, b Word) Word {
	full := new(big.Int).Mul(signed(a), signed(b))
	full.Rsh(full, 32)
	result := maskToWord(full)
	u.applyFixedFlags(result)
	return result
}

// DivFloat divides two Q32.32 fixed-point words: (a<<32)/b in infinite
// precision (truncating), then masked to 64 bits. Division by zero returns
// ErrDivisionByZero and leaves flags untouched.
func (u *ALU) DivFloat(a, b Word) (Word, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	wide := new(big.Int).Lsh(signed(a), 32)
	q := new(big.Int).Quo(wide, signed(b))
	result := maskToWord(q)
	u.applyFixedFlags(result)
	return result, nil
}

// applyFixedFlags updates Z/N/D/U from a masked Q32.32 result. D is set by
// reinterpreting the masked result's own upper 32 bits as a signed 32-bit
// integer and checking it against the int32 range — by construction that
// reinterpretation is always in range, so D can never actually fire. All
// four fixed-point ops share this reading rather than checking a wider
// pre-mask intermediate, matching the masked-result rule exactly.
func (u *ALU) applyFixedFlags(masked Word) {
	intPart := int32(masked >> 32)
	u.regs.Flags.SetFlagsFromResult(masked)
	u.regs.Flags.D = int64(intPart) < int64(minInt32) || int64(intPart) > int64(maxInt32)
	u.regs.Flags.U = intPart == 0 && masked != 0
}

// And computes the bitwise AND of a and b.
func (u *ALU) And(a, b Word) Word {
	result := a & b
	u.applyLogicalFlags(result)
	return result
}

// Or computes the bitwise OR of a and b.
func (u *ALU) Or(a, b Word) Word {
	result := a | b
	u.applyLogicalFlags(result)
	return result
}

// Xor computes the bitwise XOR of a and b.
func (u *ALU) Xor(a, b Word) Word {
	result := a ^ b
	u.applyLogicalFlags(result)
	return result
}

// Not computes the bitwise complement of a.
func (u *ALU) Not(a Word) Word {
	result := ^a
	u.applyLogicalFlags(result)
	return result
}

func (u *ALU) applyLogicalFlags(result Word) {
	u.regs.Flags.SetFlagsFromResult(result)
	u.regs.Flags.D = false
	u.regs.Flags.U = false
}

// ShiftLeft performs a logical left shift of a by n, masked to 64 bits. D
// is set iff the sign bit changed between a and the result.
func (u *ALU) ShiftLeft(a Word, n uint) Word {
	var result Word
	if n < 64 {
		result = a << n
	}
	u.regs.Flags.SetFlagsFromResult(result)
	u.regs.Flags.D = (a >> 63) != (result >> 63)
	u.regs.Flags.U = false
	return result
}

// ShiftRight performs an arithmetic (sign-extending) right shift of a,
// reinterpreted as signed 64-bit, by n.
func (u *ALU) ShiftRight(a Word, n uint) Word {
	var result Word
	if n >= 64 {
		if int64(a) < 0 {
			result = ^Word(0)
		}
	} else {
		result = Word(int64(a) >> n)
	}
	u.regs.Flags.SetFlagsFromResult(result)
	u.regs.Flags.D = false
	u.regs.Flags.U = false
	return result
}

// AbsValue returns the absolute value of a reinterpreted as signed 64-bit,
// updating Z/N only — unlike the arithmetic ops, it never touches D/U.
func (u *ALU) AbsValue(a Word) Word {
	v := int64(a)
	if v < 0 {
		v = -v
	}
	result := Word(v)
	u.regs.Flags.SetFlagsFromResult(result)
	return result
}

// NegateSigned two's-complement negates a ((^a)+1). Applied to the minimum
// signed value this returns the minimum signed value again, which is
// expected two's-complement behavior, not a bug.
func (u *ALU) NegateSigned(a Word) Word {
	result := (^a) + 1
	u.regs.Flags.SetFlagsFromResult(result)
	return result
}

// IntegerPart takes the upper 32 bits of a Q32.32 word and sign-extends to
// 64 bits, yielding the plain signed integer part (CHNG INT).
func (u *ALU) IntegerPart(a Word) Word {
	result := Word(int64(int32(a >> 32)))
	u.regs.Flags.SetFlagsFromResult(result)
	return result
}

// ToFixed widens a plain integer into the integer part of a Q32.32 word by
// shifting left 32 bits (CHNG FLOAT).
func (u *ALU) ToFixed(a Word) Word {
	result := a << 32
	u.regs.Flags.SetFlagsFromResult(result)
	return result
}
