package machine

import "testing"

func TestDecodeExactWordMatches(t *testing.T) {
	assert(t, Decode(0).Op == OpNop, "all-zero word should decode as NOP")
	assert(t, Decode(0xFFFFFFFFFFFFFFFF).Op == OpHlt, "all-one word should decode as HLT")
}

func TestDecodeJType(t *testing.T) {
	word := Word(0x02) << 56
	word |= 0x105
	inst := Decode(word)
	assert(t, inst.Op == OpJmpZ, "top byte 0x02 should decode as JMPZ")
	assert(t, inst.Target == 0x105, "target field should be the low 56 bits")
}

func TestDecodeLoadMem(t *testing.T) {
	word := Word(0x0A) << 56
	word |= Word(0x5) << 52 // RA
	word |= Word(0x6) << 48 // RB
	inst := Decode(word)
	assert(t, inst.Op == OpLoadMem, "top byte 0x0A should decode as LOAD MEM")
	assert(t, inst.RegX == 0x5, "RegX should be the dest register code")
	assert(t, inst.RegY == 0x6, "RegY should be the address register code")
}

func TestDecodeLoadInt(t *testing.T) {
	// LOAD INT RA, 5 -> 0x9500000000000005
	word := Word(0x9500000000000005)
	inst := Decode(word)
	assert(t, inst.Op == OpLoadInt, "top nibble 0x9 should decode as LOAD INT")
	assert(t, inst.RegX == 0x5, "RegX should be RA's code")
	assert(t, inst.Imm == 5, "immediate should be 5")
}

func TestDecodeLoadIntSignExtends(t *testing.T) {
	word := Word(0x95FFFFFFFFFFFFFF) // imm56 with sign bit set (all 56 low bits = 1)
	inst := Decode(word)
	assert(t, int64(inst.Imm) == -1, "a negative imm56 should sign-extend to -1, got %d", int64(inst.Imm))
}

func TestDecodeMov(t *testing.T) {
	word := Word(0xC000000000000056)
	inst := Decode(word)
	assert(t, inst.Op == OpMov, "top nibble 0xC should decode as MOV")
	assert(t, inst.RegX == 0x5, "RegX should be [7:4]")
	assert(t, inst.RegY == 0x6, "RegY should be [3:0]")
}

func TestDecodeRRRAdd(t *testing.T) {
	word := Word(0x0000000000001756)
	inst := Decode(word)
	assert(t, inst.Op == OpAdd, "subop 1 should decode as ADD")
	assert(t, inst.RegX == 0x7, "dest should be [11:8]")
	assert(t, inst.RegY == 0x5, "src1 should be [7:4]")
	assert(t, inst.RegZ == 0x6, "src2 should be [3:0]")
}

func TestDecodeComp(t *testing.T) {
	word := Word(0x0000000000002155)
	inst := Decode(word)
	assert(t, inst.Op == OpComp, "byte 0x21 at [15:8] should decode as COMP")
	assert(t, inst.RegX == 0x5, "RegX should be [7:4]")
	assert(t, inst.RegY == 0x5, "RegY should be [3:0]")
}

func TestDecodeUtilities(t *testing.T) {
	word := Word(0x0000000000004156)
	inst := Decode(word)
	assert(t, inst.Op == OpAbval, "byte 0x41 should decode as ABVAL")
	assert(t, inst.RegX == 0x5, "RegX should be [7:4]")
	assert(t, inst.RegY == 0x6, "RegY should be [3:0]")
}

func TestDecodeLogicalAnd(t *testing.T) {
	// nibble[19:16]=3, subop[15:12]=1 (AND), dest=7 src1=5 src2=6, marker[31:28]=0
	word := Word(0x3) << 16
	word |= Word(0x1) << 12
	word |= Word(0x7) << 8
	word |= Word(0x5) << 4
	word |= Word(0x6)
	inst := Decode(word)
	assert(t, inst.Op == OpAnd, "subop 1 in the logical block should decode as AND")
	assert(t, inst.RegX == 0x7, "dest should be [11:8]")
	assert(t, inst.RegY == 0x5, "src1 should be [7:4]")
	assert(t, inst.RegZ == 0x6, "src2 should be [3:0]")
}

func TestDecodeShiftLeft(t *testing.T) {
	// subop 5 (SHIFT L), marker[31:28]=0xF, dest=[7:4]=7, src=[3:0]=5
	word := Word(0x3) << 16
	word |= Word(0x5) << 12
	word |= Word(0xF) << 28
	word |= Word(0x7) << 4
	word |= Word(0x5)
	inst := Decode(word)
	assert(t, inst.Op == OpShiftL, "subop 5 with marker 0xF should decode as SHIFT L")
	assert(t, inst.RegX == 0x7, "dest should be [7:4]")
	assert(t, inst.RegY == 0x5, "src should be [3:0]")
}

func TestDecodeFloatArithAdd(t *testing.T) {
	// byte[23:16]=0x01, subop[15:12]=1 (add_float), dest=7 src1=5 src2=6
	word := Word(0x1) << 16
	word |= Word(0x1) << 12
	word |= Word(0x7) << 8
	word |= Word(0x5) << 4
	word |= Word(0x6)
	inst := Decode(word)
	assert(t, inst.Op == OpAddFloat, "subop 1 in the float block should decode as add_float")
}

func TestDecodeStack(t *testing.T) {
	push := Decode(Word(0x95))
	assert(t, push.Op == OpPush, "nibble 9 at [7:4] should decode as PUSH")
	assert(t, push.RegX == 0x5, "RegX should be [3:0]")

	pop := Decode(Word(0xA6))
	assert(t, pop.Op == OpPop, "nibble A at [7:4] should decode as POP")
	assert(t, pop.RegX == 0x6, "RegX should be [3:0]")
}

func TestDecodeIncDec(t *testing.T) {
	dec := Decode(Word(0x115))
	assert(t, dec.Op == OpDec, "[11:4]=0x11 should decode as DEC")
	assert(t, dec.RegX == 0x5, "RegX should be [3:0]")

	inc := Decode(Word(0x126))
	assert(t, inc.Op == OpInc, "[11:4]=0x12 should decode as INC")
	assert(t, inc.RegX == 0x6, "RegX should be [3:0]")
}

func TestDecodeUnknown(t *testing.T) {
	word := Word(0xDDDDDDDDDDDDDDDD)
	inst := Decode(word)
	assert(t, inst.Op == OpUnknown, "an unrecognised word should decode as OpUnknown")
	assert(t, inst.Raw == word, "OpUnknown should retain the raw word for diagnostics")
}
