package machine

import "testing"

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestRegisterFileSpecialCodes(t *testing.T) {
	r := NewRegisterFile()
	r.PC = 10
	r.SP = 20
	r.BP = 30
	r.IR = 0xAA

	assert(t, r.ReadCode(uint8(codePC)) == 10, "PC code should read PC")
	assert(t, r.ReadCode(uint8(codeSP)) == 20, "SP code should read SP")
	assert(t, r.ReadCode(uint8(codeBP)) == 30, "BP code should read BP")
	assert(t, r.ReadCode(uint8(codeIR)) == 0xAA, "IR code should read IR")

	r.WriteCode(uint8(codePC), 99)
	assert(t, r.PC == 99, "write through PC code should mutate PC")
}

func TestRegisterFileGeneralCodes(t *testing.T) {
	r := NewRegisterFile()
	r.WriteCode(uint8(codeRA), 7)
	assert(t, r.General(RA) == 7, "write through RA code should mutate RA")
	assert(t, r.ReadCode(uint8(codeRA)) == 7, "read through RA code should see the write")

	r.SetGeneral(R5, 42)
	assert(t, r.ReadCode(uint8(codeR5)) == 42, "SetGeneral and ReadCode should agree")
}

func TestRegisterFileUnmappedCodes(t *testing.T) {
	r := NewRegisterFile()
	r.WriteCode(0x0, 123)
	r.WriteCode(0xF, 123)
	assert(t, r.ReadCode(0x0) == 0, "unmapped low code should read 0")
	assert(t, r.ReadCode(0xF) == 0, "unmapped high code should read 0")
}

func TestFlagsSetFromResult(t *testing.T) {
	var f Flags
	f.SetFlagsFromResult(0)
	assert(t, f.Z, "zero result should set Z")
	assert(t, !f.N, "zero result should not set N")

	f.SetFlagsFromResult(1 << 63)
	assert(t, !f.Z, "nonzero result should clear Z")
	assert(t, f.N, "result with bit 63 set should set N")
}
