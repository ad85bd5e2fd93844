package machine

import (
	"strconv"
	"strings"
	"testing"
)

func wordLine(w Word) string {
	s := strconv.FormatUint(w, 2)
	return strings.Repeat("0", 64-len(s)) + s
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	src := "# a comment\n\n" + wordLine(0xFFFFFFFFFFFFFFFF) + "\n"
	mem := NewMemory(16, 64)
	result, err := Load(mem, strings.NewReader(src), 0)
	assert(t, err == nil, "valid source should load without error: %v", err)
	assert(t, result.WordCount == 1, "comments and blank lines should not count as words")
	assert(t, mem.Read(0) == 0xFFFFFFFFFFFFFFFF, "the single word should land at the start address")
}

func TestLoadRejectsWrongLineLength(t *testing.T) {
	mem := NewMemory(16, 64)
	_, err := Load(mem, strings.NewReader("0101\n"), 0)
	assert(t, err != nil, "a line of the wrong length should fail to load")
	loadErr, ok := err.(*LoadError)
	assert(t, ok, "the error should be a *LoadError")
	assert(t, loadErr.Line == 1, "the error should name line 1, got %d", loadErr.Line)
}

func TestLoadRejectsNonBinaryCharacter(t *testing.T) {
	mem := NewMemory(16, 64)
	bad := strings.Repeat("0", 63) + "2"
	_, err := Load(mem, strings.NewReader(bad+"\n"), 0)
	assert(t, err != nil, "a non-binary character should fail to load")
}

func TestLoadRelocatesJumpTargets(t *testing.T) {
	// JMPZ with target 0x05 -> 0x0200000000000005
	src := wordLine(0x0200000000000005) + "\n"
	mem := NewMemory(1024, 64)
	_, err := Load(mem, strings.NewReader(src), 0x100)
	assert(t, err == nil, "valid source should load without error: %v", err)
	stored := mem.Read(0x100)
	target := stored & 0x00FFFFFFFFFFFFFF
	assert(t, target == 0x105, "the relocated target should be 0x105, got 0x%X", target)
	assert(t, stored>>56 == 0x02, "relocation must preserve the opcode byte")
}

func TestLoadEntryPointAndEndAddress(t *testing.T) {
	src := wordLine(0xFFFFFFFFFFFFFFFF) + "\n" + wordLine(0) + "\n"
	mem := NewMemory(1024, 64)
	result, err := Load(mem, strings.NewReader(src), 0x10)
	assert(t, err == nil, "valid source should load without error: %v", err)
	assert(t, result.EntryPoint == 0x10, "entry point should equal the start address")
	assert(t, result.EndAddress == 0x12, "end address should be start+word count")
}
