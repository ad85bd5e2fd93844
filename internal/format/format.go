// Package format renders machine state for the regvm CLI: the run summary
// printed on exit and the register dump used by both the run and step
// subcommands.
package format

import (
	"fmt"
	"strings"

	"regvm/machine"
)

// generalNames lists the ten general-purpose registers in address-map
// order, for stable dump output.
var generalNames = []struct {
	name string
	reg  machine.RegName
}{
	{"RA", machine.RA}, {"RB", machine.RB}, {"RC", machine.RC}, {"RD", machine.RD}, {"RE", machine.RE},
	{"R1", machine.R1}, {"R2", machine.R2}, {"R3", machine.R3}, {"R4", machine.R4}, {"R5", machine.R5},
}

func formatWord(w machine.Word, numberFormat string) string {
	if numberFormat == "dec" {
		return fmt.Sprintf("%d", w)
	}
	return fmt.Sprintf("0x%016X", w)
}

// Registers renders the full register file: the six special registers,
// the ten general-purpose registers, and the flag set, one per line.
func Registers(regs *machine.RegisterFile, numberFormat string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PC  = %s\n", formatWord(regs.PC, numberFormat))
	fmt.Fprintf(&b, "SP  = %s\n", formatWord(regs.SP, numberFormat))
	fmt.Fprintf(&b, "BP  = %s\n", formatWord(regs.BP, numberFormat))
	fmt.Fprintf(&b, "IR  = %s\n", formatWord(regs.IR, numberFormat))
	fmt.Fprintf(&b, "MAR = %s\n", formatWord(regs.MAR, numberFormat))
	fmt.Fprintf(&b, "MDR = %s\n", formatWord(regs.MDR, numberFormat))

	for _, g := range generalNames {
		fmt.Fprintf(&b, "%-3s = %s\n", g.name, formatWord(regs.General(g.reg), numberFormat))
	}

	fmt.Fprintf(&b, "flags: Z=%s N=%s D=%s U=%s\n",
		boolBit(regs.Flags.Z), boolBit(regs.Flags.N), boolBit(regs.Flags.D), boolBit(regs.Flags.U))

	return b.String()
}

func boolBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Summary renders the post-run report printed after a program finishes:
// program path, entry point, initial stack pointer, cycle count at halt,
// and the register dump.
func Summary(path string, entryPoint, initialSP machine.Word, cycles uint64, regs *machine.RegisterFile, numberFormat string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program: %s\n", path)
	fmt.Fprintf(&b, "entry point: %s\n", formatWord(entryPoint, numberFormat))
	fmt.Fprintf(&b, "initial SP: %s\n", formatWord(initialSP, numberFormat))
	fmt.Fprintf(&b, "cycles: %d\n", cycles)
	b.WriteString(Registers(regs, numberFormat))
	return b.String()
}
