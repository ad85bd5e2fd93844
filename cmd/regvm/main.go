// Command regvm loads and executes a textual regvm program file against
// the register-machine CPU emulator.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"regvm/internal/config"
	"regvm/internal/format"
	"regvm/internal/logging"
	"regvm/machine"
)

var (
	configPath   string
	ramCapacity  int
	wordBits     int
	maxCycles    uint64
	trace        bool
	numberFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "regvm",
		Short: "A software emulator for a 64-bit register-machine CPU",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config.toml (defaults to the platform config dir)")
	rootCmd.PersistentFlags().IntVar(&ramCapacity, "ram-capacity", 0, "RAM capacity in words (0 = use config/default)")
	rootCmd.PersistentFlags().IntVar(&wordBits, "word-bits", 0, "RAM word width in bits: 8/16/32/64 (0 = use config/default)")
	rootCmd.PersistentFlags().Uint64Var(&maxCycles, "max-cycles", 0, "Abort after this many cycles without a halt (0 = use config/unlimited)")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Enable debug-level tracing")
	rootCmd.PersistentFlags().StringVar(&numberFormat, "number-format", "", "Register dump format: hex or dec (default from config)")

	runCmd := &cobra.Command{
		Use:   "run <file> [base_address]",
		Short: "Load a program and run it to completion",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runProgram,
	}
	stepCmd := &cobra.Command{
		Use:   "step <file> [base_address]",
		Short: "Load a program and single-step it, printing a register dump after every instruction",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  stepProgram,
	}
	dumpConfigCmd := &cobra.Command{
		Use:   "dump-config",
		Short: "Print the effective configuration as TOML",
		RunE:  dumpConfig,
	}

	rootCmd.AddCommand(runCmd, stepCmd, dumpConfigCmd)
	rootCmd.RunE = runCmd.RunE // `regvm <file>` behaves like `regvm run <file>`
	rootCmd.Args = cobra.RangeArgs(1, 2)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func effectiveOptions(cfg *config.Config) []machine.Option {
	capacity := cfg.Machine.RAMCapacity
	if ramCapacity != 0 {
		capacity = ramCapacity
	}
	bits := cfg.Machine.WordBits
	if wordBits != 0 {
		bits = wordBits
	}
	cycles := cfg.Machine.MaxCycles
	if maxCycles != 0 {
		cycles = maxCycles
	}

	logPath := filepath.Join(config.GetLogPath(), "regvm.log")
	log := logging.New(trace || cfg.Trace.Enabled, logPath)
	opts := []machine.Option{
		machine.WithRAMCapacity(capacity),
		machine.WithWordBits(bits),
		machine.WithLogger(logging.MachineLogger{Entry: log}),
		machine.WithLogUnknownOp(cfg.Trace.LogUnknownOp),
	}
	if cycles > 0 {
		opts = append(opts, machine.WithMaxCycles(cycles))
	}
	return opts
}

func effectiveNumberFormat(cfg *config.Config) string {
	if numberFormat != "" {
		return numberFormat
	}
	return cfg.Dump.NumberFormat
}

func parseBaseAddress(args []string) (machine.Word, error) {
	if len(args) < 2 {
		return 0, nil
	}
	v, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_address %q: %w", args[1], err)
	}
	return machine.Word(v), nil
}

func loadMachine(path string, baseAddress machine.Word, cfg *config.Config) (*machine.Machine, error) {
	opts := append(effectiveOptions(cfg), machine.WithBaseAddress(baseAddress))
	m := machine.New(opts...)
	if _, err := machine.LoadFile(m.Mem, path, baseAddress); err != nil {
		return nil, err
	}
	return m, nil
}

func runProgram(cmd *cobra.Command, args []string) error {
	path := args[0]
	baseAddress, err := parseBaseAddress(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := loadMachine(path, baseAddress, cfg)
	if err != nil {
		return err
	}
	initialSP := m.Regs.SP

	if err := m.Run(); err != nil {
		return err
	}

	fmt.Print(format.Summary(path, baseAddress, initialSP, m.Cycles, m.Regs, effectiveNumberFormat(cfg)))
	return nil
}

func stepProgram(cmd *cobra.Command, args []string) error {
	path := args[0]
	baseAddress, err := parseBaseAddress(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := loadMachine(path, baseAddress, cfg)
	if err != nil {
		return err
	}

	nf := effectiveNumberFormat(cfg)
	for m.Running {
		if err := m.Step(); err != nil {
			return err
		}
		fmt.Printf("--- cycle %d ---\n", m.Cycles)
		fmt.Print(format.Registers(m.Regs, nf))
	}
	return nil
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return toml.NewEncoder(os.Stdout).Encode(cfg)
}
