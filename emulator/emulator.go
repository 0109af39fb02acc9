// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"io"
	"iter"
	"log"
	"slices"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/internal"
)

const (
	HISTORY_LIMIT = 10000 // Default maximum number of states in a trace.
)

// Emulator state. CPU + trace bounds.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Limit int    // Maximum states in a trace. Zero or less is unbounded.
	Watch *Watch // If set, the trace stops at the first matching state.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:   cpu.NewCpu(),
		Limit: HISTORY_LIMIT,
	}

	return
}

// Reset the machine to its power-on state.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// LoadProgram resets the machine and loads assembled program text.
func (emu *Emulator) LoadProgram(in io.Reader) (err error) {
	emu.Reset()

	err = emu.Cpu.Load(in)
	if err != nil {
		err = &ErrLoad{Source: "program", Err: err}
		return
	}

	return
}

// LoadState replaces the machine with a JSON or YAML snapshot.
func (emu *Emulator) LoadState(data []byte) (err error) {
	defer func() {
		if err != nil {
			err = &ErrLoad{Source: "state", Err: err}
		}
	}()

	state, err := ParseState(data)
	if err != nil {
		return
	}

	err = emu.Cpu.SetState(state)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: resume at 0x%03x, %v", emu.Cpu.Pc, emu.Cpu.Stat)
	}

	return
}

// History returns the bounded sequence of states of the running machine.
// A watch expression error ends the sequence and is stored in *errp.
func (emu *Emulator) History(errp *error) iter.Seq[cpu.State] {
	emu.Cpu.Verbose = emu.Verbose

	seq := emu.Cpu.Run()

	if emu.Watch != nil {
		seq = internal.IterSeqUntil(seq, func(state cpu.State) bool {
			hit, err := emu.Watch.Match(emu.Cpu)
			if err != nil {
				*errp = &ErrRuntime{Pc: state.Pc, Err: err}
				return true
			}
			if hit && emu.Verbose {
				log.Printf("emulator: watch '%v' at 0x%03x", emu.Watch.Expr, state.Pc)
			}
			return hit
		})
	}

	return internal.IterSeqLimit(seq, emu.Limit)
}

// Trace runs the machine and collects its history.
func (emu *Emulator) Trace() (history []cpu.State, err error) {
	history = slices.Collect(emu.History(&err))

	if emu.Verbose {
		log.Printf("emulator: %v states, %v", len(history), emu.Cpu.Stat)
	}

	return
}
