package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
)

// Cpu is the simulation context of a Y86-64 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       int64     // Address of the next instruction.
	Register Registers // Register bank.
	Memory   *Memory   // Main memory.
	Flags    Flags     // Condition codes.
	Stat     Status    // Status word.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(),
	}
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Sets ZF, clears SF and OF.
// - Sets the PC to zero and the status to AOK.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	clear(cpu.Register[:])
	cpu.Memory.Reset()
	cpu.Flags = Flags{ZF: true}
	cpu.Stat = STAT_AOK
}

// Load fills memory from assembled program text.
func (cpu *Cpu) Load(in io.Reader) (err error) {
	err = cpu.Memory.Load(in)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %v quad words", len(cpu.Memory.Snapshot()))
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %016x\n", "pc", uint64(cpu.Pc))
	text += fmt.Sprintf("% 5s: %v\n", "stat", cpu.Stat)
	text += fmt.Sprintf("% 5s: ZF=%v SF=%v OF=%v\n", "cc", cpu.Flags.ZF, cpu.Flags.SF, cpu.Flags.OF)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X_%04X_%04X_%04X\n", CodeReg(n),
			uint16(val>>48), uint16(val>>32), uint16(val>>16), uint16(val))
	}

	return
}

// Step executes a single instruction, and returns the resulting status.
// A machine that is not running is left unchanged.
func (cpu *Cpu) Step() (stat Status) {
	if !cpu.Stat.Running() {
		return cpu.Stat
	}

	code, err := Decode(cpu.Memory, cpu.Pc)
	if err == nil {
		if cpu.Verbose {
			log.Printf("%03x: %v", cpu.Pc, code)
		}
		err = cpu.Execute(code)
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrAddress):
		cpu.Stat = STAT_ADR
	default:
		cpu.Stat = STAT_INS
	}

	if err != nil && cpu.Verbose {
		log.Printf("cpu: %03x: %v", cpu.Pc, err)
	}

	return cpu.Stat
}

// Execute executes a single decoded instruction.
//
// On a fault the PC is not advanced, but any register or memory update
// made before the fault remains.
func (cpu *Cpu) Execute(code Code) (err error) {
	reg := &cpu.Register
	mem := cpu.Memory

	next_pc := cpu.Pc + code.Len

	switch code.Class {
	case OP_HALT:
		cpu.Stat = STAT_HLT
		return
	case OP_NOP:
		// pass
	case OP_RRMOVQ:
		if cpu.Flags.Cond(code.Cond()) {
			reg.Set(code.RB, reg.Get(code.RA))
		}
	case OP_IRMOVQ:
		reg.Set(code.RB, code.ValC)
	case OP_RMMOVQ:
		err = mem.SetQuad(reg.Get(code.RB)+code.ValC, reg.Get(code.RA))
	case OP_MRMOVQ:
		var value int64
		value, err = mem.Quad(reg.Get(code.RB) + code.ValC)
		if err != nil {
			return
		}
		reg.Set(code.RA, value)
	case OP_OPQ:
		var value int64
		value, cpu.Flags = Alu(code.AluOp(), reg.Get(code.RA), reg.Get(code.RB))
		reg.Set(code.RB, value)
	case OP_JXX:
		if cpu.Flags.Cond(code.Cond()) {
			next_pc = code.ValC
		}
	case OP_CALL:
		sp := reg.Get(REG_RSP) - 8
		err = mem.SetQuad(sp, next_pc)
		if err != nil {
			return
		}
		reg.Set(REG_RSP, sp)
		next_pc = code.ValC
	case OP_RET:
		sp := reg.Get(REG_RSP)
		next_pc, err = mem.Quad(sp)
		if err != nil {
			return
		}
		reg.Set(REG_RSP, sp+8)
	case OP_PUSHQ:
		value := reg.Get(code.RA)
		sp := reg.Get(REG_RSP) - 8
		reg.Set(REG_RSP, sp)
		err = mem.SetQuad(sp, value)
	case OP_POPQ:
		sp := reg.Get(REG_RSP)
		var value int64
		value, err = mem.Quad(sp)
		if err != nil {
			return
		}
		reg.Set(REG_RSP, sp+8)
		reg.Set(code.RA, value)
	case OP_IOPQ:
		var value int64
		value, cpu.Flags = Alu(code.AluOp(), code.ValC, reg.Get(code.RB))
		reg.Set(code.RB, value)
	default:
		err = errors.Join(ErrInstruction, ErrOpcode(code.Opcode()), ErrOpcodeClass)
		return
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc

	return
}

// Run returns the sequence of machine states, one per executed
// instruction. The sequence ends after the state in which the machine
// stopped running; it is otherwise unbounded.
func (cpu *Cpu) Run() iter.Seq[State] {
	return func(yield func(state State) bool) {
		for cpu.Stat.Running() {
			cpu.Step()
			if !yield(cpu.State()) {
				return
			}
		}
	}
}
