package cpu

import (
	"errors"
	"fmt"
)

// CodeClass is the instruction class, the upper nibble of an opcode byte.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	OP_HALT   = CodeClass(0x0) // halt
	OP_NOP    = CodeClass(0x1) // nop
	OP_RRMOVQ = CodeClass(0x2) // rrmovq
	OP_IRMOVQ = CodeClass(0x3) // irmovq
	OP_RMMOVQ = CodeClass(0x4) // rmmovq
	OP_MRMOVQ = CodeClass(0x5) // mrmovq
	OP_OPQ    = CodeClass(0x6) // opq
	OP_JXX    = CodeClass(0x7) // jxx
	OP_CALL   = CodeClass(0x8) // call
	OP_RET    = CodeClass(0x9) // ret
	OP_PUSHQ  = CodeClass(0xa) // pushq
	OP_POPQ   = CodeClass(0xb) // popq
	OP_IOPQ   = CodeClass(0xc) // iopq
)

// CodeCond is the function code of the cmovXX and jXX classes.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_ALWAYS = CodeCond(0) // always
	COND_LE     = CodeCond(1) // le
	COND_L      = CodeCond(2) // l
	COND_E      = CodeCond(3) // e
	COND_NE     = CodeCond(4) // ne
	COND_GE     = CodeCond(5) // ge
	COND_G      = CodeCond(6) // g
)

// CodeAluOp is the function code of the opq and iopq classes.
type CodeAluOp int

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD = CodeAluOp(0) // add
	ALU_OP_SUB = CodeAluOp(1) // sub
	ALU_OP_AND = CodeAluOp(2) // and
	ALU_OP_XOR = CodeAluOp(3) // xor
)

// CodeReg is a register specifier nibble.
type CodeReg int

//go:generate go tool stringer -linecomment -type=CodeReg
const (
	REG_RAX  = CodeReg(0x0) // rax
	REG_RCX  = CodeReg(0x1) // rcx
	REG_RDX  = CodeReg(0x2) // rdx
	REG_RBX  = CodeReg(0x3) // rbx
	REG_RSP  = CodeReg(0x4) // rsp
	REG_RBP  = CodeReg(0x5) // rbp
	REG_RSI  = CodeReg(0x6) // rsi
	REG_RDI  = CodeReg(0x7) // rdi
	REG_R8   = CodeReg(0x8) // r8
	REG_R9   = CodeReg(0x9) // r9
	REG_R10  = CodeReg(0xa) // r10
	REG_R11  = CodeReg(0xb) // r11
	REG_R12  = CodeReg(0xc) // r12
	REG_R13  = CodeReg(0xd) // r13
	REG_R14  = CodeReg(0xe) // r14
	REG_NONE = CodeReg(0xf) // none
)

// codeLayout describes the encoding of an instruction class.
type codeLayout struct {
	fns   int  // Count of valid function codes.
	regs  bool // A register specifier byte follows the opcode.
	needA bool // rA must name a register.
	needB bool // rB must name a register.
	valC  bool // An 8 byte constant follows.
}

var _layout = [...]codeLayout{
	OP_HALT:   {fns: 1},
	OP_NOP:    {fns: 1},
	OP_RRMOVQ: {fns: 7, regs: true, needA: true, needB: true},
	OP_IRMOVQ: {fns: 1, regs: true, needB: true, valC: true},
	OP_RMMOVQ: {fns: 1, regs: true, needA: true, needB: true, valC: true},
	OP_MRMOVQ: {fns: 1, regs: true, needA: true, needB: true, valC: true},
	OP_OPQ:    {fns: 4, regs: true, needA: true, needB: true},
	OP_JXX:    {fns: 7, valC: true},
	OP_CALL:   {fns: 1, valC: true},
	OP_RET:    {fns: 1},
	OP_PUSHQ:  {fns: 1, regs: true, needA: true},
	OP_POPQ:   {fns: 1, regs: true, needA: true},
	OP_IOPQ:   {fns: 4, regs: true, needB: true, valC: true},
}

// Code is a single decoded instruction.
type Code struct {
	Class CodeClass
	Fn    int     // Function code, the lower nibble of the opcode byte.
	RA    CodeReg // Register specifiers, REG_NONE when absent.
	RB    CodeReg
	ValC  int64 // Immediate, displacement, or destination.
	Len   int64 // Encoded length in bytes.
}

// Opcode returns the encoded opcode byte.
func (code Code) Opcode() byte {
	return byte(code.Class<<4) | byte(code.Fn&0xf)
}

// Cond returns the function code as a condition.
func (code Code) Cond() CodeCond {
	return CodeCond(code.Fn)
}

// AluOp returns the function code as an ALU operation.
func (code Code) AluOp() CodeAluOp {
	return CodeAluOp(code.Fn)
}

// Decode reads and decodes the instruction at pc.
func Decode(mem *Memory, pc int64) (code Code, err error) {
	op, err := mem.Byte(pc)
	if err != nil {
		return
	}

	code = Code{
		Class: CodeClass(op >> 4),
		Fn:    int(op & 0xf),
		RA:    REG_NONE,
		RB:    REG_NONE,
		Len:   1,
	}

	if int(code.Class) >= len(_layout) {
		err = errors.Join(ErrInstruction, ErrOpcode(op), ErrOpcodeClass)
		return
	}

	layout := _layout[code.Class]
	if code.Fn >= layout.fns {
		err = errors.Join(ErrInstruction, ErrOpcode(op), ErrOpcodeFunction)
		return
	}

	if layout.regs {
		var regs byte
		regs, err = mem.Byte(pc + code.Len)
		if err != nil {
			return
		}
		code.RA = CodeReg(regs >> 4)
		code.RB = CodeReg(regs & 0xf)
		code.Len++

		if layout.needA && code.RA == REG_NONE {
			err = errors.Join(ErrInstruction, ErrOpcode(op), ErrOpcodeRegA)
			return
		}
		if layout.needB && code.RB == REG_NONE {
			err = errors.Join(ErrInstruction, ErrOpcode(op), ErrOpcodeRegB)
			return
		}
	}

	if layout.valC {
		code.ValC, err = mem.Quad(pc + code.Len)
		if err != nil {
			return
		}
		code.Len += 8
	}

	return
}

// Mnemonic returns the assembler mnemonic of the instruction.
func (code Code) Mnemonic() string {
	switch code.Class {
	case OP_RRMOVQ:
		if code.Cond() == COND_ALWAYS {
			return "rrmovq"
		}
		return "cmov" + code.Cond().String()
	case OP_JXX:
		if code.Cond() == COND_ALWAYS {
			return "jmp"
		}
		return "j" + code.Cond().String()
	case OP_OPQ:
		return code.AluOp().String() + "q"
	case OP_IOPQ:
		return "i" + code.AluOp().String() + "q"
	}

	return code.Class.String()
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	mnemonic := code.Mnemonic()

	switch code.Class {
	case OP_RRMOVQ, OP_OPQ:
		out = fmt.Sprintf("%v %%%v, %%%v", mnemonic, code.RA, code.RB)
	case OP_IRMOVQ, OP_IOPQ:
		out = fmt.Sprintf("%v $%#x, %%%v", mnemonic, code.ValC, code.RB)
	case OP_RMMOVQ:
		out = fmt.Sprintf("%v %%%v, %#x(%%%v)", mnemonic, code.RA, code.ValC, code.RB)
	case OP_MRMOVQ:
		out = fmt.Sprintf("%v %#x(%%%v), %%%v", mnemonic, code.ValC, code.RB, code.RA)
	case OP_JXX, OP_CALL:
		out = fmt.Sprintf("%v %#x", mnemonic, code.ValC)
	case OP_PUSHQ, OP_POPQ:
		out = fmt.Sprintf("%v %%%v", mnemonic, code.RA)
	default:
		out = mnemonic
	}

	return
}
