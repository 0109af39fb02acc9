// Package cpu implements the Y86-64 processor model.
//
// The CPU consists of a program counter (PC), fifteen 64-bit signed
// general-purpose registers (rax-r14), the ZF/SF/OF condition codes, a
// status word, and a sparse byte-addressable memory. Each step fetches
// one instruction at the PC, decodes it into a Code, and executes it.
//
// Machine faults (a negative address, an unknown instruction) are not
// returned as errors from Step; they move the status word to a terminal
// value, which is carried in every State snapshot.
package cpu
