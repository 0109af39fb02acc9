package cpu

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrAddress     = errors.New(f("bad address"))
	ErrInstruction = errors.New(f("bad instruction"))

	// Decode errors
	ErrOpcodeClass    = errors.New(f("class"))
	ErrOpcodeFunction = errors.New(f("function"))
	ErrOpcodeRegA     = errors.New(f("register a"))
	ErrOpcodeRegB     = errors.New(f("register b"))

	// Load errors
	ErrHexAddress = errors.New(f("address is not hexadecimal"))
	ErrHexBytes   = errors.New(f("bytes are not hexadecimal"))
	ErrHexOdd     = errors.New(f("odd number of hex digits"))
	ErrStatus     = errors.New(f("status invalid"))
)

// ErrOpcode reports the instruction byte that failed to decode.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax locates a malformed line of program text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrStateMissing names a snapshot field that was absent.
type ErrStateMissing string

func (err ErrStateMissing) Error() string {
	return f("state field %v missing", string(err))
}

// ErrRegisterMissing names a register absent from a snapshot.
type ErrRegisterMissing string

func (err ErrRegisterMissing) Error() string {
	return f("register %v missing", string(err))
}

// ErrStateInvalid names a snapshot field that could not be decoded.
type ErrStateInvalid string

func (err ErrStateInvalid) Error() string {
	return f("state field %v invalid", string(err))
}
