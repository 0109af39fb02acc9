package cpu

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Condition is the serialized form of the condition codes.
type Condition struct {
	ZF int `json:"ZF" yaml:"ZF"`
	SF int `json:"SF" yaml:"SF"`
	OF int `json:"OF" yaml:"OF"`
}

// State is a complete snapshot of the machine.
//
// Memory holds only the non-zero, quad aligned quad words.
type State struct {
	Pc       int64            `json:"PC" yaml:"PC"`
	Register map[string]int64 `json:"REG" yaml:"REG"`
	Memory   map[int64]int64  `json:"MEM" yaml:"MEM"`
	Cond     Condition        `json:"CC" yaml:"CC"`
	Stat     Status           `json:"STAT" yaml:"STAT"`
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// Condition returns the serialized form of the flags.
func (cc Flags) Condition() Condition {
	return Condition{
		ZF: boolInt(cc.ZF),
		SF: boolInt(cc.SF),
		OF: boolInt(cc.OF),
	}
}

// Flags returns the condition codes of the serialized form.
func (cond Condition) Flags() Flags {
	return Flags{
		ZF: cond.ZF != 0,
		SF: cond.SF != 0,
		OF: cond.OF != 0,
	}
}

// State returns a snapshot of the machine.
func (cpu *Cpu) State() State {
	return State{
		Pc:       cpu.Pc,
		Register: cpu.Register.Snapshot(),
		Memory:   cpu.Memory.Snapshot(),
		Cond:     cpu.Flags.Condition(),
		Stat:     cpu.Stat,
	}
}

// SetState replaces the whole machine with a snapshot. On error the
// machine is unchanged.
func (cpu *Cpu) SetState(state State) (err error) {
	if !state.Stat.Valid() {
		err = errors.Join(ErrStateInvalid("STAT"), ErrStatus)
		return
	}

	var reg Registers
	err = reg.Restore(state.Register)
	if err != nil {
		return
	}

	mem := NewMemory()
	err = mem.Restore(state.Memory)
	if err != nil {
		return
	}

	cpu.Pc = state.Pc
	cpu.Register = reg
	cpu.Memory = mem
	cpu.Flags = state.Cond.Flags()
	cpu.Stat = state.Stat

	return
}

// parseWord parses a decimal integer as a 64-bit two's-complement word.
// Values up to 2^64-1 wrap into the signed range.
func parseWord(text string) (value int64, err error) {
	value, err = strconv.ParseInt(text, 10, 64)
	if err == nil {
		return
	}

	unsigned, uerr := strconv.ParseUint(text, 10, 64)
	if uerr != nil {
		return
	}

	value = int64(unsigned)
	err = nil
	return
}

type stateCondition struct {
	ZF *int `json:"ZF"`
	SF *int `json:"SF"`
	OF *int `json:"OF"`
}

type stateWire struct {
	Pc       *json.Number           `json:"PC"`
	Register map[string]json.Number `json:"REG"`
	Memory   map[string]json.Number `json:"MEM"`
	Cond     *stateCondition        `json:"CC"`
	Stat     *int                   `json:"STAT"`
}

// UnmarshalJSON decodes a snapshot, requiring every field to be present.
func (state *State) UnmarshalJSON(data []byte) (err error) {
	var wire stateWire
	err = json.Unmarshal(data, &wire)
	if err != nil {
		return
	}

	switch {
	case wire.Pc == nil:
		err = ErrStateMissing("PC")
	case wire.Register == nil:
		err = ErrStateMissing("REG")
	case wire.Memory == nil:
		err = ErrStateMissing("MEM")
	case wire.Cond == nil:
		err = ErrStateMissing("CC")
	case wire.Cond.ZF == nil:
		err = ErrStateMissing("CC.ZF")
	case wire.Cond.SF == nil:
		err = ErrStateMissing("CC.SF")
	case wire.Cond.OF == nil:
		err = ErrStateMissing("CC.OF")
	case wire.Stat == nil:
		err = ErrStateMissing("STAT")
	}
	if err != nil {
		return
	}

	var out State

	out.Pc, err = parseWord(wire.Pc.String())
	if err != nil {
		err = errors.Join(ErrStateInvalid("PC"), err)
		return
	}

	out.Register = make(map[string]int64, len(wire.Register))
	for name, number := range wire.Register {
		out.Register[name], err = parseWord(number.String())
		if err != nil {
			err = errors.Join(ErrStateInvalid("REG."+name), err)
			return
		}
	}
	for n := range REG_COUNT {
		name := CodeReg(n).String()
		if _, ok := out.Register[name]; !ok {
			err = ErrRegisterMissing(name)
			return
		}
	}

	out.Memory = make(map[int64]int64, len(wire.Memory))
	for key, number := range wire.Memory {
		var addr int64
		addr, err = strconv.ParseInt(key, 10, 64)
		if err == nil && addr < 0 {
			err = ErrAddress
		}
		if err != nil {
			err = errors.Join(ErrStateInvalid("MEM."+key), err)
			return
		}
		out.Memory[addr], err = parseWord(number.String())
		if err != nil {
			err = errors.Join(ErrStateInvalid("MEM."+key), err)
			return
		}
	}

	out.Cond = Condition{ZF: *wire.Cond.ZF, SF: *wire.Cond.SF, OF: *wire.Cond.OF}

	out.Stat = Status(*wire.Stat)
	if !out.Stat.Valid() {
		err = errors.Join(ErrStateInvalid("STAT"), ErrStatus)
		return
	}

	*state = out
	return
}
