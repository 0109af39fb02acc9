package cpu

// REG_COUNT is the number of general purpose registers.
const REG_COUNT = 15

// Registers is the general purpose register bank, indexed by CodeReg.
type Registers [REG_COUNT]int64

// Get returns the value of a register.
func (r *Registers) Get(reg CodeReg) int64 {
	return r[reg]
}

// Set sets the value of a register.
func (r *Registers) Set(reg CodeReg, value int64) {
	r[reg] = value
}

// Snapshot returns all registers by name.
func (r *Registers) Snapshot() (snap map[string]int64) {
	snap = make(map[string]int64, REG_COUNT)
	for n, value := range r {
		snap[CodeReg(n).String()] = value
	}

	return
}

// Restore replaces all registers from a snapshot. Every register must
// be present; on error the bank is unchanged.
func (r *Registers) Restore(snap map[string]int64) (err error) {
	var bank Registers
	for n := range bank {
		name := CodeReg(n).String()
		value, ok := snap[name]
		if !ok {
			err = ErrRegisterMissing(name)
			return
		}
		bank[n] = value
	}

	*r = bank
	return
}
