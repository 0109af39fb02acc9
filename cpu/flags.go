package cpu

// Flags are the condition codes set by the ALU.
type Flags struct {
	ZF bool // Zero
	SF bool // Sign
	OF bool // Signed overflow
}

// Cond evaluates a condition against the flags.
func (cc Flags) Cond(cond CodeCond) (ok bool) {
	switch cond {
	case COND_ALWAYS:
		ok = true
	case COND_LE:
		ok = (cc.ZF != cc.OF) || cc.SF
	case COND_L:
		ok = cc.SF != cc.OF
	case COND_E:
		ok = cc.ZF
	case COND_NE:
		ok = !cc.ZF
	case COND_GE:
		ok = cc.SF == cc.OF
	case COND_G:
		ok = !((cc.ZF != cc.OF) || cc.SF)
	}

	return
}
