package cpu

// Alu computes op with the destination as the second operand, and the
// condition codes of the result.
//
// Overflow for add is a and b sharing a sign that the result does not
// share with a; for sub, the result must differ in sign from b.
func Alu(op CodeAluOp, a, b int64) (t int64, cc Flags) {
	switch op {
	case ALU_OP_ADD:
		t = b + a
	case ALU_OP_SUB:
		t = b - a
	case ALU_OP_AND:
		t = b & a
	case ALU_OP_XOR:
		t = b ^ a
	}

	cc.ZF = t == 0
	cc.SF = t < 0

	switch op {
	case ALU_OP_ADD:
		cc.OF = (a < 0) == (b < 0) && (t < 0) != (a < 0)
	case ALU_OP_SUB:
		cc.OF = (a < 0) == (b < 0) && (t < 0) != (b < 0)
	}

	return
}
