package cpu

// Status is the machine status word.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STAT_AOK = Status(1) // AOK
	STAT_HLT = Status(2) // HLT
	STAT_ADR = Status(3) // ADR
	STAT_INS = Status(4) // INS
)

// Valid returns true if the status is a known status code.
func (stat Status) Valid() bool {
	return stat >= STAT_AOK && stat <= STAT_INS
}

// Running returns true if the machine will execute another instruction.
func (stat Status) Running() bool {
	return stat == STAT_AOK
}
