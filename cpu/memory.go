package cpu

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Memory is a sparse, byte addressable store. Unwritten bytes read as zero.
type Memory struct {
	data map[uint64]byte
}

// NewMemory creates an empty memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{
		data: map[uint64]byte{},
	}

	return
}

// Reset clears all of memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

func (mem *Memory) setByte(addr uint64, value byte) {
	if mem.data == nil {
		mem.data = map[uint64]byte{}
	}
	if value == 0 {
		delete(mem.data, addr)
	} else {
		mem.data[addr] = value
	}
}

func (mem *Memory) quad(addr uint64) int64 {
	var buff [8]byte
	for n := range buff {
		buff[n] = mem.data[addr+uint64(n)]
	}
	return int64(binary.LittleEndian.Uint64(buff[:]))
}

// Byte returns the byte at addr.
func (mem *Memory) Byte(addr int64) (value byte, err error) {
	if addr < 0 {
		err = ErrAddress
		return
	}

	value = mem.data[uint64(addr)]
	return
}

// SetByte sets the byte at addr.
func (mem *Memory) SetByte(addr int64, value byte) (err error) {
	if addr < 0 {
		err = ErrAddress
		return
	}

	mem.setByte(uint64(addr), value)
	return
}

// quadValid returns true if all 8 bytes of the quad word at addr are
// addressable.
func quadValid(addr int64) bool {
	return addr >= 0 && addr <= math.MaxInt64-7
}

// Quad returns the little-endian signed quad word at addr.
func (mem *Memory) Quad(addr int64) (value int64, err error) {
	if !quadValid(addr) {
		err = ErrAddress
		return
	}

	value = mem.quad(uint64(addr))
	return
}

// SetQuad stores value as a little-endian quad word at addr.
func (mem *Memory) SetQuad(addr int64, value int64) (err error) {
	if !quadValid(addr) {
		err = ErrAddress
		return
	}

	var buff [8]byte
	binary.LittleEndian.PutUint64(buff[:], uint64(value))
	for n, b := range buff {
		mem.setByte(uint64(addr)+uint64(n), b)
	}

	return
}

// Snapshot returns every non-zero, quad aligned quad word in memory.
func (mem *Memory) Snapshot() (snap map[int64]int64) {
	snap = map[int64]int64{}

	for addr := range mem.data {
		base := addr &^ 7
		if _, ok := snap[int64(base)]; ok {
			continue
		}
		if word := mem.quad(base); word != 0 {
			snap[int64(base)] = word
		}
	}

	return
}

// Restore writes each address to quad word pair of a snapshot.
func (mem *Memory) Restore(snap map[int64]int64) (err error) {
	for addr, word := range snap {
		err = mem.SetQuad(addr, word)
		if err != nil {
			return
		}
	}

	return
}

// Load fills memory from assembled program text.
//
// Each line has the form 'ADDR:HEXBYTES|comment'. The hexadecimal
// HEXBYTES are stored one byte per digit pair starting at the
// hexadecimal ADDR. Lines without a single ':' before the comment are
// skipped.
func (mem *Memory) Load(in io.Reader) (err error) {
	scanner := bufio.NewScanner(in)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		text, _, _ := strings.Cut(line, "|")
		fields := strings.Split(text, ":")
		if len(fields) != 2 {
			continue
		}

		addr_text := strings.TrimSpace(fields[0])
		addr_text = strings.TrimPrefix(addr_text, "0x")
		addr_text = strings.TrimPrefix(addr_text, "0X")
		bincode := strings.TrimSpace(fields[1])

		var addr uint64
		addr, err = strconv.ParseUint(addr_text, 16, 63)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: errors.Join(ErrHexAddress, err)}
			return
		}

		if len(bincode)%2 != 0 {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrHexOdd}
			return
		}

		var data []byte
		data, err = hex.DecodeString(bincode)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: errors.Join(ErrHexBytes, err)}
			return
		}

		if addr+uint64(len(data)) > math.MaxInt64 {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrAddress}
			return
		}

		for n, b := range data {
			mem.setByte(addr+uint64(n), b)
		}
	}

	err = scanner.Err()
	return
}
