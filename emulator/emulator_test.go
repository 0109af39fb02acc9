package emulator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/y86/cpu"
)

var sumProgram = []string{
	"                            | # Sum 4+3+2+1 with a call",
	"0x000:                      | \t.pos 0",
	"0x000: 30f40002000000000000 | \tirmovq stack, %rsp",
	"0x00a: 801400000000000000   | \tcall main",
	"0x013: 00                   | \thalt",
	"                            | ",
	"0x014:                      | main:",
	"0x014: 30f10400000000000000 | \tirmovq $4, %rcx",
	"0x01e: 6300                 | \txorq %rax, %rax",
	"0x020:                      | loop:",
	"0x020: 6010                 | \taddq %rcx, %rax",
	"0x022: c1f10100000000000000 | \tisubq $1, %rcx",
	"0x02c: 742000000000000000   | \tjne loop",
	"0x035: 40030001000000000000 | \trmmovq %rax, 0x100(%rbx)",
	"0x03f: 90                   | \tret",
}

// sumStates is the length of the full sumProgram trace.
const sumStates = 19

func loadSum(t *testing.T) (emu *Emulator) {
	emu = NewEmulator()
	err := emu.LoadProgram(strings.NewReader(strings.Join(sumProgram, "\n")))
	require.NoError(t, err)
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(HISTORY_LIMIT, emu.Limit)
	assert.Nil(emu.Watch)
}

func TestEmulator_Trace(t *testing.T) {
	assert := assert.New(t)

	emu := loadSum(t)
	history, err := emu.Trace()
	require.NoError(t, err)

	assert.Len(history, sumStates)
	last := history[len(history)-1]
	assert.Equal(cpu.STAT_HLT, last.Stat)
	assert.Equal(int64(0x13), last.Pc)
	assert.Equal(int64(10), last.Register["rax"])
	assert.Equal(int64(0x200), last.Register["rsp"])
	assert.Equal(int64(10), last.Memory[0x100])
	assert.Equal(int64(0x13), last.Memory[0x1f8])

	// Tracing a stopped machine yields nothing.
	history, err = emu.Trace()
	assert.NoError(err)
	assert.Empty(history)
}

func TestEmulator_TraceFault(t *testing.T) {
	assert := assert.New(t)

	program := append([]string{}, sumProgram...)
	program[13] = "0x035: 40f00001000000000000 | \trmmovq %none, 0x100(%rax)"

	emu := NewEmulator()
	require.NoError(t, emu.LoadProgram(strings.NewReader(strings.Join(program, "\n"))))

	history, err := emu.Trace()
	require.NoError(t, err)

	assert.Len(history, sumStates-2)
	last := history[len(history)-1]
	assert.Equal(cpu.STAT_INS, last.Stat)
	assert.Equal(int64(0x35), last.Pc)
}

func TestEmulator_Limit(t *testing.T) {
	assert := assert.New(t)

	emu := loadSum(t)
	emu.Limit = 5

	history, err := emu.Trace()
	require.NoError(t, err)
	assert.Len(history, 5)
	assert.Equal(cpu.STAT_AOK, emu.Cpu.Stat)

	// The next batch continues where the last stopped.
	emu.Limit = 0
	rest, err := emu.Trace()
	require.NoError(t, err)
	assert.Len(rest, sumStates-5)

	whole, err := loadSum(t).Trace()
	require.NoError(t, err)
	assert.Equal(whole, append(history, rest...))
}

func TestEmulator_LoadState(t *testing.T) {
	assert := assert.New(t)

	whole, err := loadSum(t).Trace()
	require.NoError(t, err)

	for _, n := range []int{0, 4, 11} {
		data, err := json.Marshal(whole[n])
		require.NoError(t, err)

		emu := NewEmulator()
		require.NoError(t, emu.LoadState(data))
		assert.Equal(whole[n], emu.Cpu.State())

		rest, err := emu.Trace()
		require.NoError(t, err)
		assert.Equal(whole[n+1:], append([]cpu.State{}, rest...), "resume at %v", n)
	}
}

func TestEmulator_LoadStateYaml(t *testing.T) {
	assert := assert.New(t)

	whole, err := loadSum(t).Trace()
	require.NoError(t, err)

	data, err := yaml.Marshal(whole[6])
	require.NoError(t, err)

	emu := NewEmulator()
	require.NoError(t, emu.LoadState(data))
	assert.Equal(whole[6], emu.Cpu.State())
}

func TestEmulator_LoadError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.LoadProgram(strings.NewReader("0x000: 0g | bad"))
	var load *ErrLoad
	if assert.True(errors.As(err, &load)) {
		assert.Equal("program", load.Source)
	}
	assert.ErrorIs(err, cpu.ErrHexBytes)

	table := [](struct {
		name string
		text string
		err  error
	}){
		{"empty", "", ErrStateEmpty},
		{"missing", `{"PC": 0}`, cpu.ErrStateMissing("REG")},
		{"register", `{"PC": 0, "REG": {}, "MEM": {}, "CC": {"ZF": 1, "SF": 0, "OF": 0}, "STAT": 1}`, cpu.ErrRegisterMissing("rax")},
	}

	for _, entry := range table {
		err := emu.LoadState([]byte(entry.text))
		if assert.True(errors.As(err, &load), entry.name) {
			assert.Equal("state", load.Source, entry.name)
		}
		assert.ErrorIs(err, entry.err, entry.name)
	}

	err = emu.LoadState([]byte("{"))
	assert.Error(err)
}

func TestEmulator_Watch(t *testing.T) {
	assert := assert.New(t)

	emu := loadSum(t)

	watch, err := NewWatch("pc == 0x2c and rcx == 2")
	require.NoError(t, err)
	emu.Watch = watch

	history, err := emu.Trace()
	require.NoError(t, err)

	last := history[len(history)-1]
	assert.Equal(int64(0x2c), last.Pc)
	assert.Equal(int64(2), last.Register["rcx"])
	assert.Equal(int64(4+3), last.Register["rax"])
	assert.Equal(cpu.STAT_AOK, last.Stat)

	table := [](struct {
		expr  string
		match bool
	}){
		{"stat == AOK", true},
		{"stat == HLT", false},
		{"zf and not sf", false},
		{"rsp == 0x1f8", true},
		{"mem(0x1f8) == 0x13", true},
		{"mem(0x100)", false},
	}

	for _, entry := range table {
		watch, err := NewWatch(entry.expr)
		require.NoError(t, err, entry.expr)
		match, err := watch.Match(emu.Cpu)
		assert.NoError(err, entry.expr)
		assert.Equal(entry.match, match, entry.expr)
	}
}

func TestEmulator_WatchError(t *testing.T) {
	assert := assert.New(t)

	for _, expr := range []string{"pc ==", "unknown > 3", "mem(-8)", "mem('a')"} {
		watch, err := NewWatch(expr)
		assert.Nil(watch, expr)
		assert.ErrorIs(err, ErrWatch, expr)
	}

	// Faults that only appear while running end the trace.
	emu := loadSum(t)
	emu.Watch = &Watch{Expr: "rcx > 0 and mem(rcx - 5) == 0"}

	history, err := emu.Trace()
	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(int64(0x1e), runtime.Pc)
	}
	assert.ErrorIs(err, cpu.ErrAddress)
	assert.Len(history, 3)
}

func TestWriteHistory(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	require.NoError(t, emu.LoadProgram(strings.NewReader("0x000: 30f00500000000000000|\n0x00a: 00|")))
	history, err := emu.Trace()
	require.NoError(t, err)

	buff := &bytes.Buffer{}
	require.NoError(t, WriteHistory(buff, FORMAT_JSON, history))

	var states []cpu.State
	require.NoError(t, json.Unmarshal(buff.Bytes(), &states))
	assert.Equal(history, states)

	buff.Reset()
	require.NoError(t, WriteHistory(buff, FORMAT_YAML, history))
	assert.Contains(buff.String(), "STAT: 2")

	var docs []map[string]any
	require.NoError(t, yaml.Unmarshal(buff.Bytes(), &docs))
	assert.Len(docs, 2)

	buff.Reset()
	require.NoError(t, WriteHistory(buff, FORMAT_JSON, nil))
	assert.Equal("[]\n", buff.String())

	assert.ErrorIs(WriteHistory(buff, Format(7), history), ErrFormat)
}

func TestParseFormat(t *testing.T) {
	assert := assert.New(t)

	format, err := ParseFormat("yaml")
	assert.NoError(err)
	assert.Equal(FORMAT_YAML, format)
	assert.Equal("yaml", format.String())

	format, err = ParseFormat("json")
	assert.NoError(err)
	assert.Equal(FORMAT_JSON, format)

	_, err = ParseFormat("xml")
	assert.ErrorIs(err, ErrFormat)
}
