package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/emulator"
)

const countdown = `
0x000: 30f00300000000000000 | irmovq $3, %rax
0x00a: 30f30100000000000000 | irmovq $1, %rbx
0x014:                      | loop:
0x014: 6130                 | subq %rbx, %rax
0x016: 741400000000000000   | jne loop
0x01f: 00                   | halt
`

func setup(t *testing.T, settings map[string]any) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("format", "json")
	viper.Set("limit", emulator.HISTORY_LIMIT)
	for key, value := range settings {
		viper.Set(key, value)
	}
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	setup(t, nil)

	out := &bytes.Buffer{}
	require.NoError(t, run(strings.NewReader(countdown), out))

	var history []cpu.State
	require.NoError(t, json.Unmarshal(out.Bytes(), &history))
	assert.Len(history, 9)
	assert.Equal(cpu.STAT_HLT, history[8].Stat)
	assert.Equal(int64(0), history[8].Register["rax"])
}

func TestRun_Options(t *testing.T) {
	assert := assert.New(t)

	setup(t, map[string]any{"limit": 3})
	out := &bytes.Buffer{}
	require.NoError(t, run(strings.NewReader(countdown), out))

	var history []cpu.State
	require.NoError(t, json.Unmarshal(out.Bytes(), &history))
	assert.Len(history, 3)

	// Resume from the last state, stopping when the loop ends.
	state, err := json.Marshal(history[2])
	require.NoError(t, err)

	setup(t, map[string]any{"state": string(state), "until": "zf", "format": "yaml"})
	out.Reset()
	require.NoError(t, run(strings.NewReader("ignored"), out))
	assert.Contains(out.String(), "STAT: 1")
	assert.NotContains(out.String(), "STAT: 2")
}

func TestRun_Error(t *testing.T) {
	assert := assert.New(t)

	setup(t, map[string]any{"format": "xml"})
	assert.ErrorIs(run(strings.NewReader(countdown), &bytes.Buffer{}), emulator.ErrFormat)

	setup(t, map[string]any{"until": "pc =="})
	assert.ErrorIs(run(strings.NewReader(countdown), &bytes.Buffer{}), emulator.ErrWatch)

	setup(t, nil)
	assert.ErrorIs(run(strings.NewReader("0x000: 123|"), &bytes.Buffer{}), cpu.ErrHexOdd)

	setup(t, map[string]any{"state-file": t.TempDir() + "/missing.json"})
	assert.Error(run(strings.NewReader(countdown), &bytes.Buffer{}))
}

func TestFormatValue(t *testing.T) {
	assert := assert.New(t)

	value := formatValue(emulator.FORMAT_JSON)
	assert.Equal("json", value.String())
	assert.Equal("format", value.Type())

	assert.NoError(value.Set("yaml"))
	assert.Equal(formatValue(emulator.FORMAT_YAML), value)

	assert.ErrorIs(value.Set("toml"), emulator.ErrFormat)
	assert.Equal("yaml", value.String())
}
