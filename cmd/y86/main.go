// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ezrec/y86/emulator"
)

// formatValue adapts emulator.Format to a command line flag.
type formatValue emulator.Format

var _ pflag.Value = (*formatValue)(nil)

func (value *formatValue) String() string {
	return emulator.Format(*value).String()
}

func (value *formatValue) Set(name string) (err error) {
	format, err := emulator.ParseFormat(name)
	if err != nil {
		return
	}
	*value = formatValue(format)
	return
}

func (value *formatValue) Type() string {
	return "format"
}

var rootCmd = &cobra.Command{
	Use:   "y86",
	Short: "Y86-64 instruction set simulator",
	Long: `y86 reads an assembled .yo program from stdin, or resumes from a
machine snapshot, and writes the state after every instruction to stdout
as a single JSON (or YAML) array.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return configure(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	format := formatValue(emulator.FORMAT_JSON)

	flags := rootCmd.Flags()
	flags.String("state", "", "JSON or YAML snapshot to resume from, instead of a program on stdin")
	flags.String("state-file", "", "File holding a snapshot to resume from")
	flags.Int("limit", emulator.HISTORY_LIMIT, "Maximum number of states to record (0 for no limit)")
	flags.Var(&format, "format", "History output format (json or yaml)")
	flags.String("until", "", "Stop after the first state matching this expression")
	flags.BoolP("verbose", "v", false, "Verbose mode")
	flags.String("log-file", "", "Write log output to this file, rotated by size")
	flags.String("config", "", "Configuration file (YAML, JSON or TOML)")
}

// configure binds flags, the configuration file and Y86_* environment
// variables into viper, then directs the log.
func configure(flags *pflag.FlagSet) (err error) {
	err = viper.BindPFlags(flags)
	if err != nil {
		return
	}

	viper.SetEnvPrefix("Y86")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config := viper.GetString("config")
	if len(config) != 0 {
		viper.SetConfigFile(config)
		err = viper.ReadInConfig()
		if err != nil {
			return
		}
	}

	logFile := viper.GetString("log-file")
	if len(logFile) != 0 {
		log.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
		})
	}

	return
}

func run(in io.Reader, out io.Writer) (err error) {
	format, err := emulator.ParseFormat(viper.GetString("format"))
	if err != nil {
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = viper.GetBool("verbose")
	emu.Limit = viper.GetInt("limit")

	until := viper.GetString("until")
	if len(until) != 0 {
		emu.Watch, err = emulator.NewWatch(until)
		if err != nil {
			return
		}
	}

	state := viper.GetString("state")
	stateFile := viper.GetString("state-file")

	switch {
	case len(state) != 0:
		err = emu.LoadState([]byte(state))
	case len(stateFile) != 0:
		var data []byte
		data, err = os.ReadFile(stateFile)
		if err != nil {
			return
		}
		err = emu.LoadState(data)
	default:
		err = emu.LoadProgram(in)
	}
	if err != nil {
		return
	}

	history, err := emu.Trace()

	werr := emulator.WriteHistory(out, format, history)
	if err == nil {
		err = werr
	}

	return
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
