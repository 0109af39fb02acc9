package emulator

import (
	"errors"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/y86/cpu"
)

// Watch is a stop predicate, written as a Starlark expression over the
// machine state.
//
// The expression sees 'pc', 'stat', 'zf', 'sf', 'of', every register by
// name, the status constants 'AOK', 'HLT', 'ADR' and 'INS', and a
// 'mem(addr)' function returning the quad word at addr.
type Watch struct {
	Expr string
}

// NewWatch checks the expression against a freshly reset machine.
func NewWatch(expr string) (watch *Watch, err error) {
	watch = &Watch{Expr: expr}

	_, err = watch.Match(cpu.NewCpu())
	if err != nil {
		watch = nil
	}

	return
}

// predeclared returns the names visible to the expression.
func predeclared(cp *cpu.Cpu) (pred starlark.StringDict) {
	pred = starlark.StringDict{
		"pc":   starlark.MakeInt64(cp.Pc),
		"stat": starlark.MakeInt(int(cp.Stat)),
		"zf":   starlark.Bool(cp.Flags.ZF),
		"sf":   starlark.Bool(cp.Flags.SF),
		"of":   starlark.Bool(cp.Flags.OF),
	}

	for _, stat := range []cpu.Status{cpu.STAT_AOK, cpu.STAT_HLT, cpu.STAT_ADR, cpu.STAT_INS} {
		pred[stat.String()] = starlark.MakeInt(int(stat))
	}

	for n, value := range cp.Register {
		pred[cpu.CodeReg(n).String()] = starlark.MakeInt64(value)
	}

	pred["mem"] = starlark.NewBuiltin("mem", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr starlark.Int
		err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr)
		if err != nil {
			return nil, err
		}
		addr64, ok := addr.Int64()
		if !ok {
			return nil, cpu.ErrAddress
		}
		value, err := cp.Memory.Quad(addr64)
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt64(value), nil
	})

	return
}

// Match evaluates the expression against the current machine state.
func (watch *Watch) Match(cp *cpu.Cpu) (ok bool, err error) {
	thread := starlark.Thread{Name: "watch"}
	opts := syntax.FileOptions{}
	prog := "rc=" + watch.Expr + "\n"

	dict, err := starlark.ExecFileOptions(&opts, &thread, "watch", prog, predeclared(cp))
	if err != nil {
		err = errors.Join(ErrWatch, err)
		return
	}

	rc, found := dict["rc"]
	if !found {
		err = ErrWatchResult
		return
	}

	ok = bool(rc.Truth())
	return
}
