package emulator

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	ErrStateEmpty  = errors.New(f("state empty"))
	ErrFormat      = errors.New(f("format unknown"))
	ErrWatch       = errors.New(f("watch expression"))
	ErrWatchResult = errors.New(f("watch expression result"))
)

// ErrLoad indicates a program or snapshot that could not be loaded.
type ErrLoad struct {
	Source string
	Err    error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Source, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc  int64
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%03x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
