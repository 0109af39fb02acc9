package emulator

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/y86/cpu"
)

// Format is a history output encoding.
type Format int

const (
	FORMAT_JSON = Format(0)
	FORMAT_YAML = Format(1)
)

var _format_name = map[Format]string{
	FORMAT_JSON: "json",
	FORMAT_YAML: "yaml",
}

func (format Format) String() string {
	return _format_name[format]
}

// ParseFormat returns the format of a name.
func ParseFormat(name string) (format Format, err error) {
	for format, known := range _format_name {
		if known == name {
			return format, nil
		}
	}

	err = ErrFormat
	return
}

// WriteHistory writes the history as a single array.
func WriteHistory(out io.Writer, format Format, history []cpu.State) (err error) {
	if history == nil {
		history = []cpu.State{}
	}

	switch format {
	case FORMAT_JSON:
		err = json.NewEncoder(out).Encode(history)
	case FORMAT_YAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		err = enc.Encode(history)
		if err != nil {
			return
		}
		err = enc.Close()
	default:
		err = ErrFormat
	}

	return
}
