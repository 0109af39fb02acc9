package emulator

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/y86/cpu"
)

// jsonable converts decoded YAML into values encoding/json accepts.
func jsonable(in any) any {
	switch value := in.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[key] = jsonable(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[fmt.Sprint(key)] = jsonable(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for n, item := range value {
			out[n] = jsonable(item)
		}
		return out
	}

	return in
}

// ParseState decodes a snapshot from JSON or YAML text.
func ParseState(data []byte) (state cpu.State, err error) {
	var doc any
	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return
	}

	if doc == nil {
		err = ErrStateEmpty
		return
	}

	data, err = json.Marshal(jsonable(doc))
	if err != nil {
		return
	}

	err = json.Unmarshal(data, &state)
	return
}
