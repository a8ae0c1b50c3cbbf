package models

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Modifiers are the option values chosen for a cart item, keyed by modifier
// id. They travel as a flat JSON object of strings.
type Modifiers map[string]string

func (m Modifiers) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]string(m))
}

// UnmarshalJSON accepts any scalar value and keeps its textual form, so
// {"12": 34} decodes as {"12": "34"}.
func (m *Modifiers) UnmarshalJSON(data []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("modifiers: %w", err)
	}
	out := make(Modifiers, len(raw))
	for k, v := range raw {
		val := jsoniter.Get(v)
		if val.ValueType() == jsoniter.StringValue {
			out[k] = val.ToString()
			continue
		}
		out[k] = string(v)
	}
	*m = out
	return nil
}
