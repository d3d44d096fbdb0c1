package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts an event payload into the typed payload T.
// Events published through the in-process bus carry the struct directly and
// decode by assertion; payloads rehydrated from the dead-letter file or other
// serialized sources arrive as map[string]interface{} and take the JSON
// round-trip path.
func DecodePayload[T any](input interface{}) (T, error) {
	if typed, ok := input.(T); ok {
		return typed, nil
	}

	var decoded T
	raw, err := json.Marshal(input)
	if err != nil {
		return decoded, fmt.Errorf("encode payload for conversion: %w", err)
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return decoded, fmt.Errorf("decode payload as %T: %w", decoded, err)
	}
	return decoded, nil
}
