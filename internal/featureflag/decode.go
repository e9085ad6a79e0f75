package featureflag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrUnrecognizedShape = errors.New("unrecognized feature flag payload")

// Feature is one flag as returned by the flag service.
type Feature struct {
	Key          string          `json:"key"`
	DefaultValue json.RawMessage `json:"defaultValue,omitempty"`
	Rules        json.RawMessage `json:"rules,omitempty"`
	Description  string          `json:"description,omitempty"`
}

// Enabled reads the default value as a boolean flag. Non-boolean values count as
// enabled unless they are null, false, "false", 0 or "".
func (f Feature) Enabled() bool {
	switch v := bytes.TrimSpace(f.DefaultValue); string(v) {
	case "", "null", "false", `"false"`, "0", `""`:
		return false
	default:
		return true
	}
}

type featureItem struct {
	Key          string          `json:"key"`
	ID           string          `json:"id"`
	DefaultValue json.RawMessage `json:"defaultValue"`
	Rules        json.RawMessage `json:"rules"`
	Description  string          `json:"description"`
}

func (it featureItem) feature(key string) Feature {
	return Feature{Key: key, DefaultValue: it.DefaultValue, Rules: it.Rules, Description: it.Description}
}

// Decode normalizes the payload shapes the flag service is known to return:
//
//	[ {key|id, ...}, ... ]
//	{"features": [ ... ]}
//	{"features": {"<key>": {...}, ...}}
//	{"data": [ ... ]}
//
// Any other shape is ErrUnrecognizedShape.
func Decode(raw []byte) ([]Feature, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnrecognizedShape)
	}

	switch raw[0] {
	case '[':
		return decodeList(raw)
	case '{':
	default:
		return nil, fmt.Errorf("%w: top level is neither array nor object", ErrUnrecognizedShape)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}

	if features, ok := envelope["features"]; ok {
		features = bytes.TrimSpace(features)
		switch {
		case len(features) > 0 && features[0] == '[':
			return decodeList(features)
		case len(features) > 0 && features[0] == '{':
			return decodeMap(features)
		default:
			return nil, fmt.Errorf("%w: features is neither array nor object", ErrUnrecognizedShape)
		}
	}
	if data, ok := envelope["data"]; ok {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '[' {
			return decodeList(data)
		}
		return nil, fmt.Errorf("%w: data is not an array", ErrUnrecognizedShape)
	}
	return nil, fmt.Errorf("%w: object has neither features nor data", ErrUnrecognizedShape)
}

func decodeList(raw []byte) ([]Feature, error) {
	var items []featureItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}
	out := make([]Feature, 0, len(items))
	for i, it := range items {
		key := it.Key
		if key == "" {
			key = it.ID
		}
		if key == "" {
			return nil, fmt.Errorf("%w: feature %d has no key", ErrUnrecognizedShape, i)
		}
		out = append(out, it.feature(key))
	}
	return out, nil
}

func decodeMap(raw []byte) ([]Feature, error) {
	var items map[string]featureItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}
	out := make([]Feature, 0, len(items))
	for key, it := range items {
		out = append(out, it.feature(key))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
