package models

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Presence holds a JSON field that the backend sends as a boolean, an object
// or null. Only its truthiness matters to the portal.
type Presence struct {
	raw json.RawMessage
}

func PresenceOf(raw string) Presence {
	return Presence{raw: json.RawMessage(raw)}
}

func (p *Presence) UnmarshalJSON(b []byte) error {
	p.raw = append(p.raw[:0], b...)
	return nil
}

func (p Presence) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

func (p Presence) Present() bool {
	if len(p.raw) == 0 {
		return false
	}
	return Truthy(gjson.ParseBytes(p.raw))
}

// Truthy reports whether a JSON value counts as set: objects, arrays, true,
// non-empty strings and non-zero numbers.
func Truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	default:
		return false
	}
}
