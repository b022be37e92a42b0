package ushmm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// flexField accepts catalog fields that arrive as a string, a list of
// strings, a number, or null.
type flexField []string

func (f *flexField) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = nil
		return nil
	}

	if strings.HasPrefix(s, "[") {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		vals := make([]string, 0, len(items))
		for _, item := range items {
			vals = append(vals, stringify(item))
		}
		*f = vals
		return nil
	}

	var single any
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*f = []string{stringify(single)}
	return nil
}

// Join flattens the field to a "; "-delimited string, "" for missing.
func (f flexField) Join() string {
	return strings.Join(f, "; ")
}

// flexString accepts a JSON string or number and keeps it as a string.
// Catalog IRNs show up both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*f = ""
		return nil
	}
	*f = flexString(stringify(v))
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// IRNs are integral; avoid the %v float rendering.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
