package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleString can unmarshal from either string or number JSON values.
// Other shapes leave it empty.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	*f = ""
	return nil
}

func (f FlexibleString) String() string {
	return string(f)
}

// FlexibleStrings unmarshals from a single string or an array of strings.
// CSL records carry "title" either way. Numbers are kept as text; other
// shapes (objects, nested arrays) leave it empty rather than failing the
// whole record.
type FlexibleStrings []string

func (f *FlexibleStrings) UnmarshalJSON(data []byte) error {
	*f = nil

	var single FlexibleString
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*f = FlexibleStrings{single.String()}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, item := range items {
		var s FlexibleString
		if err := json.Unmarshal(item, &s); err == nil && s != "" {
			*f = append(*f, s.String())
		}
	}
	return nil
}

// First returns the first value, or "".
func (f FlexibleStrings) First() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// FlexibleInt unmarshals from a JSON number or a numeric string. Null, empty
// strings, non-numeric strings and other shapes leave it unset.
type FlexibleInt struct {
	Value int
	Valid bool
}

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	var s FlexibleString
	if err := json.Unmarshal(data, &s); err != nil {
		*f = FlexibleInt{}
		return nil
	}

	str := strings.TrimSpace(strings.ReplaceAll(s.String(), ",", ""))
	if str == "" {
		*f = FlexibleInt{}
		return nil
	}
	if n, err := strconv.Atoi(str); err == nil {
		*f = FlexibleInt{Value: n, Valid: true}
		return nil
	}
	if fl, err := strconv.ParseFloat(str, 64); err == nil {
		*f = FlexibleInt{Value: int(fl), Valid: true}
		return nil
	}
	*f = FlexibleInt{}
	return nil
}

// Ptr returns the value as a pointer, nil when unset.
func (f FlexibleInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Int returns the value, 0 when unset.
func (f FlexibleInt) Int() int {
	if !f.Valid {
		return 0
	}
	return f.Value
}
