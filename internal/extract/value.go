package extract

import "encoding/json"

// Value is one feature or target measurement: either numeric, categorical,
// or explicitly missing. Missing is distinct from zero: undefined ratios
// must stay undefined instead of silently averaging to zero downstream.
type Value struct {
	Number  float64
	Label   string
	IsLabel bool
	Missing bool
}

// Num returns a numeric value.
func Num(v float64) Value { return Value{Number: v} }

// Label returns a categorical value.
func Label(s string) Value { return Value{Label: s, IsLabel: true} }

// None returns the missing value.
func None() Value { return Value{Missing: true} }

// MarshalJSON renders missing as null, categorical as a string, and numeric
// as a bare number, so a serialized result row reads as a plain record.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Missing:
		return []byte("null"), nil
	case v.IsLabel:
		return json.Marshal(v.Label)
	default:
		return json.Marshal(v.Number)
	}
}

// UnmarshalJSON accepts the shapes MarshalJSON produces.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Label(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Num(f)
	return nil
}
