package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a quotient that may be undefined (x/0 with x != 0).
// Undefined ratios are NaN in memory and null in JSON.
type Ratio float64

// Undefined is the ratio produced by a non-zero numerator over zero
var Undefined = Ratio(math.NaN())

// Defined reports whether r holds a finite value
func (r Ratio) Defined() bool {
	f := float64(r)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns r as float64, NaN when undefined
func (r Ratio) Float() float64 {
	return float64(r)
}

// String formats r for tables and exports; undefined ratios render empty
func (r Ratio) String() string {
	if !r.Defined() {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}
