package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
)

// Count is an ordinal or count attribute
// whole numbers written as floats (2.0, 2e0) decode; fractional or non-numeric values do not
type Count int

var countType = reflect.TypeOf(Count(0))

// UnmarshalJSON implements json.Unmarshaler
// failures come back as *json.UnmarshalTypeError so the decoder attaches the field name
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return &json.UnmarshalTypeError{Value: literalKind(b), Type: countType}
	}
	f, err := json.Number(b).Float64()
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return &json.UnmarshalTypeError{Value: "number " + string(b), Type: countType}
	}
	*c = Count(f)
	return nil
}

func literalKind(b []byte) string {
	if len(b) == 0 {
		return "nothing"
	}
	switch b[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '[':
		return "array"
	case '{':
		return "object"
	}
	return "literal " + string(b)
}
