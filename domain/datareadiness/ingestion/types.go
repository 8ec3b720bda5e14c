package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Value is one typed scalar cell. The zero Value is missing.
// Value is comparable, so it can be used directly as a map key.
type Value struct {
	Type ValueType
	Str  string
	Num  float64
	Bool bool
}

// ValueType defines the storage type for values
type ValueType uint8

const (
	ValueTypeMissing ValueType = iota
	ValueTypeNumeric
	ValueTypeString
	ValueTypeBoolean
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeNumeric:
		return "numeric"
	case ValueTypeString:
		return "string"
	case ValueTypeBoolean:
		return "boolean"
	default:
		return "missing"
	}
}

// NewStringValue creates a string value. The empty string is kept as a
// string so that rows stay structurally distinct from ones holding null.
func NewStringValue(s string) Value {
	return Value{Type: ValueTypeString, Str: s}
}

// NewNumericValue creates a numeric value; NaN and infinities are missing.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, Num: n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, Bool: b}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{}
}

// InferCell types a raw text cell the way loaders see it: blank is missing,
// a finite decimal literal is numeric, anything else is a string.
func InferCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NewMissingValue()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NewNumericValue(f)
	}
	return NewStringValue(raw)
}

// FromAny converts a decoded scalar (JSON, YAML, driver rows) into a Value.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return NewMissingValue()
	case Value:
		return x
	case string:
		return NewStringValue(x)
	case bool:
		return NewBooleanValue(x)
	case float64:
		return NewNumericValue(x)
	case float32:
		return NewNumericValue(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return NewNumericValue(f)
		}
		return NewStringValue(x.String())
	case time.Time:
		return NewStringValue(x.Format(time.RFC3339))
	case fmt.Stringer:
		return NewStringValue(x.String())
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewNumericValue(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewNumericValue(float64(rv.Uint()))
	case reflect.Pointer:
		if rv.IsNil() {
			return NewMissingValue()
		}
		return FromAny(rv.Elem().Interface())
	}
	return NewStringValue(fmt.Sprint(v))
}

// IsNull reports the explicit missing marker only.
func (v Value) IsNull() bool { return v.Type == ValueTypeMissing }

// IsMissing reports null or an empty string.
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || (v.Type == ValueTypeString && v.Str == "")
}

// IsNumeric returns true if the value is stored as a number
func (v Value) IsNumeric() bool { return v.Type == ValueTypeNumeric }

// IsString returns true if the value is stored as a string
func (v Value) IsString() bool { return v.Type == ValueTypeString }

// IsBoolean returns true if the value is stored as a boolean
func (v Value) IsBoolean() bool { return v.Type == ValueTypeBoolean }

// String returns the display form used for frequency tables.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		return v.Str
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueTypeBoolean:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Interface returns the plain Go scalar (nil, float64, string or bool).
func (v Value) Interface() any {
	switch v.Type {
	case ValueTypeString:
		return v.Str
	case ValueTypeNumeric:
		return v.Num
	case ValueTypeBoolean:
		return v.Bool
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}
