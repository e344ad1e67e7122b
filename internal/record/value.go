package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the runtime type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindText:
		return "TEXT"
	case KindBool:
		return "BOOL"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a tagged variant holding one of the engine's literal types.
// The zero Value is NULL. Values are comparable and usable as map keys.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

func Null() Value           { return Value{} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Text(s string) Value   { return Value{kind: KindText, s: s} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) Int() int64       { return v.i }
func (v Value) Float64() float64 { return v.f }
func (v Value) Text() string     { return v.s }
func (v Value) Bool() bool       { return v.b }

// numeric returns the value as float64 for KindInt/KindFloat.
func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal reports value equality. Integers and floats compare numerically
// across kinds, so Int(1) equals Float(1.0). NULL equals only NULL.
func (v Value) Equal(o Value) bool {
	if a, ok := v.numeric(); ok {
		if b, ok := o.numeric(); ok {
			return a == b
		}
		return false
	}
	return v == o
}

// Compare orders two values. It returns -1/0/+1 and ok=true when the pair
// is orderable: numeric against numeric, or text against text. Everything
// else, including NULL on either side, is not orderable.
func (v Value) Compare(o Value) (int, bool) {
	if a, ok := v.numeric(); ok {
		b, ok := o.numeric()
		if !ok {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.kind == KindText && o.kind == KindText {
		return strings.Compare(v.s, o.s), true
	}
	return 0, false
}

// String renders the value the way the shells display it.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "NULL"
	}
}

// formatFloat keeps a fractional or exponent marker in the output so a
// reloaded number decodes back to KindFloat.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// MarshalJSON emits plain JSON scalars so table unit files stay readable.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		return []byte(formatFloat(v.f)), nil
	case KindText:
		return appendQuoted(nil, v.s), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	default:
		return nil, fmt.Errorf("record: cannot marshal kind %v", v.kind)
	}
}

func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch r {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if r < 0x20 {
				dst = append(dst, []byte(fmt.Sprintf("\\u%04x", r))...)
			} else {
				dst = append(dst, string(r)...)
			}
		}
	}
	return append(dst, '"')
}

// UnmarshalJSON tags the scalar by syntax: numbers without a fractional or
// exponent marker become KindInt, all other numbers KindFloat.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*v = Null()
		return nil
	case raw == "true":
		*v = Bool(true)
		return nil
	case raw == "false":
		*v = Bool(false)
		return nil
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("record: bad string literal %s: %w", raw, err)
		}
		*v = Text(s)
		return nil
	}
	if !strings.ContainsAny(raw, ".eE") {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			*v = Int(i)
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("record: bad literal %s", raw)
	}
	*v = Float(f)
	return nil
}
