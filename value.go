package logo

import (
	"strconv"
	"strings"
)

// A Value is what expressions produce and primitives consume: nothing at all,
// a single-precision number, an interned word, or a list. The zero Value is
// the "none" value.
type Value struct {
	Kind ValueKind
	Num  float32
	Node Node
}

// ValueKind discriminates the Value union.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindNumber
	KindWord
	KindList
)

// NumberVal wraps a number.
func NumberVal(f float32) Value { return Value{Kind: KindNumber, Num: f} }

// WordVal wraps an interned word node.
func WordVal(n Node) Value { return Value{Kind: KindWord, Node: n} }

// ListVal wraps a list node. The empty list is ListVal(Nil).
func ListVal(n Node) Value { return Value{Kind: KindList, Node: n} }

// IsNone reports whether v carries no value.
func (v Value) IsNone() bool { return v.Kind == KindNone }

func formatNumber(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// FormatValue renders v the way PRINT does: numbers in shortest form, words
// by their spelling, lists space-separated with inner (but not outer)
// brackets.
func FormatValue(st *Store, v Value) string {
	var sb strings.Builder
	writeValue(&sb, st, v, false)
	return sb.String()
}

// ShowValue renders v the way SHOW does, keeping outer list brackets.
func ShowValue(st *Store, v Value) string {
	var sb strings.Builder
	writeValue(&sb, st, v, true)
	return sb.String()
}

func writeValue(sb *strings.Builder, st *Store, v Value, outer bool) {
	switch v.Kind {
	case KindNumber:
		sb.WriteString(formatNumber(v.Num))
	case KindWord:
		sb.WriteString(st.WordText(v.Node))
	case KindList:
		writeList(sb, st, v.Node, outer)
	}
}

func writeList(sb *strings.Builder, st *Store, n Node, brackets bool) {
	if brackets {
		sb.WriteByte('[')
	}
	first := true
	for n.IsList() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		car := st.Car(n)
		switch car.Kind() {
		case WordNode:
			sb.WriteString(st.WordText(car))
		case ListNode:
			writeList(sb, st, car, true)
		case NilNode:
			sb.WriteString("[]")
		}
		n = st.Cdr(n)
	}
	if brackets {
		sb.WriteByte(']')
	}
}
