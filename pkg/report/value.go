package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// aspectKey marks an object as an annotated text payload.
const aspectKey = "aspect"

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	// ValueMissing is the zero Value: the field is absent.
	ValueMissing ValueKind = iota
	// ValuePlain holds an arbitrary JSON-representable value, including null.
	ValuePlain
	// ValueAnnotated holds an AnnotatedText payload.
	ValueAnnotated
)

// Span labels a range of an annotated text. Offsets are character positions,
// End is exclusive.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// AnnotatedText is a text payload with labelled spans, such as a paragraph of a
// document with the offending words marked.
type AnnotatedText struct {
	Text  string
	Spans []Span
}

// annotatedWire is the serialized form of AnnotatedText.
type annotatedWire struct {
	Text   string        `json:"text"`
	Aspect annotatedAspect `json:"aspect"`
}

type annotatedAspect struct {
	Spans []Span `json:"spans"`
}

// Value is the payload of an item definition or property: missing, a plain
// value, or annotated text.
type Value struct {
	kind  ValueKind
	plain any
	text  AnnotatedText
}

// Plain wraps an arbitrary JSON-representable value.
func Plain(v any) Value {
	return Value{kind: ValuePlain, plain: v}
}

// Annotated wraps an annotated text payload.
func Annotated(text AnnotatedText) Value {
	text.Spans = slices.Clone(text.Spans)
	return Value{kind: ValueAnnotated, text: text}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether v is missing. It lets encoding/json omit missing
// values with the omitzero option.
func (v Value) IsZero() bool {
	return v.kind == ValueMissing
}

// PlainValue returns the wrapped plain value.
func (v Value) PlainValue() (any, bool) {
	return v.plain, v.kind == ValuePlain
}

// AnnotatedText returns the wrapped annotated text.
func (v Value) AnnotatedText() (AnnotatedText, bool) {
	return v.text, v.kind == ValueAnnotated
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueAnnotated:
		spans := v.text.Spans
		if spans == nil {
			spans = []Span{}
		}
		return json.Marshal(annotatedWire{Text: v.text.Text, Aspect: annotatedAspect{Spans: spans}})
	case ValuePlain:
		return json.Marshal(v.plain)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. An object carrying an "aspect"
// sub-object decodes to annotated text; everything else is kept as a plain value.
// Numbers are kept as json.Number so that re-encoding reproduces them exactly.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		if raw, ok := probe[aspectKey]; ok && isObject(raw) {
			var wire annotatedWire
			if err := json.Unmarshal(trimmed, &wire); err != nil {
				return fmt.Errorf("decode annotated text: %w", err)
			}
			*v = Annotated(AnnotatedText{Text: wire.Text, Spans: wire.Aspect.Spans})
			return nil
		}
	}

	plain, err := decodePlain(trimmed)
	if err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = Plain(plain)
	return nil
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueAnnotated:
		return v.text.Text == other.text.Text && slices.Equal(v.text.Spans, other.text.Spans)
	case ValuePlain:
		left, errL := json.Marshal(v.plain)
		right, errR := json.Marshal(other.plain)
		return errL == nil && errR == nil && bytes.Equal(left, right)
	default:
		return true
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodePlain(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneValues(in map[string]Value) map[string]Value {
	if in == nil {
		return nil
	}
	return maps.Clone(in)
}
